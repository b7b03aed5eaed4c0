// Package di provides dependency injection configuration for the CineVault server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cinevault/cinevault-server/internal/auth"
	"github.com/cinevault/cinevault-server/internal/config"
	"github.com/cinevault/cinevault-server/internal/di/providers"
	"github.com/cinevault/cinevault-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvidePosterStorage)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvidePosterService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Providers are lazy, so a failing
// backend surfaces here instead of on the first request.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.LoggerHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.PosterStorageHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[auth.TokenService](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.PosterService](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
