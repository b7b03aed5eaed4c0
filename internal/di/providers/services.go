package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinevault/cinevault-server/internal/auth"
	"github.com/cinevault/cinevault-server/internal/config"
	"github.com/cinevault/cinevault-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[auth.TokenService](i)
	log := do.MustInvoke[*LoggerHandle](i)

	return service.NewAuthService(storeHandle.Store, tokens, log.Logger.Logger), nil
}

// ProvideCatalogService provides the movie catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*LoggerHandle](i)

	return service.NewCatalogService(storeHandle.Store, log.Logger.Logger), nil
}

// ProvidePosterService provides the poster service.
func ProvidePosterService(i do.Injector) (*service.PosterService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storage := do.MustInvoke[*PosterStorageHandle](i)
	log := do.MustInvoke[*LoggerHandle](i)

	return service.NewPosterService(storage.Storage, cfg.Posters.MaxBytes, log.Logger.Logger), nil
}
