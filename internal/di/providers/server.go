package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/cinevault/cinevault-server/internal/api"
	"github.com/cinevault/cinevault-server/internal/config"
	"github.com/cinevault/cinevault-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	posterHandle := do.MustInvoke[*PosterStorageHandle](i)

	services := &api.Services{
		Auth:    do.MustInvoke[*service.AuthService](i),
		Catalog: do.MustInvoke[*service.CatalogService](i),
		Poster:  do.MustInvoke[*service.PosterService](i),
	}

	handler := api.NewServer(services, api.Backends{
		Store:   storeHandle.Store,
		Posters: posterHandle.Storage,
	}, api.Options{
		Production:          cfg.App.IsProduction(),
		CORSOrigins:         cfg.Server.CORSOrigins,
		PosterMissingStatus: cfg.Posters.MissingStatus,
		AuthRatePerMinute:   cfg.RateLimit.PerMinute,
		AuthRateBurst:       cfg.RateLimit.Burst,
	}, log.Logger.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		var err error
		if cfg.Server.TLSEnabled() {
			log.Info("HTTPS server starting", "addr", srv.Addr, "cert", cfg.Server.TLSCertFile)
			err = srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			log.Info("HTTP server starting", "addr", srv.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}
