package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/cinevault/cinevault-server/internal/config"
	"github.com/cinevault/cinevault-server/internal/media/posters"
)

// Poster storage backends.
const (
	BackendFS     = "fs"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// PosterStorageHandle wraps the poster backend with shutdown capability.
type PosterStorageHandle struct {
	posters.Storage
}

// Shutdown implements do.Shutdownable.
func (h *PosterStorageHandle) Shutdown() error {
	return h.Close()
}

// ProvidePosterStorage provides the configured poster blob backend.
func ProvidePosterStorage(i do.Injector) (*PosterStorageHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)

	var (
		storage posters.Storage
		err     error
	)
	switch cfg.Posters.Backend {
	case BackendFS, "":
		storage, err = posters.NewFileStorage(cfg.Posters.Path)
	case BackendBadger:
		storage, err = posters.NewBadgerStorage(cfg.Posters.Path, log.Logger.Logger)
	case BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		storage, err = posters.NewRedisStorage(ctx, posters.RedisConfig{
			Addr:     cfg.Posters.RedisAddr,
			Password: cfg.Posters.RedisPassword,
			DB:       cfg.Posters.RedisDB,
		})
	default:
		return nil, fmt.Errorf("unknown poster backend %q", cfg.Posters.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("poster storage: %w", err)
	}

	log.Info("Poster storage initialized",
		"backend", cfg.Posters.Backend,
		"path", cfg.Posters.Path,
		"max_bytes", cfg.Posters.MaxBytes,
	)

	return &PosterStorageHandle{Storage: storage}, nil
}
