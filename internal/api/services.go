package api

import (
	"github.com/cinevault/cinevault-server/internal/media/posters"
	"github.com/cinevault/cinevault-server/internal/service"
	"github.com/cinevault/cinevault-server/internal/store"
)

// Services groups the business services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Catalog *service.CatalogService
	Poster  *service.PosterService
}

// Backends groups the storage handles probed by the health check.
type Backends struct {
	Store   store.Store
	Posters posters.Storage
}
