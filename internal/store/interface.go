// Package store defines the persistence interfaces of the CineVault server and
// the classifier that turns driver faults into domain errors.
package store

import (
	"context"

	"github.com/cinevault/cinevault-server/internal/domain"
)

// UserStore persists credentials.
type UserStore interface {
	// CreateUser inserts a user. A duplicate email yields a CONFLICT error.
	CreateUser(ctx context.Context, user *domain.User) error
	// GetUserByEmail returns the user or a NOT_FOUND error.
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Crew is the crew row of a title. Both lists keep their stored order.
type Crew struct {
	Directors []string
	Writers   []string
}

// CatalogStore reads the movie catalog relations.
type CatalogStore interface {
	// CountTitles counts titles matching filter, ignoring the page.
	CountTitles(ctx context.Context, filter domain.SearchFilter) (int, error)
	// SearchTitles returns the filter's page ordered by imdbID.
	SearchTitles(ctx context.Context, filter domain.SearchFilter) ([]domain.TitleSummary, error)
	// GetTitle returns the basics row or a NOT_FOUND error.
	GetTitle(ctx context.Context, imdbID string) (*domain.Title, error)
	// GetCrew returns the crew row; a missing row is an empty Crew.
	GetCrew(ctx context.Context, imdbID string) (Crew, error)
	// GetRating returns the average rating, nil when unrated.
	GetRating(ctx context.Context, imdbID string) (*float64, error)
	// LookupNames resolves nconsts to primary names; unknown ids are absent from the map.
	LookupNames(ctx context.Context, nconsts []string) (map[string]string, error)
	// ListActors returns up to limit actor names ordered by billing.
	ListActors(ctx context.Context, imdbID string, limit int) ([]string, error)
}

// Store is the full SQL-backed persistence surface.
type Store interface {
	UserStore
	CatalogStore
	Ping(ctx context.Context) error
	Close() error
}
