package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/store"
	"github.com/cinevault/cinevault-server/internal/validation"
)

// Messages returned by CatalogService.
const (
	MsgTitleRequired     = "Title parameter is required"
	MsgInvalidYear       = "Invalid year format. Format must be yyyy."
	MsgInvalidPage       = "Invalid page number. Page must be a positive integer."
	MsgQueryNotPermitted = "Invalid query parameters. Query parameters are not permitted."
	MsgMovieNotFound     = "Movie not found"
)

const (
	maxActors     = 4
	listSeparator = ","
)

// CatalogService answers catalog searches and detail lookups.
type CatalogService struct {
	store     store.CatalogStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog store.CatalogStore, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		store:     catalog,
		validator: validation.New(),
		logger:    logger,
	}
}

// SearchQuery holds the raw search parameters. Year and Page are optional.
type SearchQuery struct {
	Title string `json:"title" validate:"required"`
	Year  string `json:"year" validate:"omitempty,year4"`
	Page  string `json:"page"`
}

// Search returns one page of titles whose primary title contains Title,
// ignoring case, optionally restricted to a start year.
func (s *CatalogService) Search(ctx context.Context, q SearchQuery) (*domain.SearchResult, error) {
	filter, err := s.parseSearch(q)
	if err != nil {
		return nil, err
	}

	total, err := s.store.CountTitles(ctx, filter)
	if err != nil {
		return nil, err
	}
	data, err := s.store.SearchTitles(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResult{
		Data:       data,
		Pagination: domain.NewPagination(total, filter.Page),
	}, nil
}

func (s *CatalogService) parseSearch(q SearchQuery) (domain.SearchFilter, error) {
	if failed := s.validator.Check(q); failed != nil {
		if _, ok := failed["title"]; ok {
			return domain.SearchFilter{}, domainerrors.Validation(MsgTitleRequired)
		}
		return domain.SearchFilter{}, domainerrors.Validation(MsgInvalidYear)
	}

	filter := domain.SearchFilter{Title: q.Title, Page: 1}
	if q.Year != "" {
		year, err := strconv.Atoi(q.Year)
		if err != nil {
			return domain.SearchFilter{}, domainerrors.Validation(MsgInvalidYear)
		}
		filter.Year = &year
	}
	if q.Page != "" {
		page, err := strconv.Atoi(q.Page)
		if err != nil || page < 1 || page > math.MaxInt/domain.PageSize {
			return domain.SearchFilter{}, domainerrors.Validation(MsgInvalidPage)
		}
		filter.Page = page
	}
	return filter, nil
}

// GetDetail aggregates basics, crew, names, principals and ratings of one
// title into a single-element list. Any query parameter is rejected.
func (s *CatalogService) GetDetail(ctx context.Context, imdbID string, queryKeys []string) ([]domain.MovieDetail, error) {
	if len(queryKeys) > 0 {
		return nil, domainerrors.Validation(MsgQueryNotPermitted)
	}

	title, err := s.store.GetTitle(ctx, imdbID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.NotFound(MsgMovieNotFound)
	}
	if err != nil {
		return nil, err
	}

	crew, err := s.store.GetCrew(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	var lookup []string
	if len(crew.Directors) > 0 {
		lookup = append(lookup, crew.Directors[0])
	}
	lookup = append(lookup, crew.Writers...)
	names, err := s.store.LookupNames(ctx, lookup)
	if err != nil {
		return nil, err
	}

	actors, err := s.store.ListActors(ctx, imdbID, maxActors)
	if err != nil {
		return nil, err
	}

	rating, err := s.store.GetRating(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	detail := domain.MovieDetail{
		Title:   title.PrimaryTitle,
		Year:    title.StartYear,
		Runtime: domain.FormatRuntime(title.RuntimeMinutes),
		Genre:   title.Genres,
		Writer:  joinNames(crew.Writers, names),
		Actors:  strings.Join(actors, listSeparator),
		Ratings: []domain.Rating{domain.NewRating(rating)},
	}
	if len(crew.Directors) > 0 {
		detail.Director = names[crew.Directors[0]]
	}

	return []domain.MovieDetail{detail}, nil
}

// joinNames resolves ids in order, skipping ids without a name.
func joinNames(ids []string, names map[string]string) string {
	resolved := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			resolved = append(resolved, name)
		}
	}
	return strings.Join(resolved, listSeparator)
}
