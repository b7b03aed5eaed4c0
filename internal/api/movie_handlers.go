package api

import (
	"context"
	"net/http"
	"sort"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinevault/cinevault-server/internal/domain"
	"github.com/cinevault/cinevault-server/internal/service"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchMovies",
		Method:      http.MethodGet,
		Path:        "/movies/search",
		Summary:     "Search movies",
		Description: "Case-insensitive title search with an optional release year, 100 results per page.",
		Tags:        []string{"Movies"},
	}, s.handleSearchMovies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/movies/data/{imdbID}",
		Summary:     "Get movie details",
		Description: "Returns title, crew, cast and rating of one movie. Query parameters are rejected.",
		Tags:        []string{"Movies"},
	}, s.handleGetMovie)
}

// === DTOs ===

// SearchMoviesInput holds the search query parameters. All are strings so
// the service can report malformed values with its own messages.
type SearchMoviesInput struct {
	Title string `query:"title" doc:"Substring of the primary title"`
	Year  string `query:"year" doc:"Four digit release year"`
	Page  string `query:"page" doc:"1-based page number"`
}

// SearchMoviesOutput wraps a search result page.
type SearchMoviesOutput struct {
	Body *domain.SearchResult
}

// GetMovieInput identifies the movie and records which query parameters were sent.
type GetMovieInput struct {
	IMDbID    string `path:"imdbID" doc:"IMDb title ID, e.g. tt0133093"`
	QueryKeys []string
}

// Resolve implements huma.Resolver.
func (i *GetMovieInput) Resolve(ctx huma.Context) []error {
	u := ctx.URL()
	for k := range u.Query() {
		i.QueryKeys = append(i.QueryKeys, k)
	}
	sort.Strings(i.QueryKeys)
	return nil
}

// GetMovieOutput wraps the single-element detail list.
type GetMovieOutput struct {
	Body []domain.MovieDetail
}

// === Handlers ===

func (s *Server) handleSearchMovies(ctx context.Context, input *SearchMoviesInput) (*SearchMoviesOutput, error) {
	result, err := s.services.Catalog.Search(ctx, service.SearchQuery{
		Title: input.Title,
		Year:  input.Year,
		Page:  input.Page,
	})
	if err != nil {
		return nil, s.apiError(err)
	}
	return &SearchMoviesOutput{Body: result}, nil
}

func (s *Server) handleGetMovie(ctx context.Context, input *GetMovieInput) (*GetMovieOutput, error) {
	details, err := s.services.Catalog.GetDetail(ctx, input.IMDbID, input.QueryKeys)
	if err != nil {
		return nil, s.apiError(err)
	}
	return &GetMovieOutput{Body: details}, nil
}
