package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/store"
)

// likeEscaper escapes LIKE metacharacters with '!' so user input matches literally.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// titleWhere builds the predicate shared by the count and page queries.
func (s *Store) titleWhere(filter domain.SearchFilter) (string, []any) {
	lower := "LOWER"
	if s.driver == DriverSQLite {
		// SQLite's LOWER only folds ASCII.
		lower = unicodeLower
	}
	where := lower + `(primaryTitle) LIKE ? ESCAPE '!'`
	args := []any{"%" + likeEscaper.Replace(strings.ToLower(filter.Title)) + "%"}
	if filter.Year != nil {
		where += ` AND startYear = ?`
		args = append(args, *filter.Year)
	}
	return where, args
}

// CountTitles counts titles matching filter, ignoring the page.
func (s *Store) CountTitles(ctx context.Context, filter domain.SearchFilter) (int, error) {
	where, args := s.titleWhere(filter)

	var total int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM basics WHERE `+where), args...).Scan(&total)
	if err != nil {
		return 0, s.fail("count titles", err)
	}
	return total, nil
}

// SearchTitles returns one page of matching titles ordered by imdbID.
func (s *Store) SearchTitles(ctx context.Context, filter domain.SearchFilter) ([]domain.TitleSummary, error) {
	where, args := s.titleWhere(filter)
	args = append(args, domain.PageSize, filter.Offset())

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT tconst, primaryTitle, startYear, titleType FROM basics WHERE `+where+
			` ORDER BY tconst ASC LIMIT ? OFFSET ?`), args...)
	if err != nil {
		return nil, s.fail("search titles", err)
	}
	defer rows.Close()

	results := make([]domain.TitleSummary, 0, domain.PageSize)
	for rows.Next() {
		var (
			t         domain.TitleSummary
			year      sql.NullInt64
			titleType sql.NullString
		)
		if err := rows.Scan(&t.IMDbID, &t.Title, &year, &titleType); err != nil {
			return nil, s.fail("search titles", err)
		}
		t.Year = intPtr(year)
		t.Type = titleType.String
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("search titles", err)
	}
	return results, nil
}

// GetTitle returns the basics row for imdbID.
func (s *Store) GetTitle(ctx context.Context, imdbID string) (*domain.Title, error) {
	var (
		t         domain.Title
		titleType sql.NullString
		year      sql.NullInt64
		runtime   sql.NullInt64
		genres    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT tconst, primaryTitle, startYear, runtimeMinutes, genres, titleType FROM basics WHERE tconst = ?`), imdbID).
		Scan(&t.IMDbID, &t.PrimaryTitle, &year, &runtime, &genres, &titleType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFoundf("title %s not found", imdbID)
	}
	if err != nil {
		return nil, s.fail("get title", err)
	}

	t.StartYear = intPtr(year)
	t.RuntimeMinutes = intPtr(runtime)
	t.Genres = genres.String
	t.TitleType = titleType.String
	return &t, nil
}

// GetCrew returns the directors and writers of imdbID.
func (s *Store) GetCrew(ctx context.Context, imdbID string) (store.Crew, error) {
	var directors, writers sql.NullString
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT directors, writers FROM crew WHERE tconst = ?`), imdbID).
		Scan(&directors, &writers)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Crew{}, nil
	}
	if err != nil {
		return store.Crew{}, s.fail("get crew", err)
	}
	return store.Crew{Directors: splitIDs(directors.String), Writers: splitIDs(writers.String)}, nil
}

// GetRating returns the average rating of imdbID, nil when unrated.
func (s *Store) GetRating(ctx context.Context, imdbID string) (*float64, error) {
	var rating sql.NullFloat64
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT averageRating FROM ratings WHERE tconst = ?`), imdbID).Scan(&rating)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get rating", err)
	}
	if !rating.Valid {
		return nil, nil
	}
	return &rating.Float64, nil
}

// LookupNames resolves nconsts to primary names.
func (s *Store) LookupNames(ctx context.Context, nconsts []string) (map[string]string, error) {
	names := make(map[string]string, len(nconsts))
	if len(nconsts) == 0 {
		return names, nil
	}

	args := make([]any, len(nconsts))
	for i, id := range nconsts {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT nconst, primaryName FROM names WHERE nconst IN (`+placeholders(len(nconsts))+`)`), args...)
	if err != nil {
		return nil, s.fail("lookup names", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, s.fail("lookup names", err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("lookup names", err)
	}
	return names, nil
}

// ListActors returns up to limit actor names of imdbID in billing order.
func (s *Store) ListActors(ctx context.Context, imdbID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		`SELECT n.primaryName FROM principals p
		 JOIN names n ON n.nconst = p.nconst
		 WHERE p.tconst = ? AND p.category = 'actor'
		 ORDER BY p.ordering ASC
		 LIMIT ?`), imdbID, limit)
	if err != nil {
		return nil, s.fail("list actors", err)
	}
	defer rows.Close()

	var actors []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, s.fail("list actors", err)
		}
		actors = append(actors, name)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list actors", err)
	}
	return actors, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

// splitIDs splits an IMDb comma list. The dump uses "\N" for an empty list.
func splitIDs(s string) []string {
	if s == "" || s == `\N` {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
