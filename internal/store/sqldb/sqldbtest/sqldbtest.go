// Package sqldbtest opens throwaway SQLite stores with a small catalog fixture.
package sqldbtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinevault/cinevault-server/internal/store/sqldb"
)

// NewStore opens an empty SQLite store in t.TempDir().
func NewStore(t *testing.T) *sqldb.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqldb.Open(context.Background(), sqldb.Config{
		Driver: sqldb.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "catalog.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// NewSeededStore opens a store loaded with Seed.
func NewSeededStore(t *testing.T) *sqldb.Store {
	t.Helper()
	s := NewStore(t)
	Seed(t, s)
	return s
}

// Seed loads the fixture catalog:
//
//   - tt0133093 "The Matrix" (1999): two directors, two writers, five actors
//     stored out of billing order, one actress, rated 8.7
//   - tt0234215 "The Matrix Reloaded" (2003): no crew row, no rating
//   - tt0242653 "The Matrix Revolutions" (2003): null runtime, null rating
//   - tt9999999 "100%_Pure!": LIKE metacharacters in the title
//   - 250 titles "Filler Movie NNN" (2000) for pagination
func Seed(t *testing.T, s *sqldb.Store) {
	t.Helper()
	ctx := context.Background()

	basics := [][]any{
		{"tt0133093", "movie", "The Matrix", 1999, 136, "Action,Sci-Fi"},
		{"tt0234215", "movie", "The Matrix Reloaded", 2003, 138, "Action,Sci-Fi"},
		{"tt0242653", "movie", "The Matrix Revolutions", 2003, nil, "Action,Sci-Fi"},
		{"tt9999999", "short", "100%_Pure!", 2010, 5, "Comedy"},
	}
	for i := range 250 {
		basics = append(basics, []any{fmt.Sprintf("tf%07d", i), "movie", fmt.Sprintf("Filler Movie %03d", i), 2000, 90, "Drama"})
	}
	require.NoError(t, s.InsertRows(ctx, sqldb.TableBasics, basics))

	require.NoError(t, s.InsertRows(ctx, sqldb.TableCrew, [][]any{
		{"tt0133093", "nm0905154,nm0905152", "nm0905152,nm0905154"},
		{"tt0242653", `\N`, `\N`},
	}))

	require.NoError(t, s.InsertRows(ctx, sqldb.TableRatings, [][]any{
		{"tt0133093", 8.7, 2000000},
		{"tt0242653", nil, 0},
	}))

	require.NoError(t, s.InsertRows(ctx, sqldb.TableNames, [][]any{
		{"nm0905154", "Lana Wachowski"},
		{"nm0905152", "Lilly Wachowski"},
		{"nm0000206", "Keanu Reeves"},
		{"nm0000401", "Laurence Fishburne"},
		{"nm0005251", "Carrie-Anne Moss"},
		{"nm0915989", "Hugo Weaving"},
		{"nm0324956", "Marcus Chong"},
		{"nm0001592", "Joe Pantoliano"},
	}))

	require.NoError(t, s.InsertRows(ctx, sqldb.TablePrincipals, [][]any{
		{"tt0133093", 5, "nm0324956", "actor"},
		{"tt0133093", 1, "nm0000206", "actor"},
		{"tt0133093", 3, "nm0005251", "actress"},
		{"tt0133093", 2, "nm0000401", "actor"},
		{"tt0133093", 4, "nm0915989", "actor"},
		{"tt0133093", 6, "nm0001592", "actor"},
		{"tt0133093", 7, "nm0905154", "director"},
	}))
}

// DropTable removes a relation so tests can observe schema faults.
func DropTable(t *testing.T, s *sqldb.Store, table string) {
	t.Helper()
	_, err := s.DB().ExecContext(context.Background(), "DROP TABLE "+table)
	require.NoError(t, err)
}
