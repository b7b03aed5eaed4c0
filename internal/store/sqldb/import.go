package sqldb

import (
	"context"
	"fmt"
	"strings"
)

// Table describes a catalog relation that can be bulk loaded.
type Table struct {
	Name    string
	Key     []string
	Columns []string
}

// Catalog relations in load order.
var (
	TableBasics = Table{
		Name:    "basics",
		Key:     []string{"tconst"},
		Columns: []string{"tconst", "titleType", "primaryTitle", "startYear", "runtimeMinutes", "genres"},
	}
	TableCrew = Table{
		Name:    "crew",
		Key:     []string{"tconst"},
		Columns: []string{"tconst", "directors", "writers"},
	}
	TableRatings = Table{
		Name:    "ratings",
		Key:     []string{"tconst"},
		Columns: []string{"tconst", "averageRating", "numVotes"},
	}
	TableNames = Table{
		Name:    "names",
		Key:     []string{"nconst"},
		Columns: []string{"nconst", "primaryName"},
	}
	TablePrincipals = Table{
		Name:    "principals",
		Key:     []string{"tconst", "ordering"},
		Columns: []string{"tconst", "ordering", "nconst", "category"},
	}
)

// upsert returns the insert-or-replace statement for n rows of t.
func (s *Store) upsert(t Table, n int) string {
	cols := strings.Join(t.Columns, ", ")
	row := "(" + placeholders(len(t.Columns)) + ")"
	values := strings.TrimSuffix(strings.Repeat(row+", ", n), ", ")

	switch s.driver {
	case DriverMySQL:
		return fmt.Sprintf("REPLACE INTO %s (%s) VALUES %s", t.Name, cols, values)
	case DriverPostgres:
		var set []string
		for _, c := range t.Columns {
			set = append(set, c+" = EXCLUDED."+c)
		}
		return s.rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON CONFLICT (%s) DO UPDATE SET %s",
			t.Name, cols, values, strings.Join(t.Key, ", "), strings.Join(set, ", ")))
	default:
		return fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES %s", t.Name, cols, values)
	}
}

// InsertRows writes rows into t inside one transaction, replacing rows with
// the same key. Each row must have one value per column.
func (s *Store) InsertRows(ctx context.Context, t Table, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("import "+t.Name, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Stay under the smallest bind-parameter limit of the supported engines.
	chunk := max(1, 900/len(t.Columns))
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		args := make([]any, 0, (end-start)*len(t.Columns))
		for _, row := range rows[start:end] {
			if len(row) != len(t.Columns) {
				return fmt.Errorf("import %s: row has %d values, want %d", t.Name, len(row), len(t.Columns))
			}
			args = append(args, row...)
		}
		if _, err := tx.ExecContext(ctx, s.upsert(t, end-start), args...); err != nil {
			return s.fail("import "+t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.fail("import "+t.Name, err)
	}
	return nil
}
