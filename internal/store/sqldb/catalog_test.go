package sqldb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/store/sqldb"
	"github.com/cinevault/cinevault-server/internal/store/sqldb/sqldbtest"
)

func year(y int) *int { return &y }

func TestSearchTitles_CaseInsensitiveSubstring(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)
	ctx := context.Background()

	filter := domain.SearchFilter{Title: "mAtRiX", Page: 1}
	total, err := s.CountTitles(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	got, err := s.SearchTitles(ctx, filter)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "tt0133093", got[0].IMDbID)
	assert.Equal(t, "The Matrix", got[0].Title)
	assert.Equal(t, 1999, *got[0].Year)
	assert.Equal(t, "movie", got[0].Type)
	assert.Equal(t, "tt0234215", got[1].IMDbID)
	assert.Equal(t, "tt0242653", got[2].IMDbID)
}

func TestSearchTitles_YearFilter(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)
	ctx := context.Background()

	filter := domain.SearchFilter{Title: "matrix", Year: year(2003), Page: 1}
	total, err := s.CountTitles(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	got, err := s.SearchTitles(ctx, filter)
	require.NoError(t, err)
	for _, title := range got {
		assert.Equal(t, 2003, *title.Year)
	}
}

func TestSearchTitles_EscapesLikeMetacharacters(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)
	ctx := context.Background()

	for _, q := range []string{"%", "_", "0%_p", "!"} {
		total, err := s.CountTitles(ctx, domain.SearchFilter{Title: q, Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, total, "query %q should only match the literal title", q)
	}
}

func TestSearchTitles_Pages(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)
	ctx := context.Background()

	filter := domain.SearchFilter{Title: "filler", Page: 1}
	total, err := s.CountTitles(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 250, total)

	seen := map[string]bool{}
	var last string
	for page, want := range map[int]int{1: 100, 2: 100, 3: 50, 4: 0} {
		filter.Page = page
		got, err := s.SearchTitles(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, got, want, "page %d", page)
		for _, title := range got {
			assert.False(t, seen[title.IMDbID], "duplicate across pages")
			seen[title.IMDbID] = true
		}
	}
	assert.Len(t, seen, 250)

	filter.Page = 1
	first, err := s.SearchTitles(ctx, filter)
	require.NoError(t, err)
	for _, title := range first {
		assert.Greater(t, title.IMDbID, last)
		last = title.IMDbID
	}
}

func TestGetTitle(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)
	ctx := context.Background()

	got, err := s.GetTitle(ctx, "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", got.PrimaryTitle)
	assert.Equal(t, 136, *got.RuntimeMinutes)
	assert.Equal(t, "Action,Sci-Fi", got.Genres)

	nullRuntime, err := s.GetTitle(ctx, "tt0242653")
	require.NoError(t, err)
	assert.Nil(t, nullRuntime.RuntimeMinutes)

	_, err = s.GetTitle(ctx, "tt0000000")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestGetCrew(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)
	ctx := context.Background()

	crew, err := s.GetCrew(ctx, "tt0133093")
	require.NoError(t, err)
	assert.Equal(t, []string{"nm0905154", "nm0905152"}, crew.Directors)
	assert.Equal(t, []string{"nm0905152", "nm0905154"}, crew.Writers)

	missing, err := s.GetCrew(ctx, "tt0234215")
	require.NoError(t, err)
	assert.Empty(t, missing.Directors)

	dumpNull, err := s.GetCrew(ctx, "tt0242653")
	require.NoError(t, err)
	assert.Empty(t, dumpNull.Directors)
	assert.Empty(t, dumpNull.Writers)
}

func TestGetRating(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)
	ctx := context.Background()

	r, err := s.GetRating(ctx, "tt0133093")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.InDelta(t, 8.7, *r, 0.001)

	for _, id := range []string{"tt0234215", "tt0242653"} {
		r, err := s.GetRating(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, r, id)
	}
}

func TestLookupNames(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)

	names, err := s.LookupNames(context.Background(), []string{"nm0000206", "nm9999999"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"nm0000206": "Keanu Reeves"}, names)

	empty, err := s.LookupNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListActors_BillingOrderLimit(t *testing.T) {
	s := sqldbtest.NewSeededStore(t)

	actors, err := s.ListActors(context.Background(), "tt0133093", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"Keanu Reeves", "Laurence Fishburne", "Hugo Weaving", "Marcus Chong"}, actors)

	none, err := s.ListActors(context.Background(), "tt0234215", 4)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsertRows_ReplacesByKey(t *testing.T) {
	s := sqldbtest.NewStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertRows(ctx, sqldb.TableNames, [][]any{{"nm1", "Old"}}))
	require.NoError(t, s.InsertRows(ctx, sqldb.TableNames, [][]any{{"nm1", "New"}}))

	names, err := s.LookupNames(ctx, []string{"nm1"})
	require.NoError(t, err)
	assert.Equal(t, "New", names["nm1"])
}

func TestInsertRows_RejectsShortRows(t *testing.T) {
	s := sqldbtest.NewStore(t)

	err := s.InsertRows(context.Background(), sqldb.TableNames, [][]any{{"nm1"}})
	assert.Error(t, err)
}

func TestMissingTableIsSchemaError(t *testing.T) {
	s := sqldbtest.NewStore(t)
	ctx := context.Background()

	sqldbtest.DropTable(t, s, "ratings")

	_, err := s.GetRating(ctx, "tt0133093")
	assert.ErrorIs(t, err, domainerrors.ErrSchema)
}

func TestSearchTitles_UnicodeCaseFolding(t *testing.T) {
	s := sqldbtest.NewStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertRows(ctx, sqldb.TableBasics, [][]any{
		{"tt7000001", "movie", "Élite", 2018, nil, "Drama"},
	}))

	for _, q := range []string{"élite", "ÉLITE", "Élite", "lite"} {
		got, err := s.SearchTitles(ctx, domain.SearchFilter{Title: q, Page: 1})
		require.NoError(t, err)
		require.Len(t, got, 1, "query %q", q)
		assert.Equal(t, "Élite", got[0].Title)
	}
}
