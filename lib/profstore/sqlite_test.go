package profstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"rmpscrape/lib/scrapers/ratemyprof"
	"rmpscrape/lib/telemetry"

	"github.com/mazen160/go-random"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupStore(t *testing.T) Store {
	sqlite, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	_, err = sqlite.Exec(Schema)
	require.NoError(t, err)

	return NewStore(sqlite)
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "jane doe", NormalizeName("  Jane   DOE "))
	require.Equal(t, "", NormalizeName("   "))
}

func TestImport(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:profstore")
	defer cleanup()

	store := setupStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	externalId, err := random.String(16)
	require.NoError(t, err)

	stats, err := store.Import(ctx, []ratemyprof.Professor{
		{
			Id:            ptr(externalId),
			FirstName:     ptr("Jon"),
			LastName:      ptr("Smith"),
			Department:    ptr("Mathematics"),
			AvgRating:     ptr(3.2),
			NumRatings:    ptr(int64(8)),
			AvgDifficulty: ptr(2.9),
		},
		// nameless records cannot be matched against the catalog
		{Id: ptr("anonymous")},
	})
	require.NoError(t, err)
	require.Equal(t, ImportStats{Inserted: 1, Skipped: 1}, stats)

	// an exact normalized name match updates in place
	stats, err = store.Import(ctx, []ratemyprof.Professor{
		{
			Id:        ptr(externalId),
			FirstName: ptr("JON"),
			LastName:  ptr("  Smith "),
			AvgRating: ptr(3.5),
		},
	})
	require.NoError(t, err)
	require.Equal(t, ImportStats{Updated: 1}, stats)

	// so does a close spelling variant
	stats, err = store.Import(ctx, []ratemyprof.Professor{
		{
			Id:        ptr(externalId),
			FirstName: ptr("John"),
			LastName:  ptr("Smith"),
			AvgRating: ptr(3.7),
		},
	})
	require.NoError(t, err)
	require.Equal(t, ImportStats{Updated: 1}, stats)

	// a different instructor gets its own row
	stats, err = store.Import(ctx, []ratemyprof.Professor{
		{
			FirstName: ptr("Mary"),
			LastName:  ptr("Jones"),
		},
	})
	require.NoError(t, err)
	require.Equal(t, ImportStats{Inserted: 1}, stats)

	db := storeDB(t, store)
	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM instructors`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	var rating float64
	err = db.QueryRowContext(ctx,
		`SELECT ext_avg_rating FROM instructors WHERE external_id = ?`, externalId,
	).Scan(&rating)
	require.NoError(t, err)
	require.Equal(t, 3.7, rating)
}

func storeDB(t *testing.T, store Store) *sql.DB {
	require.NotNil(t, store.db)
	return store.db
}
