package profstore

import (
	"os"
	"path/filepath"
	"testing"

	"rmpscrape/lib/scrapers/ratemyprof"
	"rmpscrape/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestJSONRoundTrip(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:profstore")
	defer cleanup()

	path := filepath.Join(t.TempDir(), "rmp.json")
	records := []ratemyprof.Professor{
		{
			Id:                    ptr("VGVhY2hlci0xMjM="),
			FirstName:             ptr("Renée"),
			LastName:              ptr("Müller"),
			School:                ptr("Université Laval"),
			SchoolId:              ptr("U2Nob29sLTE0NDA="),
			AvgRating:             ptr(4.5),
			NumRatings:            ptr(int64(12)),
			Department:            ptr("CS"),
			WouldTakeAgainPercent: ptr(-1.0),
			AvgDifficulty:         ptr(2.3),
		},
		{
			Id: ptr("VGVhY2hlci00NTY="),
		},
	}

	err := WriteJSON(path, records)
	require.NoError(t, err)

	got, err := ReadJSON(path)
	require.NoError(t, err)
	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// non-ascii names are written verbatim, not escaped
	require.Contains(t, string(raw), "Renée")
	require.Contains(t, string(raw), "Université Laval")
	require.Contains(t, string(raw), "\n  {")
}

func TestWriteJSONOverwrites(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:profstore")
	defer cleanup()

	path := filepath.Join(t.TempDir(), "rmp.json")

	err := WriteJSON(path, []ratemyprof.Professor{
		{Id: ptr("t1")}, {Id: ptr("t2")}, {Id: ptr("t3")},
	})
	require.NoError(t, err)

	err = WriteJSON(path, []ratemyprof.Professor{{Id: ptr("t4")}})
	require.NoError(t, err)

	got, err := ReadJSON(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, ptr("t4"), got[0].Id)
}
