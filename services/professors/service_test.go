package professors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"rmpscrape/lib/scrapers/ratemyprof"
	"rmpscrape/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ratemyprof.NewClient(ratemyprof.ClientOptions{
		BaseUrl:       server.URL,
		CourtesyDelay: -1,
	})
	require.NoError(t, err)
	return NewService(client)
}

func edgesPayload(nodes ...map[string]any) map[string]any {
	edges := make([]any, len(nodes))
	for i, node := range nodes {
		edges[i] = map[string]any{"cursor": "", "node": node}
	}
	return map[string]any{
		"data": map[string]any{
			"search": map[string]any{
				"teachers": map[string]any{"edges": edges},
			},
		},
	}
}

func TestScrapeEndToEnd(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/professors")
	defer cleanup()

	payload := edgesPayload(
		map[string]any{
			"id":                    "t1",
			"firstName":             "Jane",
			"lastName":              "Doe",
			"avgRating":             4.5,
			"numRatings":            12,
			"department":            "CS",
			"wouldTakeAgainPercent": 87.0,
			"avgDifficulty":         2.3,
		},
		map[string]any{"id": "t2", "firstName": "Ana", "lastName": "Lopez"},
		map[string]any{"id": "t3", "firstName": "Wěi", "lastName": "Chén"},
	)
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		json.NewEncoder(w).Encode(payload)
	})

	out := filepath.Join(t.TempDir(), "rmp.json")
	records, err := service.Scrape(context.Background(), ScrapeOptions{
		SchoolID:   "U2Nob29sLTE0NDA=",
		Max:        100,
		OutputPath: out,
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)

	var written []map[string]any
	err = json.Unmarshal(raw, &written)
	require.NoError(t, err)
	require.Len(t, written, 3)

	require.Equal(t, map[string]any{
		"id":                       "t1",
		"first_name":               "Jane",
		"last_name":                "Doe",
		"school":                   nil,
		"school_id":                nil,
		"avg_rating":               4.5,
		"num_ratings":              float64(12),
		"department":               "CS",
		"would_take_again_percent": 87.0,
		"avg_difficulty":           2.3,
	}, written[0])
	require.Equal(t, "t2", written[1]["id"])
	require.Equal(t, "Wěi", written[2]["first_name"])
}

func TestScrapeUpstreamFailureYieldsEmptyRun(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/professors")
	defer cleanup()

	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	out := filepath.Join(t.TempDir(), "rmp.json")
	records, err := service.Scrape(context.Background(), ScrapeOptions{
		SchoolID:   "U2Nob29sLTE0NDA=",
		OutputPath: out,
	})
	require.NoError(t, err)
	require.Empty(t, records)

	// no records means no file is written
	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestScrapeEmptyPageSkipsWrite(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/professors")
	defer cleanup()

	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		json.NewEncoder(w).Encode(edgesPayload())
	})

	out := filepath.Join(t.TempDir(), "rmp.json")
	records, err := service.Scrape(context.Background(), ScrapeOptions{
		SchoolID:   "U2Nob29sLTE0NDA=",
		OutputPath: out,
	})
	require.NoError(t, err)
	require.Empty(t, records)

	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestScrapePersistFailureIsFatal(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/professors")
	defer cleanup()

	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		json.NewEncoder(w).Encode(edgesPayload(map[string]any{"id": "t1"}))
	})

	_, err := service.Scrape(context.Background(), ScrapeOptions{
		SchoolID:   "U2Nob29sLTE0NDA=",
		OutputPath: filepath.Join(t.TempDir(), "missing", "dir", "rmp.json"),
	})
	require.Error(t, err)
}

func TestSummary(t *testing.T) {
	name1 := "Jane"
	last1 := "Doe"
	rating := 4.5
	records := []ratemyprof.Professor{
		{FirstName: &name1, LastName: &last1, AvgRating: &rating},
		{},
	}

	rendered := Summary(records)
	require.Contains(t, rendered, "Jane Doe")
	require.Contains(t, rendered, "Scraped 2 professors")
}
