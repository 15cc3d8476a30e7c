package professors

import (
	"context"
	"log/slog"
	"strings"

	"rmpscrape/lib/profstore"
	"rmpscrape/lib/scrapers/ratemyprof"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/professors")

const DefaultOutputFile = "rmp.json"

type ScrapeOptions struct {
	SchoolID string
	// maximum number of records to keep, defaults to
	// ratemyprof.DefaultMaxProfessors
	Max int
	// defaults to DefaultOutputFile
	OutputPath string
}

type Service struct {
	client *ratemyprof.Client
}

func NewService(client *ratemyprof.Client) Service {
	return Service{client: client}
}

// Scrape runs the full fetch -> transform -> persist pipeline. It is
// the outermost scope for upstream failures: network errors, bad status
// codes and malformed responses are reported and converted into an
// empty record set rather than propagated. When no records are produced
// the file write is skipped entirely. Only persistence errors are
// returned, the caller is expected to treat them as fatal.
func (s Service) Scrape(ctx context.Context, opts ScrapeOptions) ([]ratemyprof.Professor, error) {
	ctx, span := tracer.Start(ctx, "Scrape")
	defer span.End()

	slog.InfoContext(ctx, "fetching professors", "school_id", opts.SchoolID)

	records, err := s.client.SearchTeachers(ctx, ratemyprof.SearchTeachersRequest{
		SchoolID: opts.SchoolID,
		Max:      opts.Max,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to scrape professors", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "scrape failed")
		return nil, nil
	}

	slog.InfoContext(ctx, "scraped professors", "count", len(records))
	if len(records) == 0 {
		slog.InfoContext(ctx, "no records were produced, skipping write")
		return nil, nil
	}

	out := opts.OutputPath
	if out == "" {
		out = DefaultOutputFile
	}
	err = profstore.WriteJSON(out, records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return nil, err
	}

	slog.InfoContext(ctx, "data saved", "path", out, "count", len(records))
	return records, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Summary renders a table of up to the first five records for console
// output.
func Summary(records []ratemyprof.Professor) string {
	t := table.NewWriter()
	t.SetTitle("Scraped %d professors", len(records))
	t.AppendHeader(table.Row{"#", "Name", "Department", "Rating", "Ratings"})

	shown := min(len(records), 5)
	for i, record := range records[:shown] {
		name := strings.TrimSpace(deref(record.FirstName) + " " + deref(record.LastName))

		var rating any
		if record.AvgRating != nil {
			rating = *record.AvgRating
		}
		var numRatings any
		if record.NumRatings != nil {
			numRatings = *record.NumRatings
		}

		t.AppendRow(table.Row{i + 1, name, deref(record.Department), rating, numRatings})
	}
	return t.Render()
}
