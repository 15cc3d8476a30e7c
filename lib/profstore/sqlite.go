package profstore

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"rmpscrape/lib/scrapers/ratemyprof"

	"github.com/antzucaro/matchr"
	_ "modernc.org/sqlite"
)

// two normalized names are considered the same instructor at or above
// this Jaro-Winkler similarity
const nameMatchThreshold = 0.95

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// NormalizeName lowercases a display name and collapses runs of
// whitespace so spelling variants of the same instructor compare equal.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

type ImportStats struct {
	Inserted int
	Updated  int
	Skipped  int
}

type instructorRow struct {
	id             int64
	nameNormalized string
}

func matchInstructor(existing []instructorRow, normalized string) (int64, bool) {
	bestScore := 0.0
	var bestId int64
	for _, row := range existing {
		score := matchr.JaroWinkler(row.nameNormalized, normalized, true)
		if score > bestScore {
			bestScore = score
			bestId = row.id
		}
	}
	if bestScore >= nameMatchThreshold {
		return bestId, true
	}
	return 0, false
}

// Import upserts scraped records into the instructors table. Records
// are matched against existing rows by fuzzy name similarity so re-runs
// and spelling variants update in place instead of duplicating. Records
// without any name are skipped.
func (s Store) Import(ctx context.Context, records []ratemyprof.Professor) (ImportStats, error) {
	var stats ImportStats

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `SELECT id, name_normalized FROM instructors`)
	if err != nil {
		return stats, err
	}
	var existing []instructorRow
	for rows.Next() {
		var row instructorRow
		err = rows.Scan(&row.id, &row.nameNormalized)
		if err != nil {
			rows.Close()
			return stats, err
		}
		existing = append(existing, row)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return stats, err
	}

	for _, record := range records {
		var first, last string
		if record.FirstName != nil {
			first = *record.FirstName
		}
		if record.LastName != nil {
			last = *record.LastName
		}
		fullName := strings.TrimSpace(first + " " + last)
		if fullName == "" {
			var extId string
			if record.Id != nil {
				extId = *record.Id
			}
			slog.WarnContext(ctx, "skipping record with no name", "external_id", extId)
			stats.Skipped++
			continue
		}
		normalized := NormalizeName(fullName)

		if id, ok := matchInstructor(existing, normalized); ok {
			_, err = tx.ExecContext(ctx, `
				UPDATE instructors SET
					department = ?,
					external_source = 'RMP',
					external_id = ?,
					ext_avg_rating = ?,
					ext_avg_difficulty = ?,
					ext_num_ratings = ?,
					ext_would_take_again = ?,
					ext_last_scraped = datetime('now')
				WHERE id = ?;
			`,
				record.Department,
				record.Id,
				record.AvgRating,
				record.AvgDifficulty,
				record.NumRatings,
				record.WouldTakeAgainPercent,
				id,
			)
			if err != nil {
				return stats, err
			}
			stats.Updated++
			continue
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO instructors (
				name,
				name_normalized,
				department,
				external_source,
				external_id,
				ext_avg_rating,
				ext_avg_difficulty,
				ext_num_ratings,
				ext_would_take_again,
				ext_last_scraped
			) VALUES (?, ?, ?, 'RMP', ?, ?, ?, ?, ?, datetime('now'));
		`,
			fullName,
			normalized,
			record.Department,
			record.Id,
			record.AvgRating,
			record.AvgDifficulty,
			record.NumRatings,
			record.WouldTakeAgainPercent,
		)
		if err != nil {
			return stats, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return stats, err
		}
		existing = append(existing, instructorRow{id: id, nameNormalized: normalized})
		stats.Inserted++
	}

	return stats, tx.Commit()
}
