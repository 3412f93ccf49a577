package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"visit-scheduler-service/internal/domain"
)

// SQLite-backed implementation of the CommitmentRepository port. It holds
// the locally synced copy of the user's calendar; fetching from the
// remote provider is a separate collaborator.
type SqliteCommitmentRepository struct{ DB *sql.DB }

func NewSqliteCommitmentRepository(db *sql.DB) *SqliteCommitmentRepository {
	return &SqliteCommitmentRepository{DB: db}
}

// Return all commitments whose interval intersects [from, to), ordered by
// start time.
func (s *SqliteCommitmentRepository) ListCommitments(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]domain.Commitment, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite commitment repository: DB is nil")
	}

	query := `
	SELECT
		id,
		title,
		start_at,
		end_at,
		lat,
		lon
	FROM commitments
	WHERE end_at > ? AND start_at < ?
	ORDER BY start_at, id;
	`
	rows, err := s.DB.QueryContext(ctx, query, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("list commitments: query commitments table: %w", err)
	}
	defer rows.Close()

	commitments := make([]domain.Commitment, 0, 64)
	for rows.Next() {
		var (
			id, title        string
			startRaw, endRaw string
			lat, lon         sql.NullFloat64
		)
		if err := rows.Scan(&id, &title, &startRaw, &endRaw, &lat, &lon); err != nil {
			return nil, fmt.Errorf("list commitments: scan row: %w", err)
		}

		start, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			return nil, fmt.Errorf("list commitments: parse start_at for %q: %w", id, err)
		}
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return nil, fmt.Errorf("list commitments: parse end_at for %q: %w", id, err)
		}

		c := domain.Commitment{ID: id, Title: title, Start: start, End: end}
		if lat.Valid && lon.Valid {
			c.Coords = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
		}
		commitments = append(commitments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list commitments: row iteration: %w", err)
	}

	return commitments, nil
}

// UpsertCommitments stores or replaces the given commitments. Used by the
// calendar sync path; commitments without a resolvable interval are
// skipped rather than rejected.
func (s *SqliteCommitmentRepository) UpsertCommitments(ctx context.Context, commitments []domain.Commitment) error {
	if s.DB == nil {
		return errors.New("sqlite commitment repository: DB is nil")
	}
	if len(commitments) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("upsert commitments: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO commitments (id, title, start_at, end_at, lat, lon)
	VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("upsert commitments: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range commitments {
		start, end, ok := c.Interval()
		if !ok {
			continue
		}

		var lat, lon any
		if c.Coords != nil {
			lat, lon = c.Coords.Lat, c.Coords.Lon
		}

		if _, err := stmt.ExecContext(ctx,
			c.ID, c.Title,
			start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339),
			lat, lon,
		); err != nil {
			return fmt.Errorf("upsert commitments: insert id=%q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert commitments: commit tx: %w", err)
	}

	return nil
}
