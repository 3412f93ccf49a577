package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"visit-scheduler-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createCommitmentsQuery := `
	CREATE TABLE IF NOT EXISTS commitments (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		lat REAL,
		lon REAL
	);
	`

	createTravelCacheQuery := `
	CREATE TABLE IF NOT EXISTS travel_cache (
		cache_key TEXT PRIMARY KEY,
		minutes INTEGER NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_commitments_start_end
	ON commitments(start_at, end_at);
	`

	statements := []string{
		createCommitmentsQuery,
		createTravelCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type CommitmentSeed struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Lat   *float64  `json:"lat"`
	Lon   *float64  `json:"lon"`
}

// Populate the database with commitment data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed commitments: read %q: %w", jsonPath, err)
	}

	var data []CommitmentSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed commitments: parse json: %w", err)
	}

	rows := make([]domain.Commitment, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return fmt.Errorf("seed commitments: item at index %d: id cannot be empty", i+1)
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			return fmt.Errorf("seed commitments: item %q: title cannot be empty", id)
		}

		if !item.End.After(item.Start) {
			return fmt.Errorf("seed commitments: item %q: end must be after start", id)
		}

		c := domain.Commitment{ID: id, Title: title, Start: item.Start, End: item.End}
		if item.Lat != nil && item.Lon != nil {
			c.Coords = &domain.Coordinates{Lat: *item.Lat, Lon: *item.Lon}
		}
		rows = append(rows, c)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed commitments: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO commitments (id, title, start_at, end_at, lat, lon)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed commitments: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range rows {
		var lat, lon any
		if c.Coords != nil {
			lat, lon = c.Coords.Lat, c.Coords.Lon
		}
		if _, err := stmt.Exec(
			c.ID, c.Title,
			c.Start.UTC().Format(time.RFC3339), c.End.UTC().Format(time.RFC3339),
			lat, lon,
		); err != nil {
			return fmt.Errorf("seed commitments: insert id=%q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commitments: commit tx: %w", err)
	}

	return nil
}
