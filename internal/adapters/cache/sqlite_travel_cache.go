package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLite-backed cache for travel estimates, used by single-node runs that
// keep everything in the local database. The table is created by
// repositories.InitSchema.
type SqliteTravelCache struct {
	DB *sql.DB
}

func NewSqliteTravelCache(db *sql.DB) *SqliteTravelCache {
	return &SqliteTravelCache{DB: db}
}

func (s *SqliteTravelCache) Get(ctx context.Context, key string) (int, bool, error) {
	if s.DB == nil {
		return 0, false, errors.New("travel cache: db is nil")
	}
	if key == "" {
		return 0, false, errors.New("get travel cache: key must not be empty")
	}

	q := `
	SELECT minutes
	FROM travel_cache
	WHERE cache_key = ?;
	`

	var minutes int
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&minutes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}

	return minutes, true, nil
}

func (s *SqliteTravelCache) Put(ctx context.Context, key string, minutes int) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}
	if key == "" {
		return errors.New("insert travel cache: key must not be empty")
	}

	q := `
	INSERT OR REPLACE INTO travel_cache (cache_key, minutes)
	VALUES (?, ?);
	`

	if _, err := s.DB.ExecContext(ctx, q, key, minutes); err != nil {
		return fmt.Errorf("insert travel cache: key=%q: %w", key, err)
	}

	return nil
}
