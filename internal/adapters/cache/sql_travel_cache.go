package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"visit-scheduler-service/internal/platform/obs"
)

// SQLTravelCache is a Postgres-backed cache for travel estimates, shared
// across service instances when no Redis is available.
type SQLTravelCache struct {
	DB *sql.DB
}

func NewSQLTravelCache(db *sql.DB) *SQLTravelCache {
	return &SQLTravelCache{DB: db}
}

// InitSchema creates the cache table if it does not exist.
func (s *SQLTravelCache) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS travel_cache (
		cache_key TEXT PRIMARY KEY,
		minutes INTEGER NOT NULL
	);
	`
	if _, err := s.DB.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init travel cache schema: %w", err)
	}

	return nil
}

func (s *SQLTravelCache) Get(ctx context.Context, key string) (_ int, _ bool, err error) {
	defer obs.Time(ctx, "travel.cache.Get")(&err)

	if s.DB == nil {
		return 0, false, errors.New("travel cache: db is nil")
	}
	if key == "" {
		return 0, false, errors.New("get travel cache: key must not be empty")
	}

	q := `
	SELECT minutes
	FROM travel_cache
	WHERE cache_key = $1;
	`

	var minutes int
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&minutes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}

	return minutes, true, nil
}

func (s *SQLTravelCache) Put(ctx context.Context, key string, minutes int) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}
	if key == "" {
		return errors.New("insert travel cache: key must not be empty")
	}

	q := `
	INSERT INTO travel_cache (cache_key, minutes)
	VALUES ($1, $2)
	ON CONFLICT (cache_key) DO UPDATE
	SET minutes = EXCLUDED.minutes;
	`

	if _, err := s.DB.ExecContext(ctx, q, key, minutes); err != nil {
		return fmt.Errorf("insert travel cache: key=%q: %w", key, err)
	}

	return nil
}
