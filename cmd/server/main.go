package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"visit-scheduler-service/internal/adapters/cache"
	"visit-scheduler-service/internal/adapters/calendar"
	"visit-scheduler-service/internal/adapters/repositories"
	"visit-scheduler-service/internal/adapters/travel"
	"visit-scheduler-service/internal/api"
	"visit-scheduler-service/internal/config"
	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/platform/db"
	"visit-scheduler-service/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, travel estimators, caches) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/commitments.json")
	port := config.Get("PORT", "8080")

	sqliteDB, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(sqliteDB, seedPath); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteCommitmentRepository(sqliteDB)

	// Pull an external calendar feed into the local store when configured.
	if icsURL := os.Getenv("ICS_URL"); icsURL != "" {
		if err := syncCalendar(repo, icsURL); err != nil {
			log.Printf("calendar sync failed url=%s err=%v", icsURL, err)
		}
	}

	estimator, err := buildEstimator(sqliteDB)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(repo, estimator, domain.DefaultPreferences())

	// Timeouts allow for cold-cache searches that hit the external matrix API.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := sqliteDB.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return sqliteDB, nil
}

func initAndSeed(sqliteDB *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(sqliteDB); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(sqliteDB, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// buildEstimator composes the travel estimation chain. The base estimator is
// the routing API when a key is present, otherwise the road-factor heuristic.
// A per-leg cache is layered on top; Redis wins over Postgres over SQLite.
func buildEstimator(sqliteDB *sql.DB) (ports.TravelEstimator, error) {
	var base ports.TravelEstimator

	if orsKey := os.Getenv("ORS_API_KEY"); orsKey != "" {
		ors, err := travel.NewORSTravelEstimator(orsKey)
		if err != nil {
			return nil, fmt.Errorf("build estimator: %w", err)
		}
		base = ors
		log.Println("travel estimator provider=ors")
	} else {
		base = travel.NewHeuristicEstimator()
		log.Println("travel estimator provider=heuristic")
	}

	travelCache, err := buildTravelCache(sqliteDB)
	if err != nil {
		return nil, fmt.Errorf("build estimator: %w", err)
	}

	return travel.NewCachedEstimator(base, travelCache), nil
}

func buildTravelCache(sqliteDB *sql.DB) (ports.TravelCache, error) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		ttl := time.Duration(config.GetInt("TRAVEL_CACHE_TTL_HOURS", 24)) * time.Hour
		log.Printf("travel cache backend=redis addr=%s", addr)
		return cache.NewRedisTravelCache(client, ttl), nil
	}

	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		pgDB, err := db.Open(databaseURL)
		if err != nil {
			return nil, err
		}
		sqlCache := cache.NewSQLTravelCache(pgDB)
		if err := sqlCache.InitSchema(context.Background()); err != nil {
			return nil, err
		}
		log.Println("travel cache backend=postgres")
		return sqlCache, nil
	}

	log.Println("travel cache backend=sqlite")
	return cache.NewSqliteTravelCache(sqliteDB), nil
}

func syncCalendar(repo *repositories.SqliteCommitmentRepository, icsURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	window := domain.SearchWindow{Start: now.AddDate(0, 0, -1), End: now.AddDate(0, 0, 60)}

	feed := calendar.NewFeed()
	commitments, err := feed.FetchCommitments(ctx, calendar.Source{ID: "feed", URL: icsURL}, window)
	if err != nil {
		return fmt.Errorf("sync calendar: %w", err)
	}

	if err := repo.UpsertCommitments(ctx, commitments); err != nil {
		return fmt.Errorf("sync calendar: %w", err)
	}

	log.Printf("calendar sync done count=%d", len(commitments))
	return nil
}
