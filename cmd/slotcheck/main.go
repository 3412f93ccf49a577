package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"time"

	"visit-scheduler-service/internal/adapters/repositories"
	"visit-scheduler-service/internal/adapters/travel"
	"visit-scheduler-service/internal/config"
	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/services"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// slotcheck runs a slot search against the local SQLite store and prints
// the ranked results. Useful for inspecting seed data without the server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/commitments.json")

	visit := domain.VisitRequest{
		Location: domain.Coordinates{
			Lat: getEnvFloat("VISIT_LAT", 55.6761),
			Lon: getEnvFloat("VISIT_LON", 12.5683),
		},
		DurationMinutes: config.GetInt("VISIT_DURATION", 60),
	}

	sqliteDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		log.Fatalf("open sqlite database %q: %v", dbPath, err)
	}
	defer sqliteDB.Close()

	if err := repositories.InitSchema(sqliteDB); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	if err := repositories.SeedFromJSON(sqliteDB, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	ctx := context.Background()
	now := time.Now()
	window := domain.SearchWindow{Start: now, End: now.AddDate(0, 0, 7)}

	repo := repositories.NewSqliteCommitmentRepository(sqliteDB)
	schedule, err := repo.ListCommitments(ctx, window.Start.AddDate(0, 0, -1), window.End.AddDate(0, 0, 1))
	if err != nil {
		log.Fatalf("list commitments failed: %v", err)
	}
	log.Printf("schedule loaded count=%d", len(schedule))

	slots, err := services.FindSlots(
		ctx,
		schedule,
		visit,
		domain.DefaultPreferences(),
		window,
		services.SearchOptions{Now: now, ClampToNow: true, IncludeExplain: true},
		travel.NewHeuristicEstimator(),
	)
	if err != nil {
		log.Fatalf("find slots failed: %v", err)
	}

	fmt.Printf("found %d slots for %d min visit at (%.4f, %.4f)\n",
		len(slots), visit.DurationMinutes, visit.Location.Lat, visit.Location.Lon)
	for _, s := range slots {
		fmt.Printf("%s  %s - %s  score=%-5d detour=%dm slack=%dm  %s\n",
			s.DayKey,
			s.Start.Format("15:04"), s.End.Format("15:04"),
			s.Score,
			s.Metrics.DetourMinutes, s.Metrics.SlackMinutes,
			s.Label,
		)
		if s.Explain != nil {
			fmt.Printf("    %s\n", s.Explain.Summary)
		}
	}
}

func getEnvFloat(key string, fallback float64) float64 {
	v := config.Get(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: %s=%q is not a number, using %g", key, v, fallback)
		return fallback
	}
	return f
}
