package repositories

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"visit-scheduler-service/internal/domain"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func TestSqliteCommitmentRepository(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	coords := domain.Coordinates{Lat: 55.4581, Lon: 12.1822}
	seed := []domain.Commitment{
		{ID: "a", Title: "Inspection", Start: at(9, 0), End: at(10, 0), Coords: &coords},
		{ID: "b", Title: "Phone call", Start: at(11, 0), End: at(11, 30)},
		{ID: "c", Title: "Tomorrow", Start: at(33, 0), End: at(34, 0)},
	}

	t.Run("lists commitments intersecting the window", func(t *testing.T) {
		repo := NewSqliteCommitmentRepository(newTestDB(t))
		if err := repo.UpsertCommitments(ctx, seed); err != nil {
			t.Fatalf("UpsertCommitments() err = %v", err)
		}

		got, err := repo.ListCommitments(ctx, at(8, 0), at(12, 0))
		if err != nil {
			t.Fatalf("ListCommitments() err = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2 (tomorrow excluded)", len(got))
		}
		if got[0].ID != "a" || got[1].ID != "b" {
			t.Errorf("order = %q, %q; want a, b", got[0].ID, got[1].ID)
		}
		if got[0].Coords == nil || got[0].Coords.Lat != coords.Lat {
			t.Error("coordinates not round-tripped")
		}
		if got[1].Coords != nil {
			t.Error("coordinate-less commitment came back with coordinates")
		}
		if !got[0].Start.Equal(at(9, 0)) || !got[0].End.Equal(at(10, 0)) {
			t.Errorf("interval = %v-%v, want 09:00-10:00", got[0].Start, got[0].End)
		}
	})

	t.Run("window bounds are half-open", func(t *testing.T) {
		repo := NewSqliteCommitmentRepository(newTestDB(t))
		if err := repo.UpsertCommitments(ctx, seed); err != nil {
			t.Fatalf("UpsertCommitments() err = %v", err)
		}

		// Ends exactly at window start, starts exactly at window end.
		got, err := repo.ListCommitments(ctx, at(10, 0), at(11, 0))
		if err != nil {
			t.Fatalf("ListCommitments() err = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0 for touching intervals", len(got))
		}
	})

	t.Run("upsert replaces by id", func(t *testing.T) {
		repo := NewSqliteCommitmentRepository(newTestDB(t))
		if err := repo.UpsertCommitments(ctx, seed); err != nil {
			t.Fatalf("UpsertCommitments() err = %v", err)
		}

		moved := seed[0]
		moved.Start, moved.End = at(14, 0), at(15, 0)
		if err := repo.UpsertCommitments(ctx, []domain.Commitment{moved}); err != nil {
			t.Fatalf("UpsertCommitments() err = %v", err)
		}

		got, err := repo.ListCommitments(ctx, day, day.AddDate(0, 0, 1))
		if err != nil {
			t.Fatalf("ListCommitments() err = %v", err)
		}
		for _, c := range got {
			if c.ID == "a" && !c.Start.Equal(at(14, 0)) {
				t.Errorf("commitment a start = %v, want moved to 14:00", c.Start)
			}
		}
	})

	t.Run("skips unresolvable commitments", func(t *testing.T) {
		repo := NewSqliteCommitmentRepository(newTestDB(t))

		bad := []domain.Commitment{{ID: "x", Title: "No time data"}}
		if err := repo.UpsertCommitments(ctx, bad); err != nil {
			t.Fatalf("UpsertCommitments() err = %v", err)
		}

		got, err := repo.ListCommitments(ctx, day.AddDate(0, 0, -365), day.AddDate(0, 0, 365))
		if err != nil {
			t.Fatalf("ListCommitments() err = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("nil db rejected", func(t *testing.T) {
		repo := NewSqliteCommitmentRepository(nil)
		if _, err := repo.ListCommitments(ctx, day, day.AddDate(0, 0, 1)); err == nil {
			t.Error("ListCommitments() err = nil with nil db, want non-nil")
		}
	})
}

func TestSeedFromJSON(t *testing.T) {
	db := newTestDB(t)

	path := filepath.Join(t.TempDir(), "commitments.json")
	payload := `[
		{"id": "s1", "title": "Seeded visit", "start": "2026-09-01T09:00:00Z", "end": "2026-09-01T10:00:00Z", "lat": 55.45, "lon": 12.18},
		{"id": "s2", "title": "No location", "start": "2026-09-01T13:00:00Z", "end": "2026-09-01T14:00:00Z"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	if err := SeedFromJSON(db, path); err != nil {
		t.Fatalf("SeedFromJSON() err = %v", err)
	}

	repo := NewSqliteCommitmentRepository(db)
	got, err := repo.ListCommitments(context.Background(),
		time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListCommitments() err = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "Seeded visit" || got[0].Coords == nil {
		t.Errorf("first seeded commitment = %+v, want titled with coordinates", got[0])
	}

	t.Run("rejects inverted intervals", func(t *testing.T) {
		badPath := filepath.Join(t.TempDir(), "bad.json")
		bad := `[{"id": "x", "title": "Backwards", "start": "2026-09-01T10:00:00Z", "end": "2026-09-01T09:00:00Z"}]`
		if err := os.WriteFile(badPath, []byte(bad), 0o600); err != nil {
			t.Fatalf("write seed file: %v", err)
		}
		if err := SeedFromJSON(db, badPath); err == nil {
			t.Error("SeedFromJSON() err = nil for inverted interval, want non-nil")
		}
	})
}
