package travel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestORS(t *testing.T, handler http.HandlerFunc) *ORSTravelEstimator {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	e, err := NewORSTravelEstimator("test-key")
	if err != nil {
		t.Fatalf("NewORSTravelEstimator() err = %v", err)
	}
	e.baseURL = srv.URL
	return e
}

func matrixBody(seconds float64) []byte {
	b, _ := json.Marshal(map[string]any{
		"durations": [][]*float64{{&seconds}},
	})
	return b
}

func TestORSTravelEstimator(t *testing.T) {
	departAt := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)

	t.Run("requires an api key", func(t *testing.T) {
		if _, err := NewORSTravelEstimator(""); err == nil {
			t.Error("NewORSTravelEstimator(\"\") err = nil, want non-nil")
		}
	})

	t.Run("rounds seconds up to whole minutes", func(t *testing.T) {
		e := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "test-key" {
				t.Errorf("Authorization = %q, want test-key", got)
			}

			var req matrixRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if len(req.Locations) != 2 {
				t.Errorf("locations = %d, want 2", len(req.Locations))
			}

			w.Write(matrixBody(90))
		})

		got, err := e.EstimateTravelMinutes(context.Background(), origin, shortHop, departAt)
		if err != nil {
			t.Fatalf("EstimateTravelMinutes() err = %v", err)
		}
		if got != 2 {
			t.Errorf("EstimateTravelMinutes() = %d, want 2 (90s rounded up)", got)
		}
	})

	t.Run("same point skips the API", func(t *testing.T) {
		e := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected API call for identical coordinates")
		})

		got, err := e.EstimateTravelMinutes(context.Background(), origin, origin, departAt)
		if err != nil || got != 0 {
			t.Errorf("EstimateTravelMinutes() = (%d, %v), want (0, nil)", got, err)
		}
	})

	t.Run("retries through rate limiting", func(t *testing.T) {
		var calls atomic.Int32
		e := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
				return
			}
			w.Write(matrixBody(600))
		})

		got, err := e.EstimateTravelMinutes(context.Background(), origin, shortHop, departAt)
		if err != nil {
			t.Fatalf("EstimateTravelMinutes() err = %v", err)
		}
		if got != 10 {
			t.Errorf("EstimateTravelMinutes() = %d, want 10", got)
		}
		if calls.Load() != 2 {
			t.Errorf("calls = %d, want 2", calls.Load())
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		e := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad coordinates", http.StatusBadRequest)
		})

		if _, err := e.EstimateTravelMinutes(context.Background(), origin, shortHop, departAt); err == nil {
			t.Fatal("EstimateTravelMinutes() err = nil, want non-nil")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
	})

	t.Run("unroutable pair surfaces as error", func(t *testing.T) {
		e := newTestORS(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"durations": [[null]]}`))
		})

		if _, err := e.EstimateTravelMinutes(context.Background(), origin, shortHop, departAt); err == nil {
			t.Error("EstimateTravelMinutes() err = nil for null duration, want non-nil")
		}
	})
}
