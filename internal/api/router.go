package api

import (
	"net/http"

	"visit-scheduler-service/internal/api/handlers"
	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.CommitmentRepository,
	estimator ports.TravelEstimator,
	defaults domain.Preferences,
) http.Handler {
	mux := http.NewServeMux()

	commitmentHandler := &handlers.CommitmentHandler{Repo: repo}
	slotHandler := &handlers.SlotHandler{
		Repo:      repo,
		Estimator: estimator,
		Defaults:  defaults,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/commitments", commitmentHandler.List)
	mux.HandleFunc("/slots", slotHandler.Search)

	return loggingMiddleware(mux)
}
