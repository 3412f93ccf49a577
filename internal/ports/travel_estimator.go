package ports

import (
	"context"
	"time"

	"visit-scheduler-service/internal/domain"
)

// Contract for estimating travel time between two coordinates.
type TravelEstimator interface {
	// EstimateTravelMinutes returns estimated driving minutes (>= 0) from
	// one coordinate to another when departing at departAt.
	EstimateTravelMinutes(ctx context.Context, from, to domain.Coordinates, departAt time.Time) (int, error)
}
