package travel

import (
	"context"
	"math"
	"time"

	"visit-scheduler-service/internal/domain"
)

// HeuristicEstimator implements TravelEstimator with a closed-form road
// model: haversine distance, a road-directness factor that shrinks with
// distance (short trips wind through streets, long trips ride highways),
// and effective speeds that drop during rush hours.
//
// It performs no I/O and is deterministic, which keeps the slot search
// self-contained and testable. A routing-API client can substitute for it
// behind the same port without changing the search.
type HeuristicEstimator struct{}

func NewHeuristicEstimator() *HeuristicEstimator { return &HeuristicEstimator{} }

const (
	shortTripKm  = 5.0
	mediumTripKm = 20.0
)

func (e *HeuristicEstimator) EstimateTravelMinutes(
	_ context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
	departAt time.Time,
) (int, error) {
	km := from.HaversineKm(to)
	if km == 0 {
		return 0, nil
	}

	var factor, speed, rushSpeed float64
	switch {
	case km < shortTripKm:
		factor, speed, rushSpeed = 1.45, 28, 22
	case km <= mediumTripKm:
		factor, speed, rushSpeed = 1.30, 45, 35
	default:
		factor, speed, rushSpeed = 1.18, 75, 65
	}

	if isRushHour(departAt) {
		speed = rushSpeed
	}

	return int(math.Ceil(km * factor / speed * 60)), nil
}

// Rush windows are 07:00-09:00 and 15:00-18:00 local to the departure.
func isRushHour(t time.Time) bool {
	h := t.Hour()
	return (h >= 7 && h < 9) || (h >= 15 && h < 18)
}
