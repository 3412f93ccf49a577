package travel

import (
	"context"
	"fmt"
	"time"

	"visit-scheduler-service/internal/domain"
)

type FixedLeg struct {
	From, To domain.Coordinates
	Minutes  int
}

// FixedEstimator serves travel times from a static table, for tests and
// offline replays.
type FixedEstimator struct {
	m map[string]int
}

func NewFixedEstimator(legs []FixedLeg) *FixedEstimator {
	m := make(map[string]int, len(legs))
	for _, l := range legs {
		m[legKey(l.From, l.To)] = l.Minutes
	}
	return &FixedEstimator{m: m}
}

func (e *FixedEstimator) EstimateTravelMinutes(
	_ context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
	_ time.Time,
) (int, error) {
	if from == to {
		return 0, nil
	}
	minutes, ok := e.m[legKey(from, to)]
	if !ok {
		return 0, fmt.Errorf("missing leg %q", legKey(from, to))
	}
	return minutes, nil
}

func legKey(from, to domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f", from.Lat, from.Lon, to.Lat, to.Lon)
}
