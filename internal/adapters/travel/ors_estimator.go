package travel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/platform/obs"
)

// ORSTravelEstimator implements TravelEstimator using the OpenRouteService
// matrix endpoint. It is the routing-API substitute for the closed-form
// heuristic; callers that want real road durations wire it behind a
// CachedEstimator to avoid repeated lookups.
//
// The estimator is safe for concurrent use.
type ORSTravelEstimator struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
}

func NewORSTravelEstimator(apiKey string) (*ORSTravelEstimator, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSTravelEstimator{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
	}, nil
}

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
}

func (o *ORSTravelEstimator) EstimateTravelMinutes(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
	_ time.Time,
) (_ int, err error) {
	defer obs.Time(ctx, "ors.EstimateTravelMinutes")(&err)

	if from == to {
		return 0, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	payload, err := json.Marshal(matrixRequest{
		Locations:    [][]float64{from.CoordsToList(), to.CoordsToList()},
		Sources:      []int{0},
		Destinations: []int{1},
		Metrics:      []string{"duration"},
	})
	if err != nil {
		return 0, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return 0, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return 0, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Durations) != 1 || len(mr.Durations[0]) != 1 {
		return 0, fmt.Errorf("expected a 1x1 duration matrix; got %d rows", len(mr.Durations))
	}
	secondsPtr := mr.Durations[0][0]
	if secondsPtr == nil {
		return 0, errors.New("matrix returned no duration for the requested pair")
	}

	return int(math.Ceil(*secondsPtr / 60)), nil
}
