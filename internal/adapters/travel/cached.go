package travel

import (
	"context"
	"fmt"
	"log"
	"time"

	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
)

// CachedEstimator wraps another estimator with a TravelCache.
//
// Keys quantize the departure to its wall-clock hour, which keeps
// rush-hour buckets distinct while letting repeated searches over the
// same week reuse earlier lookups. Cache failures degrade to computing
// the estimate; they never fail the search.
type CachedEstimator struct {
	inner ports.TravelEstimator
	cache ports.TravelCache
}

func NewCachedEstimator(inner ports.TravelEstimator, cache ports.TravelCache) *CachedEstimator {
	return &CachedEstimator{inner: inner, cache: cache}
}

func (c *CachedEstimator) EstimateTravelMinutes(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
	departAt time.Time,
) (int, error) {
	key := cacheKey(from, to, departAt)

	minutes, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Printf("travel cache read failed: key=%s err=%v", key, err)
	} else if ok {
		return minutes, nil
	}

	minutes, err = c.inner.EstimateTravelMinutes(ctx, from, to, departAt)
	if err != nil {
		return 0, err
	}

	if err := c.cache.Put(ctx, key, minutes); err != nil {
		log.Printf("travel cache write failed: key=%s err=%v", key, err)
	}

	return minutes, nil
}

func cacheKey(from, to domain.Coordinates, departAt time.Time) string {
	return fmt.Sprintf("%s|%02d", legKey(from, to), departAt.Hour())
}
