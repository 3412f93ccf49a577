package ports

import "context"

// Port: a boundary for persisting travel estimates between searches.
// Keys are expected to be consistent (e.g., already quantized) by the caller.
type TravelCache interface {
	// Get returns the cached minutes for key; ok is false on a miss.
	Get(ctx context.Context, key string) (minutes int, ok bool, err error)
	// Put stores the minutes for key.
	Put(ctx context.Context, key string, minutes int) error
}
