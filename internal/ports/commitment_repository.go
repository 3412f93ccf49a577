package ports

import (
	"context"
	"time"

	"visit-scheduler-service/internal/domain"
)

// Port: a boundary for retrieving Commitment entities from a data source.
type CommitmentRepository interface {
	// Retrieve all commitments whose interval intersects [from, to).
	ListCommitments(ctx context.Context, from, to time.Time) ([]domain.Commitment, error)
}
