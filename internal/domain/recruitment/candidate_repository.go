package recruitment

import (
	"context"

	"github.com/google/uuid"
)

// CandidateRepository defines the interface for applied candidate persistence
type CandidateRepository interface {
	// FindByID finds a candidate by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*AppliedCandidate, error)

	// CountByStage counts candidates currently assigned to a stage
	CountByStage(ctx context.Context, stageID uuid.UUID) (int64, error)

	// Save creates or updates a candidate
	Save(ctx context.Context, candidate *AppliedCandidate) error

	// Delete deletes a candidate
	Delete(ctx context.Context, id uuid.UUID) error
}
