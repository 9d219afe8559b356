package recruitment

import (
	"context"

	"github.com/google/uuid"
)

// StageRepository defines the interface for job stage persistence
type StageRepository interface {
	// FindByID finds a stage by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*JobStage, error)

	// FindByIDForOrg finds a stage by ID within an organization
	FindByIDForOrg(ctx context.Context, organizationID, id uuid.UUID) (*JobStage, error)

	// FindAllByPriority returns all stages of an organization ordered by ascending priority
	FindAllByPriority(ctx context.Context, organizationID uuid.UUID) ([]JobStage, error)

	// ExistsByName checks for a case-insensitive name match within an organization,
	// excluding the given stage ID when it is non-nil
	ExistsByName(ctx context.Context, organizationID uuid.UUID, name string, excludeID *uuid.UUID) (bool, error)

	// MaxPriority returns the highest priority in use for an organization,
	// or 0 when the organization has no stages
	MaxPriority(ctx context.Context, organizationID uuid.UUID) (int, error)

	// ShiftPriorities adds delta to the priority of every stage of the
	// organization whose priority lies in [from, to], in a single batch
	ShiftPriorities(ctx context.Context, organizationID uuid.UUID, from, to, delta int) error

	// Save creates or updates a stage
	Save(ctx context.Context, stage *JobStage) error

	// Delete deletes a stage
	Delete(ctx context.Context, id uuid.UUID) error
}
