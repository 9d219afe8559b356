package payroll

import (
	"context"

	"github.com/google/uuid"
)

// CompensationRepository defines the interface for compensation entry persistence
type CompensationRepository interface {
	// FindByUserAndType finds the entry for a (user, type) pair.
	// Returns shared.ErrNotFound when no entry exists.
	FindByUserAndType(ctx context.Context, userID uuid.UUID, compensationType string) (*CompensationEntry, error)

	// FindByUser returns all entries of one employee
	FindByUser(ctx context.Context, userID uuid.UUID) ([]CompensationEntry, error)

	// FindByUsers returns all entries of the given employees
	FindByUsers(ctx context.Context, userIDs []uuid.UUID) ([]CompensationEntry, error)

	// DistinctTypesForOrg returns the distinct compensation types present
	// across an organization's employees, in no particular order
	DistinctTypesForOrg(ctx context.Context, organizationID uuid.UUID) ([]string, error)

	// Save creates or updates an entry
	Save(ctx context.Context, entry *CompensationEntry) error
}
