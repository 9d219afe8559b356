package payroll

import (
	"context"

	"github.com/google/uuid"
)

// TypeRegistryCache stores the compensation type columns discovered during
// the last matrix build of an organization.
//
// The registry is derived state, not a source of truth: it is fully
// overwritten on every successful matrix build and consumed read-only by
// the single-employee payroll view. Entries carry no TTL and persist
// until the next rebuild. Keys follow the pattern
// compensation_types:{organization_id}.
type TypeRegistryCache interface {
	// Get retrieves the registered type columns for an organization.
	// Returns nil, nil when no registry snapshot exists.
	Get(ctx context.Context, organizationID uuid.UUID) ([]string, error)

	// Set overwrites the registry snapshot for an organization.
	Set(ctx context.Context, organizationID uuid.UUID, types []string) error

	// Close releases any resources held by the cache.
	Close() error
}
