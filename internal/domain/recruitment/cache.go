package recruitment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultStageListTTL is the time-to-live for cached stage lists.
const DefaultStageListTTL = 6000 * time.Second

// StageListItem is the cached, ordered projection of a stage.
// The cached form must match the computed form exactly so that a cache
// hit and a cache miss produce identical responses.
type StageListItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Priority int       `json:"priority"`
}

// StageListCache caches the ordered stage list per organization.
//
// Cache keys follow the pattern stages:{organization_id}. Every mutation
// of an organization's stage sequence must invalidate that organization's
// entry before the mutation returns.
type StageListCache interface {
	// Get retrieves the cached stage list for an organization.
	// Returns nil, nil on a cache miss.
	Get(ctx context.Context, organizationID uuid.UUID) ([]StageListItem, error)

	// Set stores the ordered stage list with the specified TTL.
	// If ttl is 0, implementations should use DefaultStageListTTL.
	Set(ctx context.Context, organizationID uuid.UUID, items []StageListItem, ttl time.Duration) error

	// Invalidate removes the cached list for an organization.
	Invalidate(ctx context.Context, organizationID uuid.UUID) error

	// Close releases any resources held by the cache.
	Close() error
}
