package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hrms/backend/internal/domain/recruitment"
)

// InMemoryStageListCache implements StageListCache using in-memory storage.
// This is suitable for single-instance deployments and testing; entries do
// not survive process restarts and are not shared across instances.
type InMemoryStageListCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]stageListEntry
}

type stageListEntry struct {
	items     []recruitment.StageListItem
	expiresAt time.Time
}

// NewInMemoryStageListCache creates a new in-memory stage list cache
func NewInMemoryStageListCache() *InMemoryStageListCache {
	return &InMemoryStageListCache{
		entries: make(map[uuid.UUID]stageListEntry),
	}
}

// Get retrieves the cached stage list for an organization
func (c *InMemoryStageListCache) Get(_ context.Context, organizationID uuid.UUID) ([]recruitment.StageListItem, error) {
	c.mu.RLock()
	entry, ok := c.entries[organizationID]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, organizationID)
		c.mu.Unlock()
		return nil, nil
	}

	// Copy to keep callers from mutating the cached slice
	items := make([]recruitment.StageListItem, len(entry.items))
	copy(items, entry.items)
	return items, nil
}

// Set stores the ordered stage list with the specified TTL
func (c *InMemoryStageListCache) Set(_ context.Context, organizationID uuid.UUID, items []recruitment.StageListItem, ttl time.Duration) error {
	if ttl == 0 {
		ttl = recruitment.DefaultStageListTTL
	}

	stored := make([]recruitment.StageListItem, len(items))
	copy(stored, items)

	c.mu.Lock()
	c.entries[organizationID] = stageListEntry{
		items:     stored,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

// Invalidate removes the cached list for an organization
func (c *InMemoryStageListCache) Invalidate(_ context.Context, organizationID uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, organizationID)
	c.mu.Unlock()
	return nil
}

// Close releases any resources held by the cache
func (c *InMemoryStageListCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[uuid.UUID]stageListEntry)
	c.mu.Unlock()
	return nil
}

// Ensure InMemoryStageListCache implements StageListCache
var _ recruitment.StageListCache = (*InMemoryStageListCache)(nil)
