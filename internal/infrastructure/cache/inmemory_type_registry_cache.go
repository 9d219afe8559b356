package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hrms/backend/internal/domain/payroll"
)

// InMemoryTypeRegistryCache implements TypeRegistryCache using in-memory
// storage. Suitable for single-instance deployments and testing.
type InMemoryTypeRegistryCache struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID][]string
}

// NewInMemoryTypeRegistryCache creates a new in-memory type registry cache
func NewInMemoryTypeRegistryCache() *InMemoryTypeRegistryCache {
	return &InMemoryTypeRegistryCache{
		snapshots: make(map[uuid.UUID][]string),
	}
}

// Get retrieves the registered type columns for an organization
func (c *InMemoryTypeRegistryCache) Get(_ context.Context, organizationID uuid.UUID) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot, ok := c.snapshots[organizationID]
	if !ok {
		return nil, nil
	}

	types := make([]string, len(snapshot))
	copy(types, snapshot)
	return types, nil
}

// Set overwrites the registry snapshot for an organization
func (c *InMemoryTypeRegistryCache) Set(_ context.Context, organizationID uuid.UUID, types []string) error {
	stored := make([]string, len(types))
	copy(stored, types)

	c.mu.Lock()
	c.snapshots[organizationID] = stored
	c.mu.Unlock()
	return nil
}

// Close releases any resources held by the cache
func (c *InMemoryTypeRegistryCache) Close() error {
	c.mu.Lock()
	c.snapshots = make(map[uuid.UUID][]string)
	c.mu.Unlock()
	return nil
}

// Ensure InMemoryTypeRegistryCache implements TypeRegistryCache
var _ payroll.TypeRegistryCache = (*InMemoryTypeRegistryCache)(nil)
