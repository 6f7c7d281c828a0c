package cache

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"

	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
)

// PartitionCache remembers the regions that last held instances, per account.
// An evicted entry only costs one full region resolve on the next refresh.
type PartitionCache struct {
	lru *freelru.SyncedLRU[string, []string]
}

var _ snapshot.PartitionCache = (*PartitionCache)(nil)

func hashStringXXHASH(s string) uint32 {
	return uint32(xxhash.Sum64String(s)) // nolint:gosec
}

// NewPartitionCache creates a cache holding up to size accounts
func NewPartitionCache(size int) (*PartitionCache, error) {
	lru, err := freelru.NewSynced[string, []string](uint32(size), hashStringXXHASH) // nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("create partition cache: %w", err)
	}
	return &PartitionCache{lru: lru}, nil
}

// Get returns a copy of the cached regions
func (c *PartitionCache) Get(accountID string) ([]string, bool) {
	regions, ok := c.lru.Get(accountID)
	if !ok {
		return nil, false
	}
	return slices.Clone(regions), true
}

// Set stores regions unless the list is empty
func (c *PartitionCache) Set(accountID string, regions []string) {
	if len(regions) == 0 {
		return
	}
	c.lru.Add(accountID, slices.Clone(regions))
}

func (c *PartitionCache) Delete(accountID string) {
	c.lru.Remove(accountID)
}

// Len is the number of cached accounts
func (c *PartitionCache) Len() int {
	return c.lru.Len()
}
