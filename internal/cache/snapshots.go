package cache

import (
	"sync"

	"github.com/pratik-mahalle/mxcloud/internal/domain/snapshot"
)

// SnapshotStore keeps the latest snapshot of every account in memory
type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots map[string]*snapshot.Snapshot
}

var _ snapshot.Store = (*SnapshotStore)(nil)

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{snapshots: make(map[string]*snapshot.Snapshot)}
}

func (s *SnapshotStore) Get(accountID string) (*snapshot.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[accountID]
	return snap, ok
}

// Put replaces the account's snapshot in full
func (s *SnapshotStore) Put(snap *snapshot.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.AccountID] = snap
}

func (s *SnapshotStore) Delete(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, accountID)
}

// All returns a shallow copy of the map
func (s *SnapshotStore) All() map[string]*snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*snapshot.Snapshot, len(s.snapshots))
	for k, v := range s.snapshots {
		out[k] = v
	}
	return out
}
