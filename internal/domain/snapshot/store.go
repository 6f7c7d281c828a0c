package snapshot

// Store keeps the latest snapshot per account. Put replaces atomically.
type Store interface {
	Get(accountID string) (*Snapshot, bool)
	Put(s *Snapshot)
	Delete(accountID string)
	All() map[string]*Snapshot
}

// PartitionCache remembers, per account, the regions that last held instances.
type PartitionCache interface {
	Get(accountID string) ([]string, bool)
	// Set ignores an empty region list so a bad cycle never clears a good entry.
	Set(accountID string, regions []string)
	Delete(accountID string)
}
