package state

import "time"

// Store defines the sync-state operations. Consumers should depend on
// this interface rather than the concrete *DB type to facilitate testing
// with mocks.
type Store interface {
	Stamps(table string) (map[string]string, error)
	ReplaceStamps(table string, stamps map[string]string) error
	BeginRun(mode string, startedAt time.Time) (int64, error)
	FinishRun(id int64, finishedAt time.Time, status, errMsg string, rateLimited bool) error
	LastRun() (*Run, error)
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
