// Package storage provides snapshot persistence for the tracker.
//
// The tracker persists its whole state as one serialized snapshot after
// every mutation (last-writer-wins over the full record). This package
// defines the backend contract and three interchangeable backends: a
// JSON file (default), SQLite, and PostgreSQL.
package storage

// SnapshotKey names the single record every backend stores the
// serialized state under.
const SnapshotKey = "daylist-store"

// SnapshotBackend is the contract for persisting the serialized store.
//
// Loads are expected to fail soft: a missing or unreadable snapshot is
// reported as absent (nil data, nil error) so the caller can start
// fresh. Saves replace the snapshot wholesale and should be atomic
// enough that a crash never leaves a half-written record behind.
type SnapshotBackend interface {
	// LoadSnapshot returns the persisted snapshot, or nil if none
	// exists. Backends with a real error channel (databases) may return
	// an error for connectivity failures; file-backed implementations
	// treat all read problems as absent.
	LoadSnapshot() ([]byte, error)

	// SaveSnapshot atomically replaces the persisted snapshot.
	SaveSnapshot(data []byte) error
}
