// Package storage provides snapshot persistence for the relationship
// registry.
//
// The registry itself is process-private memory; canonical identity cannot
// be shared across processes by locking that memory. Cross-process identity
// instead goes through an explicit out-of-process store: one process exports
// its registry as a snapshot, another seeds from the latest snapshot at
// startup, and from then on both resolve the same names to their own
// canonical records.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/obokit/relreg/pkg/types"
)

var (
	// ErrNotFound indicates that the requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates that the input parameters are invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// Snapshot is a point-in-time export of every distinct relationship type in
// a registry, in first-registered order. Order matters: directional scans
// are defined over insertion order, so reseeding must replay it.
type Snapshot struct {
	ID          string
	CreatedAt   time.Time
	Definitions []types.Relationship
}

// NewSnapshot wraps exported definitions in a snapshot with a fresh ID.
func NewSnapshot(defs []types.Relationship) *Snapshot {
	return &Snapshot{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
		Definitions: defs,
	}
}

// SnapshotInfo summarizes a stored snapshot without loading its rows.
type SnapshotInfo struct {
	ID        string
	CreatedAt time.Time
	Count     int
}

// SnapshotStore persists registry snapshots. Implementations must be safe
// for concurrent use.
type SnapshotStore interface {
	// SaveSnapshot persists a snapshot and all of its definitions.
	SaveSnapshot(ctx context.Context, snap *Snapshot) error

	// LatestSnapshot returns the most recently created snapshot with its
	// definitions in their original registration order.
	// Returns ErrNotFound when no snapshot has been saved.
	LatestSnapshot(ctx context.Context) (*Snapshot, error)

	// ListSnapshots returns summaries of all stored snapshots, newest first.
	ListSnapshots(ctx context.Context) ([]SnapshotInfo, error)

	// Close releases any resources held by the store.
	Close() error
}
