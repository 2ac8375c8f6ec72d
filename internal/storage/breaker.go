package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the circuit breaker is in open state and
// rejects requests to prevent hammering an unreachable store.
var ErrCircuitOpen = errors.New("storage: circuit breaker is open")

// BreakerConfig holds the configuration for the snapshot store breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures required to trip
	// the circuit. Default: 3.
	MaxFailures uint32

	// Timeout is the duration the circuit stays open before transitioning
	// to half-open. Default: 30 seconds.
	Timeout time.Duration

	// HalfOpenMaxSuccesses is the number of successes required in
	// half-open state to close the circuit again. Default: 2.
	HalfOpenMaxSuccesses uint32
}

// BreakerStore wraps a SnapshotStore with a circuit breaker. It exists for
// network-backed stores (Postgres): when the database is unreachable,
// snapshot operations fail fast with ErrCircuitOpen instead of stacking up
// connection timeouts. The registry itself is unaffected — snapshots are a
// seeding convenience, not a dependency of any in-memory operation.
type BreakerStore struct {
	inner   SnapshotStore
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerStore wraps inner with default breaker settings.
func NewBreakerStore(inner SnapshotStore) *BreakerStore {
	return NewBreakerStoreWithConfig(inner, BreakerConfig{
		MaxFailures:          3,
		Timeout:              30 * time.Second,
		HalfOpenMaxSuccesses: 2,
	})
}

// NewBreakerStoreWithConfig wraps inner with custom breaker settings.
func NewBreakerStoreWithConfig(inner SnapshotStore, cfg BreakerConfig) *BreakerStore {
	settings := gobreaker.Settings{
		Name:        "SnapshotStoreBreaker",
		MaxRequests: cfg.HalfOpenMaxSuccesses,
		Interval:    0, // Don't clear counts periodically
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
	}

	return &BreakerStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// SaveSnapshot persists a snapshot through the breaker.
func (b *BreakerStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	_, err := b.execute(ctx, func() (interface{}, error) {
		return nil, b.inner.SaveSnapshot(ctx, snap)
	})
	return err
}

// LatestSnapshot loads the newest snapshot through the breaker. A missing
// snapshot (ErrNotFound) does not count as a backend failure.
func (b *BreakerStore) LatestSnapshot(ctx context.Context) (*Snapshot, error) {
	result, err := b.execute(ctx, func() (interface{}, error) {
		snap, err := b.inner.LatestSnapshot(ctx)
		if errors.Is(err, ErrNotFound) {
			return (*Snapshot)(nil), nil
		}
		return snap, err
	})
	if err != nil {
		return nil, err
	}
	snap := result.(*Snapshot)
	if snap == nil {
		return nil, ErrNotFound
	}
	return snap, nil
}

// ListSnapshots lists snapshot summaries through the breaker.
func (b *BreakerStore) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	result, err := b.execute(ctx, func() (interface{}, error) {
		return b.inner.ListSnapshots(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]SnapshotInfo), nil
}

// Close closes the underlying store directly; shutdown must not be blocked
// by an open circuit.
func (b *BreakerStore) Close() error {
	return b.inner.Close()
}

func (b *BreakerStore) execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	result, err := b.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrCircuitOpen
	}
	return result, err
}
