// Package registry implements the canonical relationship-type registry.
//
// The registry guarantees that exactly one *types.Relationship exists per
// relationship-type name, aliases included. Every construction goes through
// GetOrCreate, which is idempotent: the first registration of a name wins and
// later calls return the existing record with their parameters discarded.
// Because of this, relationship references anywhere in the process can be
// compared by pointer identity instead of by value.
package registry

import (
	"sync"

	"github.com/obokit/relreg/pkg/types"
)

// Registry maps every registered name and alias to its canonical record.
// The zero value is not usable; construct with New or NewEmpty.
//
// One RWMutex guards the map. The check-then-insert sequence in GetOrCreate
// holds the write lock so two concurrent first-time registrations of the same
// name cannot both allocate a record. Read paths hold the read lock only.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]*types.Relationship
	order []*types.Relationship // distinct records, first-registered order
}

// New returns a registry pre-seeded with the built-in relationship types
// (is_a, can_be, has_part, part_of, has_units, has_domain).
func New() *Registry {
	r := NewEmpty()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, def := range Seeds() {
		r.insertLocked(newRecord(def))
	}
	return r
}

// NewEmpty returns a registry with no registered types. Intended for tests
// that exercise decode behavior against an unseeded process.
func NewEmpty() *Registry {
	return &Registry{byKey: make(map[string]*types.Relationship)}
}

// GetOrCreate returns the canonical record for def.Name, creating and
// registering it when the name is unseen. When the name is already
// registered the rest of def is silently discarded: this is an idempotent
// lookup, not an update. Aliases that are already taken by another record
// are skipped without error (first registrant wins); use GetOrCreateStrict
// to fail loudly instead.
func (r *Registry) GetOrCreate(def types.Relationship) *types.Relationship {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.byKey[def.Name]; ok {
		return rec
	}

	rec := newRecord(def)
	r.insertLocked(rec)
	return rec
}

// GetOrCreateStrict behaves like GetOrCreate but returns an
// AliasCollisionError when one of def's aliases is already registered to a
// different record. Nothing is registered on failure.
func (r *Registry) GetOrCreateStrict(def types.Relationship) (*types.Relationship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.byKey[def.Name]; ok {
		return rec, nil
	}

	for _, alias := range def.Aliases {
		if _, taken := r.byKey[alias]; taken {
			return nil, &AliasCollisionError{Name: def.Name, Alias: alias}
		}
	}

	rec := newRecord(def)
	r.insertLocked(rec)
	return rec, nil
}

// Lookup returns the canonical record registered under name (which may be an
// alias), or nil when no such record exists. Lookup never registers anything.
func (r *Registry) Lookup(name string) *types.Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byKey[name]
}

// Complement resolves rec's inverse relationship type.
//
// It returns (nil, nil) when rec declares no complement — that is not an
// error ("has_units" simply has no inverse). When a complement is declared
// but not registered it returns a ComplementUndefinedError carrying the
// missing name; the caller may register the missing type and retry.
func (r *Registry) Complement(rec *types.Relationship) (*types.Relationship, error) {
	if rec == nil || !rec.HasComplement() {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byKey[rec.Complement]
	if !ok {
		return nil, &ComplementUndefinedError{Name: rec.Complement}
	}
	return c, nil
}

// Topdown returns every distinct registered record whose direction is
// topdown, in first-registered order.
func (r *Registry) Topdown() []*types.Relationship {
	return r.byDirection(types.DirectionTopdown)
}

// Bottomup returns every distinct registered record whose direction is
// bottomup, in first-registered order.
func (r *Registry) Bottomup() []*types.Relationship {
	return r.byDirection(types.DirectionBottomup)
}

func (r *Registry) byDirection(dir types.Direction) []*types.Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*types.Relationship
	for _, rec := range r.order {
		if rec.Direction == dir {
			out = append(out, rec)
		}
	}
	return out
}

// All returns every distinct registered record in first-registered order.
func (r *Registry) All() []*types.Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.Relationship, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of distinct registered records. Aliases do not
// count separately.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Export returns value copies of every distinct record in first-registered
// order, suitable for snapshots and seed files. The copies share no state
// with the canonical records.
func (r *Registry) Export() []types.Relationship {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Relationship, 0, len(r.order))
	for _, rec := range r.order {
		cp := *rec
		cp.Aliases = append([]string(nil), rec.Aliases...)
		out = append(out, cp)
	}
	return out
}

// Reset clears the registry and re-registers the built-in seed set. It
// exists for test isolation; production code never removes records.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byKey = make(map[string]*types.Relationship)
	r.order = nil
	for _, def := range Seeds() {
		r.insertLocked(newRecord(def))
	}
}

// insertLocked registers rec under its name and under every alias that is
// not already taken. Callers must hold the write lock.
func (r *Registry) insertLocked(rec *types.Relationship) {
	r.byKey[rec.Name] = rec
	r.order = append(r.order, rec)
	for _, alias := range rec.Aliases {
		if _, taken := r.byKey[alias]; !taken {
			r.byKey[alias] = rec
		}
	}
}

// newRecord builds the canonical record for a definition: tri-states are
// normalized so the zero value reads as unknown, and the alias slice is
// copied so later mutation of the definition cannot leak into the record.
func newRecord(def types.Relationship) *types.Relationship {
	rec := def
	rec.Aliases = append([]string(nil), def.Aliases...)
	rec.Symmetry = normalize(def.Symmetry)
	rec.Transitivity = normalize(def.Transitivity)
	rec.Reflexivity = normalize(def.Reflexivity)
	return &rec
}

func normalize(t types.Tristate) types.Tristate {
	if !t.Known() {
		return types.TristateUnknown
	}
	return t
}
