package registry

import "github.com/obokit/relreg/pkg/types"

// Encode returns the wire representation of a record: its canonical name and
// nothing else. Flags, aliases and comments are deliberately not carried —
// the receiving process resolves the name against its own registry.
func (r *Registry) Encode(rec *types.Relationship) string {
	return rec.Name
}

// Decode resolves an encoded name against this registry via GetOrCreate.
//
// When the name is already registered (for example through the seed set),
// the result is the identical canonical record, so references survive a
// serialization round-trip with pointer identity intact.
//
// When the name is unknown, Decode fabricates a new record with every field
// empty rather than failing. Callers that would rather detect the gap should
// Lookup the name first.
func (r *Registry) Decode(name string) *types.Relationship {
	return r.GetOrCreate(types.Relationship{Name: name})
}
