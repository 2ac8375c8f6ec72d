package registry

import "github.com/obokit/relreg/pkg/types"

// Seeds returns the built-in relationship types registered by New. These are
// the types every OBO ontology is assumed to use; their flag values are
// fixed and must not change, since downstream classification (Topdown,
// Bottomup, Complement) depends on them.
func Seeds() []types.Relationship {
	return []types.Relationship{
		{
			Name:         "is_a",
			Symmetry:     types.TristateFalse,
			Transitivity: types.TristateTrue,
			Reflexivity:  types.TristateTrue,
			Complement:   "can_be",
			Direction:    types.DirectionBottomup,
		},
		{
			Name:         "can_be",
			Symmetry:     types.TristateFalse,
			Transitivity: types.TristateTrue,
			Reflexivity:  types.TristateTrue,
			Complement:   "is_a",
			Direction:    types.DirectionTopdown,
		},
		{
			Name:         "has_part",
			Symmetry:     types.TristateFalse,
			Transitivity: types.TristateTrue,
			Reflexivity:  types.TristateTrue,
			Complement:   "part_of",
			Direction:    types.DirectionTopdown,
		},
		{
			Name:         "part_of",
			Symmetry:     types.TristateFalse,
			Transitivity: types.TristateTrue,
			Reflexivity:  types.TristateTrue,
			Complement:   "has_part",
			Direction:    types.DirectionBottomup,
			Aliases:      []string{"is_part"},
		},
		{
			Name:         "has_units",
			Symmetry:     types.TristateFalse,
			Transitivity: types.TristateFalse,
		},
		{
			Name:         "has_domain",
			Symmetry:     types.TristateFalse,
			Transitivity: types.TristateFalse,
		},
	}
}
