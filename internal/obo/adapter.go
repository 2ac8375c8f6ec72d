// Package obo translates raw OBO [Typedef] stanza fields into registry
// definitions. It is the only input boundary between file parsing (which
// lives outside this module) and the canonical registry: an external OBO
// reader hands over the stanza's key/value pairs and gets back the canonical
// record.
package obo

import (
	"strings"

	"github.com/obokit/relreg/internal/registry"
	"github.com/obokit/relreg/pkg/types"
)

// Stanza holds the raw key/value content of one OBO [Typedef] stanza, as
// produced by an external OBO parser. Values are the unparsed strings from
// the file.
type Stanza map[string]string

// Register resolves a stanza against the registry. When the stanza's id is
// already registered it short-circuits and returns the existing record with
// the rest of the stanza ignored; otherwise it registers a new record built
// by Definition.
func Register(reg *registry.Registry, s Stanza) *types.Relationship {
	if rec := reg.Lookup(s["id"]); rec != nil {
		return rec
	}
	return reg.GetOrCreate(Definition(s))
}

// Definition translates a stanza into a registry definition:
//
//	id            -> Name
//	inverse_of    -> Complement ("" when absent)
//	is_transitive, is_symmetric, is_reflexive -> tri-states, absent key
//	              -> unknown, unparseable value -> unknown
//	is_antisymetric (OBO files spell it with one m) -> overrides symmetry,
//	              see below
//
// The is_antisymetric handling mirrors an OBO convention quirk: when the key
// is present, "false" forces symmetry to true and "true" forces it to false,
// regardless of is_symmetric. When the key is absent, a symmetry of false
// parsed from is_symmetric alone is not trusted and degrades back to
// unknown.
func Definition(s Stanza) types.Relationship {
	def := types.Relationship{
		Name:         s["id"],
		Complement:   s["inverse_of"],
		Transitivity: parseFlag(s, "is_transitive"),
		Symmetry:     parseFlag(s, "is_symmetric"),
		Reflexivity:  parseFlag(s, "is_reflexive"),
	}

	if raw, ok := s["is_antisymetric"]; ok {
		def.Symmetry = antisymmetricOverride(raw)
	} else if def.Symmetry == types.TristateFalse {
		def.Symmetry = types.TristateUnknown
	}

	return def
}

func parseFlag(s Stanza, key string) types.Tristate {
	raw, ok := s[key]
	if !ok {
		return types.TristateUnknown
	}
	return types.ParseTristate(raw)
}

// antisymmetricOverride inverts the antisymmetric assertion into a symmetry
// value: not antisymmetric means symmetric, antisymmetric means asymmetric.
func antisymmetricOverride(raw string) types.Tristate {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "false":
		return types.TristateTrue
	case "true":
		return types.TristateFalse
	default:
		return types.TristateUnknown
	}
}
