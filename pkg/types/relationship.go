// Package types defines the core data structures for the relreg relationship
// registry: relationship type records, tri-state property values, and
// directional classification.
package types

import "strings"

// Tristate represents a relationship property that can be asserted true,
// asserted false, or left unstated. OBO typedef stanzas frequently omit
// property keys, and an omitted key is not the same thing as a negative
// assertion, so both states must survive round-trips.
type Tristate string

const (
	// TristateUnknown indicates the property was never asserted either way.
	TristateUnknown Tristate = "unknown"

	// TristateTrue indicates a positive assertion.
	TristateTrue Tristate = "true"

	// TristateFalse indicates a negative assertion.
	TristateFalse Tristate = "false"
)

// ParseTristate interprets a raw OBO-style boolean string. The comparison is
// case-insensitive; anything that is not "true" or "false" degrades to
// TristateUnknown rather than failing.
func ParseTristate(raw string) Tristate {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return TristateTrue
	case "false":
		return TristateFalse
	default:
		return TristateUnknown
	}
}

// Known reports whether the property was asserted either way.
func (t Tristate) Known() bool {
	return t == TristateTrue || t == TristateFalse
}

// Direction classifies how a relationship moves through an ontology
// hierarchy. A topdown relationship descends toward more specific terms, a
// bottomup relationship ascends toward more general ones.
type Direction string

const (
	// DirectionNone is the zero value: the relationship is undirected.
	DirectionNone Direction = ""

	// DirectionTopdown descends the hierarchy (e.g. "has_part").
	DirectionTopdown Direction = "topdown"

	// DirectionBottomup ascends the hierarchy (e.g. "is_a").
	DirectionBottomup Direction = "bottomup"

	// DirectionHorizontal links terms at the same level.
	DirectionHorizontal Direction = "horizontal"
)

// Relationship describes one relationship type as it appears in an ontology
// (e.g. "is_a", "part_of"). Instances handed out by the registry are
// canonical: there is exactly one per name, aliases included, so references
// can be compared by pointer identity. Fields are fixed at registration time
// and must not be modified afterwards.
//
// A plain (non-canonical) Relationship value is also used as the definition
// passed to the registry, and as the row format for snapshots and seed files.
type Relationship struct {
	// Name is the primary key, stable for the record's lifetime.
	Name string `json:"name" yaml:"name"`

	// Aliases are additional names that resolve to this same record.
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// Symmetry, Transitivity and Reflexivity are stored as declared and
	// never re-derived from graph contents.
	Symmetry     Tristate `json:"symmetry,omitempty" yaml:"symmetry,omitempty"`
	Transitivity Tristate `json:"transitivity,omitempty" yaml:"transitivity,omitempty"`
	Reflexivity  Tristate `json:"reflexivity,omitempty" yaml:"reflexivity,omitempty"`

	// Complement names the inverse relationship type, if any. It does not
	// have to resolve at registration time.
	Complement string `json:"complement,omitempty" yaml:"complement,omitempty"`

	// Prefix and Comment are free-form descriptive strings.
	Prefix  string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`

	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// HasComplement reports whether an inverse relationship type is declared.
func (r *Relationship) HasComplement() bool {
	return r.Complement != ""
}

// HasAlias reports whether name is one of the record's declared aliases.
func (r *Relationship) HasAlias(name string) bool {
	for _, a := range r.Aliases {
		if a == name {
			return true
		}
	}
	return false
}
