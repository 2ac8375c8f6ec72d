package types_test

import (
	"testing"

	"github.com/obokit/relreg/pkg/types"
)

// TestParseTristate verifies case-insensitive parsing and degradation of
// unparseable input to unknown.
func TestParseTristate(t *testing.T) {
	cases := []struct {
		raw  string
		want types.Tristate
	}{
		{"true", types.TristateTrue},
		{"TRUE", types.TristateTrue},
		{"True", types.TristateTrue},
		{"false", types.TristateFalse},
		{"FALSE", types.TristateFalse},
		{" true ", types.TristateTrue},
		{"", types.TristateUnknown},
		{"yes", types.TristateUnknown},
		{"1", types.TristateUnknown},
	}

	for _, tc := range cases {
		if got := types.ParseTristate(tc.raw); got != tc.want {
			t.Errorf("ParseTristate(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

// TestTristateKnown verifies that only asserted values count as known.
func TestTristateKnown(t *testing.T) {
	if !types.TristateTrue.Known() {
		t.Error("expected TristateTrue to be known")
	}
	if !types.TristateFalse.Known() {
		t.Error("expected TristateFalse to be known")
	}
	if types.TristateUnknown.Known() {
		t.Error("expected TristateUnknown to be unknown")
	}
	if types.Tristate("").Known() {
		t.Error("expected zero-value Tristate to be unknown")
	}
}

// TestRelationshipHasAlias verifies alias membership checks.
func TestRelationshipHasAlias(t *testing.T) {
	r := types.Relationship{
		Name:    "part_of",
		Aliases: []string{"is_part"},
	}

	if !r.HasAlias("is_part") {
		t.Error("expected HasAlias(is_part) to be true")
	}
	if r.HasAlias("part_of") {
		t.Error("expected HasAlias to not match the primary name")
	}
	if r.HasAlias("") {
		t.Error("expected HasAlias of empty string to be false")
	}
}

// TestRelationshipHasComplement verifies complement presence checks.
func TestRelationshipHasComplement(t *testing.T) {
	with := types.Relationship{Name: "is_a", Complement: "can_be"}
	without := types.Relationship{Name: "has_units"}

	if !with.HasComplement() {
		t.Error("expected is_a to declare a complement")
	}
	if without.HasComplement() {
		t.Error("expected has_units to declare no complement")
	}
}

// TestDirectionZeroValue verifies that an unset direction reads as none.
func TestDirectionZeroValue(t *testing.T) {
	var r types.Relationship
	if r.Direction != types.DirectionNone {
		t.Errorf("expected zero-value direction to be none, got %q", r.Direction)
	}
}
