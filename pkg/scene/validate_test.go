package scene

import (
	"strings"
	"testing"

	"github.com/chazu/slotsnap/pkg/slot"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestValidateCleanScene(t *testing.T) {
	s := New()
	_ = s.AddClass(rackClass())
	_ = s.SetMover("rack")

	errs, warnings := Validate(s)
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidateSize(t *testing.T) {
	s := New()
	_ = s.AddClass(NewClass("flat", v3.Vec{X: 10, Y: 0, Z: -1}))
	_ = s.SetMover("flat")

	errs, _ := Validate(s)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if !strings.Contains(errs[0].Error(), "size Y") || !strings.Contains(errs[1].Error(), "size Z") {
		t.Errorf("unexpected messages: %v", errs)
	}
}

func TestValidateGrid(t *testing.T) {
	s := New()
	_ = s.AddClass(NewSlottedClass("bad", v3.Vec{X: 1, Y: 1, Z: 1}, slot.Params{
		Counts:       slot.Counts{1, 1, 1},
		RotationStep: -5,
	}))
	_ = s.AddClass(NewSlottedClass("inert", v3.Vec{X: 1, Y: 1, Z: 1}, slot.Params{}))

	errs, warnings := Validate(s)
	if len(errs) != 1 || errs[0].Subject != "bad" {
		t.Errorf("errors = %v, want one for bad", errs)
	}

	var sawInert, sawMover bool
	for _, w := range warnings {
		switch w.Subject {
		case "inert":
			sawInert = true
		case "hologram":
			sawMover = true
		}
	}
	if !sawInert || !sawMover {
		t.Errorf("warnings = %v, want inert grid and missing hologram", warnings)
	}
}
