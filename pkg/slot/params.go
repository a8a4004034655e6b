package slot

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// DefaultRotationStep is the yaw increment, in degrees, used while snapped
// to a grid that does not set its own.
const DefaultRotationStep = 180

// Counts is the number of slots along the local X, Y and Z axes.
// A count <= 0 disables the grid on both faces normal to that axis.
type Counts [3]int

// Enabled reports whether faces normal to a carry a grid.
func (c Counts) Enabled(a Axis) bool {
	return c[a] > 0
}

// AxisMask returns the counts as a weight vector for SelectAxis. Disabled
// axes weigh zero; the vector is scaled down to unit length when longer.
func (c Counts) AxisMask() v3.Vec {
	m := v3.Vec{
		X: float64(max(c[0], 0)),
		Y: float64(max(c[1], 0)),
		Z: float64(max(c[2], 0)),
	}
	if l := m.Length(); l > 1 {
		m = m.MulScalar(1 / l)
	}
	return m
}

// Swizzle cyclically permutes the counts so that axis s comes first.
func (c Counts) Swizzle(s int) Counts {
	return Counts(swizzle([3]int(c), s))
}

// Params is the snap geometry of one object, in its local frame.
type Params struct {
	SlotPitch    float64 `json:"slot_pitch"`    // nominal slot spacing, informational
	Counts       Counts  `json:"counts"`        // grid subdivisions per local axis
	BoxCenter    v3.Vec  `json:"box_center"`    // center of the alignment box
	BoxExtent    v3.Vec  `json:"box_extent"`    // half-extents, may be zero on any axis
	RotationStep int     `json:"rotation_step"` // yaw step while snapped, 0 = default
}

// Step returns the yaw increment to use while snapped to this grid.
func (p Params) Step() int {
	if p.RotationStep != 0 {
		return p.RotationStep
	}
	return DefaultRotationStep
}

// Validate rejects descriptors no grid search can make sense of.
func (p Params) Validate() error {
	if p.BoxExtent.X < 0 || p.BoxExtent.Y < 0 || p.BoxExtent.Z < 0 {
		return fmt.Errorf("box extent %v has a negative component", p.BoxExtent)
	}
	if p.RotationStep < 0 || p.RotationStep > 360 {
		return fmt.Errorf("rotation step %d outside [0, 360]", p.RotationStep)
	}
	if p.SlotPitch < 0 {
		return fmt.Errorf("slot pitch %.4f is negative", p.SlotPitch)
	}
	return nil
}

// FromBounds builds a descriptor whose alignment box is the axis-aligned
// box spanning min and max.
func FromBounds(min, max v3.Vec, counts Counts, rotationStep int) Params {
	return Params{
		Counts:       counts,
		BoxCenter:    min.Add(max).MulScalar(0.5),
		BoxExtent:    max.Sub(min).MulScalar(0.5),
		RotationStep: rotationStep,
	}
}

// Provider is implemented by anything that exposes a slot grid. The value
// is a snapshot: callers query again instead of holding on to it.
type Provider interface {
	SlotParams() Params
}
