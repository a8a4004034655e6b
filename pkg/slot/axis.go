package slot

import v3 "github.com/deadsy/sdfx/vec/v3"

// Axis is one of the three local axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// SignedAxis identifies one of the six faces of a box. The axis is
// value/2; odd values face the positive direction.
type SignedAxis int

const (
	NegX SignedAxis = iota
	PosX
	NegY
	PosY
	NegZ
	PosZ
)

// NewSignedAxis returns the face of a pointing in the given direction.
func NewSignedAxis(a Axis, positive bool) SignedAxis {
	s := SignedAxis(2 * a)
	if positive {
		s++
	}
	return s
}

// Axis returns the axis the face is normal to.
func (s SignedAxis) Axis() Axis {
	return Axis(s / 2)
}

// Sign returns +1 for positive faces and -1 for negative ones.
func (s SignedAxis) Sign() int {
	if s%2 != 0 {
		return 1
	}
	return -1
}

// Flip returns the opposite face on the same axis.
func (s SignedAxis) Flip() SignedAxis {
	return s ^ 1
}

// Valid reports whether s names one of the six faces.
func (s SignedAxis) Valid() bool {
	return s >= NegX && s <= PosZ
}

func (s SignedAxis) String() string {
	if !s.Valid() {
		return "invalid"
	}
	if s.Sign() > 0 {
		return "+" + s.Axis().String()
	}
	return "-" + s.Axis().String()
}

// SelectAxis picks the face a direction points at. Each component of the
// absolute direction is weighted by enabled, so a zero weight keeps an axis
// from winning unless every axis weighs zero.
//
// Ties go to Z, and Y beats X on equality: X only wins when strictly
// greater than both others. Hits along box diagonals depend on this order.
func SelectAxis(dir, enabled v3.Vec) SignedAxis {
	m := dir.Abs().Mul(enabled)
	axis := AxisZ
	if m.X > m.Y {
		if m.X > m.Z {
			axis = AxisX
		}
	} else if m.Y > m.Z {
		axis = AxisY
	}
	return NewSignedAxis(axis, component(dir, axis) >= 0)
}

// MarshalText encodes the face by name, e.g. "+x".
func (s SignedAxis) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
