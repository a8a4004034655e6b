// Package pose places objects in world space. Rotations follow the
// kernel's Euler convention: roll about X, then pitch about Y, then yaw
// about Z, all in degrees.
package pose

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Rotator is an orientation in degrees.
type Rotator struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Matrix returns the rotation as a homogeneous matrix.
func (r Rotator) Matrix() sdf.M44 {
	return sdf.RotateZ(radians(r.Yaw)).
		Mul(sdf.RotateY(radians(r.Pitch))).
		Mul(sdf.RotateX(radians(r.Roll)))
}

// Pose is a rigid placement: rotate about the local origin, then translate.
type Pose struct {
	Position v3.Vec  `json:"position"`
	Rotation Rotator `json:"rotation"`
}

// Matrix returns the local-to-world transform.
func (p Pose) Matrix() sdf.M44 {
	return sdf.Translate3d(p.Position).Mul(p.Rotation.Matrix())
}

// LocalToWorld maps a point in the posed object's frame to world space.
func (p Pose) LocalToWorld(v v3.Vec) v3.Vec {
	return p.Matrix().MulPosition(v)
}

// WorldToLocal maps a world-space point into the posed object's frame.
func (p Pose) WorldToLocal(v v3.Vec) v3.Vec {
	return p.Matrix().Inverse().MulPosition(v)
}

// NormalizeAxis wraps an angle in degrees into [0, 360).
func NormalizeAxis(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
