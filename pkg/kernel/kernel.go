// Package kernel defines the geometry kernel used to draw placement
// previews. Implementations wrap a solid modeller behind this interface so
// the preview code does not depend on any one backend.
package kernel

import (
	"github.com/chazu/slotsnap/pkg/pose"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box in world space.
	BoundingBox() (min, max v3.Vec)
}

// Kernel builds and meshes solids.
type Kernel interface {
	// Box returns a box of the given full size centered on the origin.
	Box(size v3.Vec) Solid
	// Place applies a pose to a solid.
	Place(s Solid, p pose.Pose) Solid
	// ToMesh tessellates a solid; cells sets the sampling resolution along
	// the longest bounding-box side.
	ToMesh(s Solid, cells int) (*Mesh, error)
}
