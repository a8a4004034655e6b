// Package preview turns scene actors and the placement hologram into
// triangle meshes using a geometry kernel. One mesh is produced per item.
package preview

import (
	"fmt"

	"github.com/chazu/slotsnap/pkg/kernel"
	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Item is a box to draw: the class size placed at a pose.
type Item struct {
	Name string
	Size v3.Vec
	Pose pose.Pose
}

// Items lists the live actors of a scene in spawn order.
func Items(sc *scene.Scene) []Item {
	if sc == nil {
		return nil
	}
	actors := sc.Actors()
	items := make([]Item, 0, len(actors))
	for _, a := range actors {
		items = append(items, Item{Name: a.Name(), Size: a.Class().Size(), Pose: a.Pose()})
	}
	return items
}

// Render meshes each item. The renderer is read-only; items with a
// non-positive size on any axis are skipped.
func Render(k kernel.Kernel, items []Item, cells int) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, it := range items {
		if it.Size.X <= 0 || it.Size.Y <= 0 || it.Size.Z <= 0 {
			continue
		}
		solid := k.Place(k.Box(it.Size), it.Pose)
		mesh, err := k.ToMesh(solid, cells)
		if err != nil {
			return nil, fmt.Errorf("preview: ToMesh failed for %s: %w", it.Name, err)
		}
		mesh.Name = it.Name
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
