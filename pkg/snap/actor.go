// Package snap resolves where a placement hologram goes when it is aimed at
// an object that exposes a slot grid. One Hologram exists per placement
// session; it is driven from a single goroutine, one hit at a time.
package snap

import (
	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/slot"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Named is anything with a display name, such as a build class's default
// instance.
type Named interface {
	Name() string
}

// Actor is an object placed in the world. Holograms only borrow actors:
// an actor may be destroyed at any time, after which Alive reports false.
type Actor interface {
	Named
	Pose() pose.Pose
	Alive() bool
}

// Hit is the result of aiming at the world.
type Hit struct {
	Actor    Actor  // nil for terrain
	Location v3.Vec // world space
}

// IsSlotted reports whether a is a live actor exposing a slot grid.
func IsSlotted(a Actor) bool {
	_, ok := slotted(a)
	return ok
}

func slotted(a Actor) (slot.Provider, bool) {
	if a == nil || !a.Alive() {
		return nil, false
	}
	p, ok := a.(slot.Provider)
	return p, ok
}

func nameOf(n Named) string {
	if n == nil {
		return "nil"
	}
	return n.Name()
}
