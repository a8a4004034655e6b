package scene

import (
	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/slot"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Class is a buildable type. Actors spawned from a slotted class expose
// the class's slot grid.
type Class struct {
	name string
	size v3.Vec
	grid *slot.Params
}

// NewClass returns a class without a slot grid.
func NewClass(name string, size v3.Vec) *Class {
	return &Class{name: name, size: size}
}

// NewSlottedClass returns a class whose actors expose grid.
func NewSlottedClass(name string, size v3.Vec, grid slot.Params) *Class {
	return &Class{name: name, size: size, grid: &grid}
}

func (c *Class) Name() string { return c.name }

// Size returns the full dimensions of the class's box, centered on the
// actor origin.
func (c *Class) Size() v3.Vec { return c.size }

// Grid returns the slot grid, if the class has one.
func (c *Class) Grid() (slot.Params, bool) {
	if c.grid == nil {
		return slot.Params{}, false
	}
	return *c.grid, true
}

// Default returns the class's default instance. It is never spawned and
// reports itself dead.
func (c *Class) Default() Object {
	return c.instantiate(c.name, pose.Pose{}, false)
}

func (c *Class) instantiate(name string, p pose.Pose, alive bool) Object {
	a := &Actor{name: name, class: c, pose: p, alive: alive}
	if c.grid != nil {
		return &SlottedActor{Actor: a}
	}
	return a
}
