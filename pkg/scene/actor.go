package scene

import (
	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/slot"
)

// Object is an actor in the scene.
type Object interface {
	Name() string
	Pose() pose.Pose
	Alive() bool
	Class() *Class
}

// Actor is a spawned instance of a class without a slot grid.
type Actor struct {
	name  string
	class *Class
	pose  pose.Pose
	alive bool
}

var _ Object = (*Actor)(nil)

func (a *Actor) Name() string    { return a.name }
func (a *Actor) Pose() pose.Pose { return a.pose }
func (a *Actor) Class() *Class   { return a.class }

// Alive reports whether the actor is still in the scene.
func (a *Actor) Alive() bool {
	return a != nil && a.alive
}

// SlottedActor is a spawned instance of a slotted class.
type SlottedActor struct {
	*Actor
}

var (
	_ Object        = (*SlottedActor)(nil)
	_ slot.Provider = (*SlottedActor)(nil)
)

// SlotParams reads the class grid at call time.
func (a *SlottedActor) SlotParams() slot.Params {
	g, _ := a.class.Grid()
	return g
}
