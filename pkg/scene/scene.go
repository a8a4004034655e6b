package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/slotsnap/pkg/pose"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already defined")
)

// StepKind enumerates the scripted events replayed against a hologram.
type StepKind int

const (
	StepProbe   StepKind = iota // aim at a point
	StepScroll                  // rotate by whole steps
	StepDestroy                 // remove an actor
)

func (k StepKind) String() string {
	switch k {
	case StepProbe:
		return "probe"
	case StepScroll:
		return "scroll"
	case StepDestroy:
		return "destroy"
	default:
		return "unknown"
	}
}

// Step is one scripted event.
type Step struct {
	Kind     StepKind
	Target   string // actor name; empty for a terrain probe
	Location v3.Vec // world-space probe point
	Scroll   int    // rotation steps
}

// Scene is the set of classes and actors a placement session sees.
type Scene struct {
	classes map[string]*Class
	actors  map[string]Object
	order   []string // spawn order of live actors
	steps   []Step
	mover   string
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		classes: make(map[string]*Class),
		actors:  make(map[string]Object),
	}
}

// AddClass registers a class under its name.
func (s *Scene) AddClass(c *Class) error {
	if _, ok := s.classes[c.name]; ok {
		return fmt.Errorf("class %q: %w", c.name, ErrDuplicate)
	}
	s.classes[c.name] = c
	return nil
}

// Class returns the class with the given name.
func (s *Scene) Class(name string) (*Class, error) {
	c, ok := s.classes[name]
	if !ok {
		return nil, fmt.Errorf("class %q: %w", name, ErrNotFound)
	}
	return c, nil
}

// Classes returns all classes ordered by name.
func (s *Scene) Classes() []*Class {
	out := make([]*Class, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Spawn places a new actor of class c.
func (s *Scene) Spawn(name string, c *Class, p pose.Pose) (Object, error) {
	if _, ok := s.actors[name]; ok {
		return nil, fmt.Errorf("actor %q: %w", name, ErrDuplicate)
	}
	a := c.instantiate(name, p, true)
	s.actors[name] = a
	s.order = append(s.order, name)
	return a, nil
}

// Actor returns the live actor with the given name.
func (s *Scene) Actor(name string) (Object, error) {
	a, ok := s.actors[name]
	if !ok {
		return nil, fmt.Errorf("actor %q: %w", name, ErrNotFound)
	}
	return a, nil
}

// Actors returns the live actors in spawn order.
func (s *Scene) Actors() []Object {
	out := make([]Object, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.actors[name])
	}
	return out
}

// Remove destroys an actor. Anything still holding it sees Alive() == false.
func (s *Scene) Remove(name string) error {
	a, ok := s.actors[name]
	if !ok {
		return fmt.Errorf("actor %q: %w", name, ErrNotFound)
	}
	kill(a)
	delete(s.actors, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func kill(o Object) {
	switch a := o.(type) {
	case *Actor:
		a.alive = false
	case *SlottedActor:
		a.alive = false
	}
}

// AddStep appends a scripted event.
func (s *Scene) AddStep(st Step) {
	s.steps = append(s.steps, st)
}

// Steps returns the scripted events in order.
func (s *Scene) Steps() []Step {
	return s.steps
}

// SetMover selects the class the hologram previews.
func (s *Scene) SetMover(name string) error {
	if _, err := s.Class(name); err != nil {
		return fmt.Errorf("hologram: %w", err)
	}
	s.mover = name
	return nil
}

// Mover returns the class the hologram previews.
func (s *Scene) Mover() (*Class, error) {
	if s.mover == "" {
		return nil, fmt.Errorf("hologram class: %w", ErrNotFound)
	}
	return s.Class(s.mover)
}

// ActorCount returns the number of live actors.
func (s *Scene) ActorCount() int {
	return len(s.actors)
}
