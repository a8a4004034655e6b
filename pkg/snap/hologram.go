package snap

import (
	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/slot"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Outcome classifies the last snap attempt.
type Outcome int

const (
	Unresolved           Outcome = iota // no attempt yet
	Snapped                             // aligned to a slot grid
	NotCapable                          // target exposes no grid, or the hologram has none
	DegenerateTargetFace                // selected target face carries no grid
	DegenerateOwnFace                   // hologram's own grid has no anchor on the opposite face
)

func (o Outcome) String() string {
	switch o {
	case Unresolved:
		return "unresolved"
	case Snapped:
		return "snapped"
	case NotCapable:
		return "not-capable"
	case DegenerateTargetFace:
		return "degenerate-target-face"
	case DegenerateOwnFace:
		return "degenerate-own-face"
	default:
		return "unknown"
	}
}

// Resolution records the anchors of the last successful snap, each in its
// owner's local frame.
type Resolution struct {
	Face         slot.SignedAxis `json:"face"`
	TargetAnchor v3.Vec          `json:"target_anchor"`
	OwnAnchor    v3.Vec          `json:"own_anchor"`
}

// Hologram is the placement preview of one build class. It captures its
// own slot grid once on creation and re-reads the target's grid on every
// hit.
type Hologram struct {
	class   string
	base    Base
	ownGrid slot.Params
	capable bool

	target      Actor // borrowed, never owned
	useFallback bool
	pose        pose.Pose
	last        Outcome
	resolution  Resolution
}

// NewHologram starts a placement session for the build class whose default
// instance is class. A class without a slot grid is logged and yields a
// hologram that never snaps. A nil base is replaced by a FreeBase with the
// default slot rotation step.
func NewHologram(class Named, base Base) *Hologram {
	if base == nil {
		base = NewFreeBase(slot.DefaultRotationStep)
	}
	h := &Hologram{
		class:       nameOf(class),
		base:        base,
		useFallback: true,
	}

	p, ok := class.(slot.Provider)
	if class == nil || !ok {
		opsf("invalid build class: %s", h.class)
		return h
	}
	h.ownGrid = p.SlotParams()
	h.capable = true
	diagf("slotted hologram for class: %s", h.class)
	diagf("box center = %v, box extent = %v, counts = %v", h.ownGrid.BoxCenter, h.ownGrid.BoxExtent, h.ownGrid.Counts)
	diagf("rotation step = %d", h.ownGrid.RotationStep)
	return h
}

// Class returns the build class name.
func (h *Hologram) Class() string { return h.class }

// OwnGrid returns the grid captured on creation.
func (h *Hologram) OwnGrid() slot.Params { return h.ownGrid }

// Pose returns the hologram's current placement.
func (h *Hologram) Pose() pose.Pose { return h.pose }

// UseFallbackSnapping reports whether the base behaviour is in charge.
func (h *Hologram) UseFallbackSnapping() bool { return h.useFallback }

// LastOutcome returns the classification of the last TrySnap.
func (h *Hologram) LastOutcome() Outcome { return h.last }

// Resolution returns the anchors of the current snap, if snapped.
func (h *Hologram) Resolution() (Resolution, bool) {
	if h.SnappedTarget() == nil {
		return Resolution{}, false
	}
	return h.resolution, true
}

// SnappedTarget returns the actor the hologram is aligned to, or nil.
// A target destroyed since the last snap is forgotten here.
func (h *Hologram) SnappedTarget() Actor {
	if h.target != nil && !h.target.Alive() {
		h.target = nil
	}
	return h.target
}

// IsValidHit accepts any slotted actor and otherwise defers to the base.
func (h *Hologram) IsValidHit(hit Hit) bool {
	if IsSlotted(hit.Actor) {
		return true
	}
	return h.base.IsValidHit(hit)
}

// RotationStep returns the snapped target's grid step while snapped, and
// the base step otherwise.
func (h *Hologram) RotationStep() int {
	if p, ok := slotted(h.SnappedTarget()); ok {
		return p.SlotParams().Step()
	}
	return h.base.RotationStep()
}

// TrySnap aligns the hologram flush against the nearest slot of the hit
// actor's grid. On success the pose is updated and the hit actor becomes
// the snapped target; on failure the target is cleared and the fallback
// flag raised. Nothing else changes between calls, so repeating a hit
// reproduces the same pose.
func (h *Hologram) TrySnap(hit Hit) bool {
	h.last = h.trySnap(hit)
	if h.last != Snapped {
		h.target = nil
		h.useFallback = true
		return false
	}
	return true
}

func (h *Hologram) trySnap(hit Hit) Outcome {
	provider, ok := slotted(hit.Actor)
	if !ok || !h.capable {
		return NotCapable
	}

	targetPose := hit.Actor.Pose()
	local := targetPose.WorldToLocal(hit.Location)
	params := provider.SlotParams()

	face := slot.SelectAxis(local.Sub(params.BoxCenter), params.Counts.AxisMask())
	anchor, ok := slot.ClosestSlot(params, local, face)
	if !ok {
		return DegenerateTargetFace
	}
	own, ok := slot.ClosestSlot(h.ownGrid, v3.Vec{}, face.Flip())
	if !ok {
		opsf("%s: own grid has no anchor on face %v (target %s)", h.class, face.Flip(), hit.Actor.Name())
		return DegenerateOwnFace
	}

	h.useFallback = false
	rot := targetPose.Rotation
	h.pose = pose.Pose{
		Position: targetPose.LocalToWorld(anchor.Sub(own)),
		Rotation: pose.Rotator{
			Pitch: rot.Pitch,
			Yaw:   h.base.ApplyScrollRotation(rot.Yaw, params.Step()),
			Roll:  rot.Roll,
		},
	}
	h.base.ClearSupportOffsets()
	h.target = hit.Actor
	h.resolution = Resolution{Face: face, TargetAnchor: anchor, OwnAnchor: own}
	return Snapped
}

// Update handles one hit-test: snap to a grid if possible, otherwise let
// the base place the hologram.
func (h *Hologram) Update(hit Hit) Outcome {
	if h.TrySnap(hit) {
		return Snapped
	}
	if h.useFallback {
		if p, ok := h.base.Place(hit); ok {
			h.pose = p
		}
	}
	return h.last
}
