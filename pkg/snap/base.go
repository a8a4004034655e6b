package snap

import "github.com/chazu/slotsnap/pkg/pose"

// Base is the generic placement behaviour a hologram defers to whenever no
// slot grid is in play.
type Base interface {
	// RotationStep is the yaw increment used while unsnapped.
	RotationStep() int
	// IsValidHit decides whether a hit on a non-slotted target may be used.
	IsValidHit(hit Hit) bool
	// Place is the fallback placement for a hit the grid could not resolve.
	Place(hit Hit) (pose.Pose, bool)
	// ApplyScrollRotation adds the user's scroll input to yaw, in multiples
	// of step.
	ApplyScrollRotation(yaw float64, step int) float64
	// ClearSupportOffsets resets any accumulated leg/foot offsets.
	ClearSupportOffsets()
}

// FreeBase places holograms directly at the hit location. It keeps the
// scroll input as a count of rotation steps.
type FreeBase struct {
	step     int
	scroll   int
	clearing int
}

var _ Base = (*FreeBase)(nil)

// NewFreeBase returns a base with the given unsnapped rotation step.
func NewFreeBase(step int) *FreeBase {
	return &FreeBase{step: step}
}

func (b *FreeBase) RotationStep() int {
	return b.step
}

// IsValidHit accepts terrain and any live actor.
func (b *FreeBase) IsValidHit(hit Hit) bool {
	return hit.Actor == nil || hit.Actor.Alive()
}

func (b *FreeBase) Place(hit Hit) (pose.Pose, bool) {
	if !b.IsValidHit(hit) {
		return pose.Pose{}, false
	}
	return pose.Pose{
		Position: hit.Location,
		Rotation: pose.Rotator{Yaw: b.ApplyScrollRotation(0, b.step)},
	}, true
}

// Scroll records n rotation steps of user input; negative n turns back.
func (b *FreeBase) Scroll(n int) {
	b.scroll += n
}

func (b *FreeBase) ApplyScrollRotation(yaw float64, step int) float64 {
	return pose.NormalizeAxis(yaw + float64(b.scroll*step))
}

func (b *FreeBase) ClearSupportOffsets() {
	b.clearing++
}

// SupportClears returns how often support offsets were cleared.
func (b *FreeBase) SupportClears() int {
	return b.clearing
}
