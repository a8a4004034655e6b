package snap

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/chazu/slotsnap/pkg/pose"
	"github.com/chazu/slotsnap/pkg/slot"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubActor struct {
	name string
	pose pose.Pose
	dead bool
}

func (a *stubActor) Name() string    { return a.name }
func (a *stubActor) Pose() pose.Pose { return a.pose }
func (a *stubActor) Alive() bool     { return !a.dead }

type slottedActor struct {
	stubActor
	params  slot.Params
	queries int
}

func (a *slottedActor) SlotParams() slot.Params {
	a.queries++
	return a.params
}

type stubClass struct{ name string }

func (c stubClass) Name() string { return c.name }

type slottedClass struct {
	stubClass
	params slot.Params
}

func (c slottedClass) SlotParams() slot.Params { return c.params }

// recordingBase wraps FreeBase and counts delegations.
type recordingBase struct {
	*FreeBase
	stepCalls int
}

func (b *recordingBase) RotationStep() int {
	b.stepCalls++
	return b.FreeBase.RotationStep()
}

var tol = cmpopts.EquateApprox(0, 1e-6)

func rackGrid(step int) slot.Params {
	return slot.Params{
		Counts:       slot.Counts{1, 2, 2},
		BoxExtent:    v3.Vec{X: 100, Y: 50, Z: 50},
		RotationStep: step,
	}
}

func cubeClass() slottedClass {
	return slottedClass{
		stubClass: stubClass{"cube"},
		params: slot.Params{
			Counts:    slot.Counts{1, 1, 1},
			BoxExtent: v3.Vec{X: 10, Y: 10, Z: 10},
		},
	}
}

func newRack(p pose.Pose, step int) *slottedActor {
	return &slottedActor{
		stubActor: stubActor{name: "rack", pose: p},
		params:    rackGrid(step),
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogWriters(&buf, &buf)
	t.Cleanup(func() { SetLogWriters(os.Stderr, nil) })
	return &buf
}

// ---------------------------------------------------------------------------
// TrySnap
// ---------------------------------------------------------------------------

func TestTrySnapScenarioA(t *testing.T) {
	base := NewFreeBase(10)
	h := NewHologram(cubeClass(), base)
	rack := newRack(pose.Pose{}, 90)

	ok := h.TrySnap(Hit{Actor: rack, Location: v3.Vec{X: 100, Y: 10, Z: -10}})
	if !ok {
		t.Fatalf("TrySnap failed: %v", h.LastOutcome())
	}

	res, ok := h.Resolution()
	if !ok {
		t.Fatal("Resolution() reported no snap")
	}
	if res.Face != slot.PosX {
		t.Errorf("face = %v, want +x", res.Face)
	}
	if !cmp.Equal(res.TargetAnchor, v3.Vec{X: 100, Y: 25, Z: -25}, tol) {
		t.Errorf("target anchor = %v", res.TargetAnchor)
	}
	if !cmp.Equal(res.OwnAnchor, v3.Vec{X: -10}, tol) {
		t.Errorf("own anchor = %v", res.OwnAnchor)
	}

	want := pose.Pose{Position: v3.Vec{X: 110, Y: 25, Z: -25}}
	if diff := cmp.Diff(want, h.Pose(), tol); diff != "" {
		t.Errorf("pose mismatch (-want +got):\n%s", diff)
	}
	if h.SnappedTarget() != Actor(rack) {
		t.Errorf("snapped target = %v, want rack", h.SnappedTarget())
	}
	if h.UseFallbackSnapping() {
		t.Error("fallback still active after snap")
	}
	if base.SupportClears() != 1 {
		t.Errorf("support offsets cleared %d times, want 1", base.SupportClears())
	}
}

func TestTrySnapPosedTarget(t *testing.T) {
	targetPose := pose.Pose{
		Position: v3.Vec{X: 1000, Y: -50, Z: 20},
		Rotation: pose.Rotator{Pitch: 5, Yaw: 90, Roll: -7},
	}
	h := NewHologram(cubeClass(), NewFreeBase(10))
	rack := newRack(targetPose, 90)

	hit := targetPose.LocalToWorld(v3.Vec{X: 100, Y: 10, Z: -10})
	if !h.TrySnap(Hit{Actor: rack, Location: hit}) {
		t.Fatalf("TrySnap failed: %v", h.LastOutcome())
	}

	want := pose.Pose{
		Position: targetPose.LocalToWorld(v3.Vec{X: 110, Y: 25, Z: -25}),
		Rotation: pose.Rotator{Pitch: 5, Yaw: 90, Roll: -7},
	}
	if diff := cmp.Diff(want, h.Pose(), tol); diff != "" {
		t.Errorf("pose mismatch (-want +got):\n%s", diff)
	}
}

func TestTrySnapAppliesScrollInTargetSteps(t *testing.T) {
	tests := []struct {
		name    string
		step    int
		scroll  int
		yaw     float64
		wantYaw float64
	}{
		{"grid step", 90, 1, 0, 90},
		{"default step", 0, 1, 30, 210},
		{"wraps", 90, -1, 45, 315},
		{"no scroll", 45, 0, 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := NewFreeBase(10)
			base.Scroll(tt.scroll)
			h := NewHologram(cubeClass(), base)
			rack := newRack(pose.Pose{Rotation: pose.Rotator{Yaw: tt.yaw}}, tt.step)

			hit := rack.pose.LocalToWorld(v3.Vec{X: 100})
			if !h.TrySnap(Hit{Actor: rack, Location: hit}) {
				t.Fatalf("TrySnap failed: %v", h.LastOutcome())
			}
			if got := h.Pose().Rotation.Yaw; !cmp.Equal(got, tt.wantYaw, tol) {
				t.Errorf("yaw = %v, want %v", got, tt.wantYaw)
			}
		})
	}
}

func TestTrySnapFailures(t *testing.T) {
	plain := &stubActor{name: "crate"}
	degenerate := &slottedActor{stubActor: stubActor{name: "flat"}}
	dead := newRack(pose.Pose{}, 0)
	dead.dead = true

	tests := []struct {
		name string
		hit  Hit
		want Outcome
	}{
		{"terrain", Hit{Location: v3.Vec{X: 1}}, NotCapable},
		{"plain actor", Hit{Actor: plain, Location: v3.Vec{X: 1}}, NotCapable},
		{"destroyed target", Hit{Actor: dead, Location: v3.Vec{X: 100}}, NotCapable},
		{"target face without grid", Hit{Actor: degenerate, Location: v3.Vec{X: 1}}, DegenerateTargetFace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHologram(cubeClass(), nil)
			if h.TrySnap(tt.hit) {
				t.Fatal("TrySnap succeeded")
			}
			if h.LastOutcome() != tt.want {
				t.Errorf("outcome = %v, want %v", h.LastOutcome(), tt.want)
			}
			if h.SnappedTarget() != nil {
				t.Error("snapped target set after failure")
			}
			if !h.UseFallbackSnapping() {
				t.Error("fallback not raised after failure")
			}
		})
	}
}

func TestTrySnapDegenerateOwnFaceIsLogged(t *testing.T) {
	logs := captureLogs(t)
	class := slottedClass{
		stubClass: stubClass{"plate"},
		params:    slot.Params{Counts: slot.Counts{0, 1, 1}, BoxExtent: v3.Vec{X: 1, Y: 1, Z: 1}},
	}
	h := NewHologram(class, nil)
	logs.Reset()

	if h.TrySnap(Hit{Actor: newRack(pose.Pose{}, 0), Location: v3.Vec{X: 100}}) {
		t.Fatal("TrySnap succeeded without an own anchor")
	}
	if h.LastOutcome() != DegenerateOwnFace {
		t.Errorf("outcome = %v, want %v", h.LastOutcome(), DegenerateOwnFace)
	}
	if !strings.Contains(logs.String(), "own grid has no anchor") {
		t.Errorf("expected own-anchor error in logs, got %q", logs.String())
	}
}

func TestInvalidBuildClass(t *testing.T) {
	logs := captureLogs(t)
	h := NewHologram(stubClass{"crate"}, nil)

	if !strings.Contains(logs.String(), "invalid build class: crate") {
		t.Errorf("expected invalid class error, got %q", logs.String())
	}
	if h.TrySnap(Hit{Actor: newRack(pose.Pose{}, 0), Location: v3.Vec{X: 100}}) {
		t.Fatal("hologram without a grid snapped")
	}
	if h.LastOutcome() != NotCapable {
		t.Errorf("outcome = %v, want %v", h.LastOutcome(), NotCapable)
	}
}

func TestNilBuildClass(t *testing.T) {
	logs := captureLogs(t)
	h := NewHologram(nil, nil)
	if h.Class() != "nil" {
		t.Errorf("Class() = %q, want nil", h.Class())
	}
	if !strings.Contains(logs.String(), "invalid build class: nil") {
		t.Errorf("expected invalid class error, got %q", logs.String())
	}
}

func TestActivationLogsOwnGrid(t *testing.T) {
	logs := captureLogs(t)
	class := cubeClass()
	class.params.RotationStep = 90
	h := NewHologram(class, nil)

	out := logs.String()
	for _, want := range []string{"slotted hologram for class: cube", "box extent", "rotation step = 90"} {
		if !strings.Contains(out, want) {
			t.Errorf("activation log missing %q:\n%s", want, out)
		}
	}
	if h.OwnGrid() != class.params {
		t.Errorf("OwnGrid() = %+v, want %+v", h.OwnGrid(), class.params)
	}
}

// ---------------------------------------------------------------------------
// State machine
// ---------------------------------------------------------------------------

func TestSnappedToUnsnapped(t *testing.T) {
	h := NewHologram(cubeClass(), nil)
	rack := newRack(pose.Pose{}, 90)

	if !h.TrySnap(Hit{Actor: rack, Location: v3.Vec{X: 100}}) {
		t.Fatalf("TrySnap failed: %v", h.LastOutcome())
	}
	snappedPose := h.Pose()

	if h.TrySnap(Hit{Actor: &stubActor{name: "crate"}, Location: v3.Vec{Y: 5}}) {
		t.Fatal("TrySnap on plain actor succeeded")
	}
	if h.SnappedTarget() != nil || !h.UseFallbackSnapping() {
		t.Error("hologram still snapped after failed attempt")
	}
	if h.Pose() != snappedPose {
		t.Error("failed TrySnap moved the hologram")
	}
	if _, ok := h.Resolution(); ok {
		t.Error("Resolution() reported a snap after failure")
	}
}

func TestTrySnapIdempotent(t *testing.T) {
	h := NewHologram(cubeClass(), nil)
	rack := newRack(pose.Pose{Position: v3.Vec{Z: 3}, Rotation: pose.Rotator{Yaw: 30}}, 90)
	hit := Hit{Actor: rack, Location: rack.pose.LocalToWorld(v3.Vec{X: -20, Y: 50, Z: 10})}
	grid := h.OwnGrid()

	if !h.TrySnap(hit) {
		t.Fatalf("first TrySnap failed: %v", h.LastOutcome())
	}
	first, firstRes := h.Pose(), h.resolution

	if !h.TrySnap(hit) {
		t.Fatalf("second TrySnap failed: %v", h.LastOutcome())
	}
	if h.Pose() != first {
		t.Errorf("pose changed: %+v -> %+v", first, h.Pose())
	}
	if h.resolution != firstRes {
		t.Errorf("resolution changed: %+v -> %+v", firstRes, h.resolution)
	}
	if h.OwnGrid() != grid {
		t.Error("own grid changed across calls")
	}
}

func TestTargetGridReadEveryCall(t *testing.T) {
	h := NewHologram(cubeClass(), nil)
	rack := newRack(pose.Pose{}, 90)
	hit := Hit{Actor: rack, Location: v3.Vec{X: 100, Y: 10, Z: -10}}

	h.TrySnap(hit)
	h.TrySnap(hit)
	if rack.queries < 2 {
		t.Errorf("target grid queried %d times, want at least 2", rack.queries)
	}

	// Disabling X on the target moves the snap to another face.
	rack.params.Counts = slot.Counts{0, 2, 2}
	if !h.TrySnap(hit) {
		t.Fatalf("TrySnap failed: %v", h.LastOutcome())
	}
	if res, _ := h.Resolution(); res.Face.Axis() == slot.AxisX {
		t.Errorf("face = %v after disabling x", res.Face)
	}

	// A fully degenerate grid unsnaps.
	rack.params.Counts = slot.Counts{}
	if h.TrySnap(hit) {
		t.Fatal("TrySnap succeeded on a degenerate grid")
	}
}

// ---------------------------------------------------------------------------
// Rotation step, validity, destruction
// ---------------------------------------------------------------------------

func TestRotationStep(t *testing.T) {
	t.Run("snapped with default", func(t *testing.T) {
		h := NewHologram(cubeClass(), NewFreeBase(15))
		h.TrySnap(Hit{Actor: newRack(pose.Pose{}, 0), Location: v3.Vec{X: 100}})
		if got := h.RotationStep(); got != 180 {
			t.Errorf("RotationStep() = %d, want 180", got)
		}
	})
	t.Run("snapped with grid step", func(t *testing.T) {
		h := NewHologram(cubeClass(), NewFreeBase(15))
		h.TrySnap(Hit{Actor: newRack(pose.Pose{}, 45), Location: v3.Vec{X: 100}})
		if got := h.RotationStep(); got != 45 {
			t.Errorf("RotationStep() = %d, want 45", got)
		}
	})
	t.Run("unsnapped delegates", func(t *testing.T) {
		base := &recordingBase{FreeBase: NewFreeBase(15)}
		h := NewHologram(cubeClass(), base)
		if got := h.RotationStep(); got != 15 {
			t.Errorf("RotationStep() = %d, want 15", got)
		}
		if base.stepCalls != 1 {
			t.Errorf("base consulted %d times, want 1", base.stepCalls)
		}
	})
}

func TestDestroyedTargetIsForgotten(t *testing.T) {
	base := NewFreeBase(15)
	h := NewHologram(cubeClass(), base)
	rack := newRack(pose.Pose{}, 45)
	if !h.TrySnap(Hit{Actor: rack, Location: v3.Vec{X: 100}}) {
		t.Fatalf("TrySnap failed: %v", h.LastOutcome())
	}

	rack.dead = true
	if h.SnappedTarget() != nil {
		t.Error("destroyed target still referenced")
	}
	if got := h.RotationStep(); got != 15 {
		t.Errorf("RotationStep() = %d, want base step 15", got)
	}
	if _, ok := h.Resolution(); ok {
		t.Error("Resolution() reported a destroyed target")
	}
}

func TestIsValidHit(t *testing.T) {
	h := NewHologram(cubeClass(), nil)
	rack := newRack(pose.Pose{}, 0)
	crate := &stubActor{name: "crate"}
	ghost := &stubActor{name: "ghost", dead: true}

	tests := []struct {
		name string
		hit  Hit
		want bool
	}{
		{"slotted", Hit{Actor: rack}, true},
		{"plain", Hit{Actor: crate}, true},
		{"terrain", Hit{}, true},
		{"destroyed", Hit{Actor: ghost}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.IsValidHit(tt.hit); got != tt.want {
				t.Errorf("IsValidHit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdateFallsBackToBase(t *testing.T) {
	base := NewFreeBase(15)
	base.Scroll(2)
	h := NewHologram(cubeClass(), base)

	loc := v3.Vec{X: 3, Y: 4, Z: 0}
	if got := h.Update(Hit{Actor: &stubActor{name: "crate"}, Location: loc}); got != NotCapable {
		t.Errorf("Update() = %v, want %v", got, NotCapable)
	}
	want := pose.Pose{Position: loc, Rotation: pose.Rotator{Yaw: 30}}
	if diff := cmp.Diff(want, h.Pose(), tol); diff != "" {
		t.Errorf("fallback pose mismatch (-want +got):\n%s", diff)
	}

	if got := h.Update(Hit{Actor: newRack(pose.Pose{}, 90), Location: v3.Vec{X: 100}}); got != Snapped {
		t.Errorf("Update() = %v, want %v", got, Snapped)
	}
}

func TestOutcomeString(t *testing.T) {
	if Snapped.String() != "snapped" || DegenerateOwnFace.String() != "degenerate-own-face" {
		t.Error("unexpected outcome names")
	}
	if Outcome(99).String() != "unknown" {
		t.Error("out-of-range outcome not reported unknown")
	}
}
