package main

import (
	"fmt"

	"github.com/chazu/slotsnap/pkg/scene"
	"github.com/chazu/slotsnap/pkg/snap"
)

// replay drives a hologram of mover through the scene's steps. Actors are
// resolved up front, so a probe naming a destroyed actor still hits the
// stale object, the way a held reference would.
func replay(sc *scene.Scene, mover *scene.Class, base *snap.FreeBase) (*snap.Hologram, []StepResult, error) {
	h := snap.NewHologram(mover.Default(), base)

	known := make(map[string]scene.Object)
	for _, a := range sc.Actors() {
		known[a.Name()] = a
	}

	var (
		results = []StepResult{}
		lastHit *snap.Hit
	)
	for i, st := range sc.Steps() {
		r := StepResult{Index: i, Kind: st.Kind.String(), Target: st.Target}

		switch st.Kind {
		case scene.StepProbe:
			hit := snap.Hit{Location: st.Location}
			if st.Target != "" {
				a, ok := known[st.Target]
				if !ok {
					return nil, nil, fmt.Errorf("step %d: actor %q: %w", i, st.Target, scene.ErrNotFound)
				}
				hit.Actor = a
			}
			lastHit = &hit
			r.Valid = h.IsValidHit(hit)
			r.Outcome = h.Update(hit).String()

		case scene.StepScroll:
			base.Scroll(st.Scroll)
			if lastHit != nil {
				r.Valid = h.IsValidHit(*lastHit)
				r.Outcome = h.Update(*lastHit).String()
			} else {
				r.Outcome = h.LastOutcome().String()
			}

		case scene.StepDestroy:
			if err := sc.Remove(st.Target); err != nil {
				return nil, nil, fmt.Errorf("step %d: %w", i, err)
			}
			r.Outcome = h.LastOutcome().String()
		}

		fill(&r, h)
		results = append(results, r)
	}
	return h, results, nil
}

// fill copies the hologram state into a step result.
func fill(r *StepResult, h *snap.Hologram) {
	r.Pose = h.Pose()
	r.RotationStep = h.RotationStep()
	if t := h.SnappedTarget(); t != nil {
		r.SnappedTarget = t.Name()
	}
	if res, ok := h.Resolution(); ok {
		r.Face = res.Face.String()
		target, own := res.TargetAnchor, res.OwnAnchor
		r.TargetAnchor = &target
		r.OwnAnchor = &own
	}
}
