package slot

import v3 "github.com/deadsy/sdfx/vec/v3"

// Fraction places bin i of n at its center in (-1, 1). Bins are 2/n wide,
// so the outermost centers sit at ±(n-1)/n.
func Fraction(i, n int) float64 {
	return float64(2*i+1-n) / float64(n)
}

// Candidates returns every slot position on a face, scanning u (the first
// in-plane axis after swizzling) in the outer loop. It returns nil when the
// face's normal axis carries no grid. A disabled in-plane axis collapses to
// a single centered row.
func Candidates(p Params, face SignedAxis) []v3.Vec {
	axis := int(face.Axis())
	dims := p.Counts.Swizzle(axis)
	if dims[0] <= 0 {
		return nil
	}
	numU := max(dims[1], 1)
	numV := max(dims[2], 1)
	sign := float64(face.Sign())

	out := make([]v3.Vec, 0, numU*numV)
	for u := 0; u < numU; u++ {
		fu := Fraction(u, numU)
		for v := 0; v < numV; v++ {
			local := Swizzle(v3.Vec{X: sign, Y: fu, Z: Fraction(v, numV)}, -axis)
			out = append(out, p.BoxCenter.Add(p.BoxExtent.Mul(local)))
		}
	}
	return out
}

// ClosestSlot returns the slot on face nearest to ref. Equal distances keep
// the first candidate in scan order. It reports false when the face has no
// grid.
func ClosestSlot(p Params, ref v3.Vec, face SignedAxis) (v3.Vec, bool) {
	var (
		best    v3.Vec
		bestD2  float64
		visited bool
	)
	for _, c := range Candidates(p, face) {
		d := c.Sub(ref)
		d2 := d.Dot(d)
		if !visited || d2 < bestD2 {
			best, bestD2, visited = c, d2, true
		}
	}
	return best, visited
}
