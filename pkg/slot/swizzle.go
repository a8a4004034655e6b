package slot

import v3 "github.com/deadsy/sdfx/vec/v3"

// floorMod is i mod n with a result in [0, n) for negative i as well.
func floorMod(i, n int) int {
	return (i%n + n) % n
}

func swizzle[T any](c [3]T, s int) [3]T {
	return [3]T{c[floorMod(s, 3)], c[floorMod(s+1, 3)], c[floorMod(s+2, 3)]}
}

// Swizzle cyclically permutes v so that component s becomes X. Code that
// treats X as the face normal and Y/Z as the face plane runs on any axis by
// swizzling inputs by s and outputs back by -s.
func Swizzle(v v3.Vec, s int) v3.Vec {
	return fromArray(swizzle(toArray(v), s))
}

func toArray(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func fromArray(a [3]float64) v3.Vec {
	return v3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func component(v v3.Vec, a Axis) float64 {
	return toArray(v)[a]
}
