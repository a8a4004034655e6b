// Package slot describes discrete anchor grids on the faces of a box and
// finds the grid point nearest to a probe. Everything in this package works
// in the owning object's local frame; placing results in the world is the
// caller's job.
package slot
