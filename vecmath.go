package svdag

import "github.com/golang/geo/r3"

// Cube is an axis-aligned bounding cube described by its center and
// half-edge length, matching the (corner, edge length) inputs spec.md §4.3
// and §4.4 describe, expressed in the center/half-edge form the octant
// recursion actually needs at every level.
type Cube struct {
	Center   r3.Vector
	HalfEdge float64
}

// octantOffset returns the unit corner-sign vector for child k: the X/Y/Z
// sign bits are (k&1, (k>>1)&1, (k>>2)&1), per spec.md §3 "Octant ordering".
// This exact ordering is load-bearing: every builder, editor, and traversal
// must agree on it or the DAG's structural sharing silently breaks.
func octantOffset(k int) r3.Vector {
	sx := -1.0
	if k&1 != 0 {
		sx = 1.0
	}
	sy := -1.0
	if (k>>1)&1 != 0 {
		sy = 1.0
	}
	sz := -1.0
	if (k>>2)&1 != 0 {
		sz = 1.0
	}
	return r3.Vector{X: sx, Y: sy, Z: sz}
}

// Child returns the sub-cube occupied by octant k of c.
func (c Cube) Child(k int) Cube {
	half := c.HalfEdge / 2
	offset := octantOffset(k).Mul(half)
	return Cube{Center: c.Center.Add(offset), HalfEdge: half}
}

// Min returns the cube's minimum corner.
func (c Cube) Min() r3.Vector {
	return c.Center.Sub(r3.Vector{X: c.HalfEdge, Y: c.HalfEdge, Z: c.HalfEdge})
}

// Max returns the cube's maximum corner.
func (c Cube) Max() r3.Vector {
	return c.Center.Add(r3.Vector{X: c.HalfEdge, Y: c.HalfEdge, Z: c.HalfEdge})
}
