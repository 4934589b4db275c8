package svdag

import (
	"math"

	"github.com/golang/geo/r3"
)

// Traverse finds the first solid voxel a ray crosses, using the classic
// parametric octree traversal (Revelles, Ureña & Lastra, "An Efficient
// Parametric Algorithm for Octree Traversal"), per spec.md §4.7. direction
// need not be unit length but must be non-zero. maxDepth bounds recursion
// (an interior node reached at maxDepth is treated as a leaf); maxDist caps
// the returned hit's ray parameter.
//
// Traverse only reads the pool; it is safe to call concurrently with other
// Traverse calls on an unchanging Pool (spec.md §5).
func (p *Pool) Traverse(origin, direction r3.Vector, cube Cube, maxDepth int, maxDist float64) (r3.Vector, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if direction == (r3.Vector{}) {
		return r3.Vector{}, false, ErrZeroDirection
	}
	if maxDepth < 0 {
		return r3.Vector{}, false, ErrInvalidDepth
	}
	if cube.HalfEdge <= 0 {
		return r3.Vector{}, false, ErrZeroCube
	}

	ox, oy, oz := origin.X, origin.Y, origin.Z
	dx, dy, dz := direction.X, direction.Y, direction.Z

	// Step 1: reflect negative direction components, accumulating a
	// per-axis mirror mask so child indexing can be untransformed later.
	var mirror int32
	if dx < 0 {
		ox = 2*cube.Center.X - ox
		dx = -dx
		mirror |= 1
	}
	if dy < 0 {
		oy = 2*cube.Center.Y - oy
		dy = -dy
		mirror |= 2
	}
	if dz < 0 {
		oz = 2*cube.Center.Z - oz
		dz = -dz
		mirror |= 4
	}

	// A zero direction component is nudged to a tiny epsilon rather than
	// handled as a special case: this keeps every subsequent t0/t1/midpoint
	// computation finite (no inf-inf NaNs) while the resulting, very large
	// finite t-range still correctly encodes which half of that axis the
	// ray sits in for its entire length.
	const epsDir = 1e-12
	if dx == 0 {
		dx = epsDir
	}
	if dy == 0 {
		dy = epsDir
	}
	if dz == 0 {
		dz = epsDir
	}

	min, max := cube.Min(), cube.Max()
	tx0, tx1 := axisEntryExit(ox, dx, min.X, max.X)
	ty0, ty1 := axisEntryExit(oy, dy, min.Y, max.Y)
	tz0, tz1 := axisEntryExit(oz, dz, min.Z, max.Z)

	t0 := math.Max(tx0, math.Max(ty0, tz0))
	t1 := math.Min(tx1, math.Min(ty1, tz1))
	if t0 >= t1 || t1 < 0 {
		return r3.Vector{}, false, nil
	}

	hitT, hit, err := p.procSubtree(p.root, 0, maxDepth, tx0, ty0, tz0, tx1, ty1, tz1, mirror)
	if err != nil {
		return r3.Vector{}, false, err
	}
	if !hit || hitT > maxDist {
		return r3.Vector{}, false, nil
	}
	return origin.Add(direction.Mul(hitT)), true, nil
}

// axisEntryExit returns the parametric entry/exit values for a ray
// component (o,d) against the slab [lo,hi].
func axisEntryExit(o, d, lo, hi float64) (float64, float64) {
	inv := 1 / d
	return (lo - o) * inv, (hi - o) * inv
}

// procSubtree descends the octree in the order the ray crosses child
// bounding planes, returning the entry parameter of the first solid leaf
// found, or ok=false if the ray misses every solid region in this subtree.
func (p *Pool) procSubtree(slot int32, depth, maxDepth int, tx0, ty0, tz0, tx1, ty1, tz1 float64, mirror int32) (float64, bool, error) {
	if tx1 < 0 || ty1 < 0 || tz1 < 0 {
		return 0, false, nil
	}
	if slot == 0 {
		return 0, false, nil
	}

	entry := math.Max(tx0, math.Max(ty0, tz0))
	if slot < 0 || depth >= maxDepth {
		return entry, true, nil
	}

	node, err := p.nodeAt(int(slot) - 1)
	if err != nil {
		return 0, false, err
	}

	txm := 0.5 * (tx0 + tx1)
	tym := 0.5 * (ty0 + ty1)
	tzm := 0.5 * (tz0 + tz1)

	current := firstOctant(tx0, ty0, tz0, txm, tym, tzm)
	for current < 8 {
		xlo, xhi := tx0, txm
		if current&1 != 0 {
			xlo, xhi = txm, tx1
		}
		ylo, yhi := ty0, tym
		if current&2 != 0 {
			ylo, yhi = tym, ty1
		}
		zlo, zhi := tz0, tzm
		if current&4 != 0 {
			zlo, zhi = tzm, tz1
		}

		childSlot := node.Slot(int(current ^ mirror))
		t, hit, err := p.procSubtree(childSlot, depth+1, maxDepth, xlo, ylo, zlo, xhi, yhi, zhi, mirror)
		if err != nil {
			return 0, false, err
		}
		if hit {
			return t, true, nil
		}
		current = nextOctant(current, txm, tym, tzm, tx1, ty1, tz1)
	}
	return 0, false, nil
}

// firstOctant determines which of the 8 child octants the ray enters first,
// by finding the entry plane (the axis whose t0 is largest) and testing
// whether the other two axes' mid-planes have already been crossed by then.
func firstOctant(tx0, ty0, tz0, txm, tym, tzm float64) int32 {
	var answer int32
	if tx0 > ty0 {
		if tx0 > tz0 { // entry is through the YZ plane
			if tym < tx0 {
				answer |= 2
			}
			if tzm < tx0 {
				answer |= 4
			}
			return answer
		}
	} else if ty0 > tz0 { // entry is through the XZ plane
		if txm < ty0 {
			answer |= 1
		}
		if tzm < ty0 {
			answer |= 4
		}
		return answer
	}
	// entry is through the XY plane
	if txm < tz0 {
		answer |= 1
	}
	if tym < tz0 {
		answer |= 2
	}
	return answer
}

// nextOctant advances from octant n to whichever neighbor the ray crosses
// into next, or returns 8 if the ray has exited the parent cube. For each
// axis whose bit is already set in n, continuing past that axis's mid-plane
// means leaving the cube entirely on that axis, so its exit candidate is the
// cube's own far boundary (tx1/ty1/tz1) and advancing past it terminates
// the walk.
func nextOctant(n int32, txm, tym, tzm, tx1, ty1, tz1 float64) int32 {
	xExit, xVal := txm, n|1
	if n&1 != 0 {
		xExit, xVal = tx1, 8
	}
	yExit, yVal := tym, n|2
	if n&2 != 0 {
		yExit, yVal = ty1, 8
	}
	zExit, zVal := tzm, n|4
	if n&4 != 0 {
		zExit, zVal = tz1, 8
	}

	if xExit < yExit {
		if xExit < zExit {
			return xVal
		}
		return zVal
	}
	if yExit < zExit {
		return yVal
	}
	return zVal
}
