package svdag

import (
	"context"

	"github.com/golang/geo/r3"
)

// Inside is a volumetric predicate: it reports whether the cube described by
// center and halfEdge is solid. BuildSDF calls it once per leaf voxel at
// depth D only; interior levels are never passed to it, so it cannot prune a
// uniform region before the recursion reaches D.
type Inside func(center r3.Vector, halfEdge float64) bool

// BuildSDF builds a fresh Pool from a volumetric predicate, per spec.md
// §4.3. depth is the number of octree levels below the root (D >= 0); cube
// is the root bounding cube. Candidate nodes are deduplicated on the fly via
// a dedup map, mirroring the teacher's buildRecursive/AddNode shape: each
// recursive call either returns an existing canonical index or appends a new
// node and registers it.
//
// ctx is checked once per recursive call (not inside the per-octant loop),
// matching the teacher's ctx.Done() check granularity; this is additive to
// spec.md (the reference builder has no cancellation), so a cancelled build
// returns ctx.Err() with the pool left valid but partial, per spec.md §7.
func BuildSDF(ctx context.Context, depth int, cube Cube, inside Inside) (*Pool, error) {
	if depth < 0 {
		return nil, ErrInvalidDepth
	}
	if cube.HalfEdge <= 0 {
		return nil, ErrZeroCube
	}

	p := NewPool()
	dedup := newDedupMap()

	root, err := sdfRecurse(ctx, p, dedup, 0, depth, cube, inside)
	if err != nil {
		return p, err
	}
	p.SetRoot(root)
	return p, nil
}

func sdfRecurse(ctx context.Context, p *Pool, dedup *dedupMap, depth, maxDepth int, cube Cube, inside Inside) (int32, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	if depth == maxDepth {
		if inside(cube.Center, cube.HalfEdge) {
			return LeafSentinel, nil
		}
		return 0, nil
	}

	var n Node
	for k := 0; k < 8; k++ {
		child := cube.Child(k)
		v, err := sdfRecurse(ctx, p, dedup, depth+1, maxDepth, child, inside)
		if err != nil {
			return 0, err
		}
		n.SetSlot(k, v)
	}

	if n.IsEmpty() {
		return 0, nil
	}
	// Reference policy: do NOT collapse a uniform-solid interior node into a
	// single leaf sentinel — keeping depth uniform simplifies traversal
	// (spec.md §4.3, §9 open question).

	if idx, ok := dedup.lookup(n); ok {
		return int32(idx) + 1, nil
	}
	idx := p.Append(n)
	dedup.insert(n, idx)
	return int32(idx) + 1, nil
}
