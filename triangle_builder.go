package svdag

import "context"

// Progress receives a monotonic count of completed leaf-level evaluations
// during BuildTriangles. It is purely observational — spec.md §4.4 and §5
// both note it cannot abort a build; it exists for front-ends (e.g. a CLI)
// to report progress.
type Progress func(completed uint64)

// BuildTriangles voxelizes scene into a fresh Pool by recursive octant
// subdivision with triangle-cube SAT intersection at each node, per spec.md
// §4.4. At depth 0 the candidate set is the whole scene; a triangle survives
// into a child octant iff IntersectsCube reports overlap with that child's
// cube. progress may be nil.
//
// Dedup mirrors BuildSDF (§4.3): because triangle-derived subtrees rarely
// match high in the tree but often do near the leaves, most of the
// compression this builder buys happens in the bottom few levels.
func BuildTriangles(ctx context.Context, depth int, cube Cube, scene Scene, progress Progress) (*Pool, error) {
	if depth < 0 {
		return nil, ErrInvalidDepth
	}
	if cube.HalfEdge <= 0 {
		return nil, ErrZeroCube
	}

	candidates := make([]int, scene.TriangleCount())
	for i := range candidates {
		candidates[i] = i
	}

	p := NewPool()
	dedup := newDedupMap()
	var completed uint64

	root, err := triRecurse(ctx, p, dedup, scene, 0, depth, cube, candidates, progress, &completed)
	if err != nil {
		return p, err
	}
	p.SetRoot(root)
	return p, nil
}

func triRecurse(ctx context.Context, p *Pool, dedup *dedupMap, scene Scene, depth, maxDepth int, cube Cube, candidates []int, progress Progress, completed *uint64) (int32, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	if len(candidates) == 0 {
		return 0, nil
	}

	if depth == maxDepth {
		*completed++
		if progress != nil {
			progress(*completed)
		}
		return LeafSentinel, nil
	}

	var n Node
	any := false
	for k := 0; k < 8; k++ {
		child := cube.Child(k)
		subset := overlapping(scene, candidates, child)
		v, err := triRecurse(ctx, p, dedup, scene, depth+1, maxDepth, child, subset, progress, completed)
		if err != nil {
			return 0, err
		}
		if v != 0 {
			any = true
		}
		n.SetSlot(k, v)
	}

	if !any {
		return 0, nil
	}

	if idx, ok := dedup.lookup(n); ok {
		return int32(idx) + 1, nil
	}
	idx := p.Append(n)
	dedup.insert(n, idx)
	return int32(idx) + 1, nil
}

// overlapping returns the subset of candidates whose triangle intersects cube.
func overlapping(scene Scene, candidates []int, cube Cube) []int {
	out := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if IntersectsCube(scene.Triangle(i), cube) {
			out = append(out, i)
		}
	}
	return out
}
