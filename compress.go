package svdag

// Compress rewrites p into a fresh pool satisfying I3 (no two structurally
// equal nodes remain), discarding unreachable nodes, per spec.md §4.5.
//
// Algorithm (the reverse-post-order canonicalization spec.md §4.5 calls "the
// only correct shape"): walk the DAG from the root, children before parents;
// each node is visited exactly once (memoized by its old index); a visited
// node's positive slots are first rewritten to its children's already-known
// canonical indices, then the now-canonical node is looked up in a dedup map
// — present means reuse that index, absent means append to the output pool
// and register it.
//
// Compress is idempotent and unreachable-node-pruning: the returned pool's
// size equals the count of distinct reachable subtrees.
func Compress(p *Pool) *Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := NewPool()
	dedup := newDedupMap()
	visited := make(map[int32]int32) // old 1-based slot value -> new 1-based slot value

	var visit func(slot int32) int32
	visit = func(slot int32) int32 {
		if slot <= 0 {
			return slot // empty or leaf: unchanged
		}
		if canon, ok := visited[slot]; ok {
			return canon
		}

		oldIdx := int(slot) - 1
		n := p.nodes[oldIdx]

		var rewritten Node
		for k := 0; k < 8; k++ {
			rewritten.SetSlot(k, visit(n.Slot(k)))
		}

		var canon int32
		if idx, ok := dedup.lookup(rewritten); ok {
			canon = int32(idx) + 1
		} else {
			idx := out.Append(rewritten)
			dedup.insert(rewritten, idx)
			canon = int32(idx) + 1
		}
		visited[slot] = canon
		return canon
	}

	out.SetRoot(visit(p.root))
	return out
}
