package svdag

// DuplicateChild implements spec.md §4.6 duplicate_child: if
// pool[parentIdx].children[k] is zero or negative (leaf), the edit target is
// absent and no change is made. Otherwise the referenced child node is
// shallow-copied to the tail and the parent slot is repointed at the copy;
// the copy's own children still reference the original grandchildren, so
// shared substructure below the duplication point remains a DAG (spec.md §9
// "Shared subtrees / DAG").
func (p *Pool) DuplicateChild(parentIdx, k int) (newIndex int, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	parent, err := p.nodeAt(parentIdx)
	if err != nil {
		return 0, false, err
	}
	slot := parent.Slot(k)
	if slot <= 0 {
		return 0, false, nil
	}

	child, err := p.nodeAt(int(slot) - 1)
	if err != nil {
		return 0, false, err
	}
	idx := p.appendUnlocked(child)
	p.nodes[parentIdx].SetSlot(k, int32(idx)+1)
	return idx, true, nil
}

// SubdivideChild implements spec.md §4.6 subdivide_child: if the slot is
// zero, the edit target is absent. Otherwise a new interior node whose 8
// slots all equal the old slot value is appended, and the parent slot is
// repointed at it — the same volume is now represented one level deeper.
func (p *Pool) SubdivideChild(parentIdx, k int) (newIndex int, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	parent, err := p.nodeAt(parentIdx)
	if err != nil {
		return 0, false, err
	}
	v := parent.Slot(k)
	if v == 0 {
		return 0, false, nil
	}

	var n Node
	for s := 0; s < 8; s++ {
		n.SetSlot(s, v)
	}
	idx := p.appendUnlocked(n)
	p.nodes[parentIdx].SetSlot(k, int32(idx)+1)
	return idx, true, nil
}

// Combine merges other's graph into a copy of p, per spec.md §4.6 combine.
// Neither p nor other is mutated; other's nodes are copied in and shifted
// before merging (spec.md §9's open question: "the reference copies the
// graph in before shifting, so implementations should not mutate the
// argument"). If overwrite, conflicting leaf/interior pairs prefer other's
// side; otherwise solid (leaf) dominates. If recompress, the result is
// compacted with Compress before being returned.
func (p *Pool) Combine(other *Pool, overwrite, recompress bool) *Pool {
	result := p.Clone()
	shift := int32(result.Size())

	otherCopy := other.Clone()
	otherCopy.ShiftIndexes(shift)
	result.nodes = append(result.nodes, otherCopy.nodes...)

	newRoot := mergeSlots(result, result.root, otherCopy.root, overwrite)
	result.SetRoot(newRoot)

	if recompress {
		result = Compress(result)
	}
	return result
}

// mergeSlots implements the per-slot union rule spec.md §4.6 describes
// "starting from (root_a, root_b)" and recursively for every interior
// child-slot pair reached from there.
func mergeSlots(p *Pool, a, b int32, overwrite bool) int32 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}

	aLeaf, bLeaf := a < 0, b < 0
	switch {
	case aLeaf && bLeaf:
		if overwrite {
			return b
		}
		return a
	case !aLeaf && !bLeaf:
		an := p.nodes[a-1]
		bn := p.nodes[b-1]
		var out Node
		for k := 0; k < 8; k++ {
			out.SetSlot(k, mergeSlots(p, an.Slot(k), bn.Slot(k), overwrite))
		}
		idx := p.Append(out)
		return int32(idx) + 1
	default: // one leaf, one interior
		if overwrite {
			return b
		}
		if aLeaf {
			return a
		}
		return b
	}
}

// Subtract removes other's occupied regions from a copy of p, per spec.md
// §4.6 subtract. other is not mutated. If recompress, the result is
// compacted with Compress before being returned.
func (p *Pool) Subtract(other *Pool, recompress bool) *Pool {
	result := p.Clone()
	shift := int32(result.Size())

	otherCopy := other.Clone()
	otherCopy.ShiftIndexes(shift)
	result.nodes = append(result.nodes, otherCopy.nodes...)

	newRoot := subtractSlots(result, result.root, otherCopy.root)
	result.SetRoot(newRoot)

	if recompress {
		result = Compress(result)
	}
	return result
}

// subtractSlots implements the per-slot carve rule of spec.md §4.6 subtract.
func subtractSlots(p *Pool, a, b int32) int32 {
	if b == 0 {
		return a
	}
	if a == 0 {
		return 0
	}

	aLeaf, bLeaf := a < 0, b < 0
	switch {
	case aLeaf && bLeaf:
		return 0
	case !aLeaf && bLeaf:
		return 0
	case aLeaf && !bLeaf:
		// Substitute a with an all-leaf interior node (as subdivide), then
		// recurse so b's interior structure can carve into it.
		bn := p.nodes[b-1]
		var out Node
		for k := 0; k < 8; k++ {
			out.SetSlot(k, subtractSlots(p, a, bn.Slot(k)))
		}
		if out.IsEmpty() {
			return 0
		}
		idx := p.Append(out)
		return int32(idx) + 1
	default: // both interior
		an := p.nodes[a-1]
		bn := p.nodes[b-1]
		var out Node
		for k := 0; k < 8; k++ {
			out.SetSlot(k, subtractSlots(p, an.Slot(k), bn.Slot(k)))
		}
		if out.IsEmpty() {
			return 0
		}
		idx := p.Append(out)
		return int32(idx) + 1
	}
}
