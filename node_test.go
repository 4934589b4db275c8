package svdag

import "testing"

func TestNodeEquality(t *testing.T) {
	a := NewNode([8]int32{LeafSentinel, 0, 0, 0, 0, 0, 0, 0})
	b := NewNode([8]int32{LeafSentinel, 0, 0, 0, 0, 0, 0, 0})
	c := NewNode([8]int32{0, LeafSentinel, 0, 0, 0, 0, 0, 0})

	if !a.Equal(b) {
		t.Fatalf("expected a == b")
	}
	if a.Equal(c) {
		t.Fatalf("expected a != c")
	}
}

func TestNodeIsEmpty(t *testing.T) {
	var empty Node
	if !empty.IsEmpty() {
		t.Fatalf("zero-value node should be empty")
	}

	solid := NewNode([8]int32{LeafSentinel, 0, 0, 0, 0, 0, 0, 0})
	if solid.IsEmpty() {
		t.Fatalf("node with a leaf slot should not be empty")
	}
}

func TestNodeHashStable(t *testing.T) {
	a := NewNode([8]int32{1, -1, 0, 2, -3, 0, 0, 4})
	b := NewNode([8]int32{1, -1, 0, 2, -3, 0, 0, 4})
	if a.Hash() != b.Hash() {
		t.Fatalf("identical nodes must hash identically")
	}
}

func TestNodeHashDistinguishesSlots(t *testing.T) {
	seen := make(map[uint32]Node)
	nodes := []Node{
		NewNode([8]int32{LeafSentinel, 0, 0, 0, 0, 0, 0, 0}),
		NewNode([8]int32{0, LeafSentinel, 0, 0, 0, 0, 0, 0}),
		NewNode([8]int32{0, 0, LeafSentinel, 0, 0, 0, 0, 0}),
		NewNode([8]int32{1, 2, 3, 4, 5, 6, 7, 8}),
		NewNode([8]int32{8, 7, 6, 5, 4, 3, 2, 1}),
	}
	for _, n := range nodes {
		h := n.Hash()
		if prior, ok := seen[h]; ok && !prior.Equal(n) {
			t.Fatalf("hash collision between distinct nodes %v and %v (acceptable in principle, but these fixtures were chosen to avoid it)", prior, n)
		}
		seen[h] = n
	}
}

func TestIsLeafSlotAcceptsAnyNegative(t *testing.T) {
	if !IsLeafSlot(-1) {
		t.Fatalf("-1 must be a leaf slot")
	}
	if !IsLeafSlot(-42) {
		t.Fatalf("a negative payload-carrying slot must still be a leaf slot")
	}
	if IsLeafSlot(0) {
		t.Fatalf("0 is empty, not a leaf")
	}
	if IsLeafSlot(3) {
		t.Fatalf("a positive slot is a pointer, not a leaf")
	}
}

func TestIsPointerSlot(t *testing.T) {
	if !IsPointerSlot(1) {
		t.Fatalf("positive slot must be a pointer")
	}
	if IsPointerSlot(0) || IsPointerSlot(-1) {
		t.Fatalf("0 and negative slots must not be pointers")
	}
}
