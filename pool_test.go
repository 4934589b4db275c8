package svdag

import (
	"bytes"
	"testing"
)

// TestSerializeDeserializeRoundTrip covers P4 and S1's expected byte size.
func TestSerializeDeserializeRoundTrip(t *testing.T) {
	p := NewPool()
	idx := p.Append(NewNode([8]int32{LeafSentinel, 0, 0, 0, 0, 0, 0, 0}))
	p.SetRoot(int32(idx) + 1)

	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if buf.Len() != 40 {
		t.Fatalf("expected 40 bytes per S1, got %d", buf.Len())
	}

	loaded, err := Deserialize(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if loaded.Size() != p.Size() {
		t.Fatalf("size mismatch: got %d, want %d", loaded.Size(), p.Size())
	}
	for i := 0; i < p.Size(); i++ {
		a, _ := p.Get(i)
		b, _ := loaded.Get(i)
		if !a.Equal(b) {
			t.Fatalf("node %d mismatch after round trip", i)
		}
	}

	var buf2 bytes.Buffer
	if err := loaded.Serialize(&buf2); err != nil {
		t.Fatalf("re-serialize: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Fatalf("serialize(deserialize(serialize(p))) != serialize(p)")
	}
}

// TestSerializeDeserializeLargePool covers S3.
func TestSerializeDeserializeLargePool(t *testing.T) {
	p := NewPool()
	for i := 0; i < 1000; i++ {
		var n Node
		// Every positive slot must reference a strictly lower index (I1);
		// point each node's slot 0 back at the previous node when possible.
		if i > 0 {
			n.SetSlot(0, int32(i)) // 1-based index of node i-1
		}
		n.SetSlot(1, LeafSentinel)
		p.Append(n)
	}
	p.SetRoot(int32(p.Size()))

	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	loaded, err := Deserialize(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	var buf2 bytes.Buffer
	if err := loaded.Serialize(&buf2); err != nil {
		t.Fatalf("re-serialize: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		t.Fatalf("1000-node pool did not round trip byte-for-byte")
	}
}

func TestDeserializeRejectsInvariantViolation(t *testing.T) {
	p := NewPool()
	var bad Node
	bad.SetSlot(0, 5) // points forward / out of bounds: violates I1
	p.Append(bad)

	var buf bytes.Buffer
	if err := p.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if _, err := Deserialize(bytes.NewReader(buf.Bytes())); err == nil {
		t.Fatalf("expected invariant violation on load")
	}
}

// TestShiftIndexesInverse covers P6.
func TestShiftIndexesInverse(t *testing.T) {
	p := NewPool()
	p.Append(NewNode([8]int32{LeafSentinel, 0, 0, 0, 0, 0, 0, 0}))
	p.Append(NewNode([8]int32{1, 0, 0, 0, 0, 0, 0, 0}))
	p.SetRoot(2)

	original := p.Clone()
	p.ShiftIndexes(7)
	p.ShiftIndexes(-7)

	if p.Size() != original.Size() {
		t.Fatalf("size changed after shift/unshift")
	}
	for i := 0; i < p.Size(); i++ {
		a, _ := p.Get(i)
		b, _ := original.Get(i)
		if !a.Equal(b) {
			t.Fatalf("node %d changed after shift(%d)/shift(%d)", i, 7, -7)
		}
	}
	if p.Root() != original.Root() {
		t.Fatalf("root changed after shift/unshift: got %d want %d", p.Root(), original.Root())
	}
}

func TestVerifyInvariantCatchesBackReference(t *testing.T) {
	p := NewPool()
	var n0 Node
	n0.SetSlot(0, 2) // forward reference: node 0 cannot point to node 1
	p.Append(n0)
	p.Append(NewNode([8]int32{LeafSentinel, 0, 0, 0, 0, 0, 0, 0}))

	if err := p.VerifyInvariant(); err == nil {
		t.Fatalf("expected I1 violation")
	}
}
