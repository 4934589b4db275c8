package svdag

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// LeafSentinel is the canonical negative slot value this package's own
// builders emit for a solid leaf octant with no payload. Any negative slot
// value is treated as a leaf by IsLeafSlot so that a caller encoding a payload
// id (e.g. -(materialID+1)) is not rejected.
const LeafSentinel int32 = -1

// Node is a fixed record of 8 child slots. Slot k corresponds to the octant
// whose corner signs are (k&1, (k>>1)&1, (k>>2)&1) applied to X/Y/Z.
//
//   - 0 — empty, no geometry in that octant.
//   - negative — leaf: the octant is solid; magnitude may carry a payload id.
//   - positive — the 1-based index of a child Node in the same Pool: slot
//     value v refers to pool.nodes[v-1].
type Node struct {
	children [8]int32
}

// NewNode builds a Node from 8 slots, in canonical octant order.
func NewNode(slots [8]int32) Node {
	return Node{children: slots}
}

// Slot returns the value of child k. Panics if k is out of [0,8) — an
// out-of-range index is a programming error, not a recoverable condition.
func (n Node) Slot(k int) int32 {
	return n.children[k]
}

// SetSlot writes the value of child k. Panics if k is out of [0,8).
func (n *Node) SetSlot(k int, v int32) {
	n.children[k] = v
}

// IsEmpty reports whether every slot is 0.
func (n Node) IsEmpty() bool {
	return n == Node{}
}

// IsLeafSlot reports whether slot value v denotes a leaf (any negative).
func IsLeafSlot(v int32) bool {
	return v < 0
}

// IsPointerSlot reports whether slot value v denotes a pointer to another node.
func IsPointerSlot(v int32) bool {
	return v > 0
}

// Equal reports structural equality: all 8 slots compare equal element-wise.
func (n Node) Equal(other Node) bool {
	return n == other
}

// Hash computes the 32-bit MurmurHash3 (x86_32, seed 0) fingerprint of the
// node's 8 slots packed as little-endian int32 words — the same 32-byte
// layout Serialize writes per node. Build-time dedup and persisted test
// fixtures both depend on bit-exact hashes.
func (n Node) Hash() uint32 {
	var buf [32]byte
	for k, slot := range n.children {
		binary.LittleEndian.PutUint32(buf[k*4:k*4+4], uint32(slot))
	}
	return murmur3.Sum32(buf[:])
}
