package svdag

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// Pool is an append-only array of Nodes plus an explicit root index —
// spec.md's Design Notes "strongly prefer" tracking the root this way over
// the fragile "last node" convention, since edits no longer guarantee the
// root stays at the tail.
//
// mu guards nodes and root against the concurrency model spec.md §5
// describes: builders/editors hold exclusive access for the duration of a
// top-level call, while Traverse (and other read-only operations) may run
// concurrently with each other against an unchanging Pool. Every exported
// method that is an entry point for external callers takes the
// corresponding lock itself; internal recursive helpers use the unexported,
// unlocked nodeAt accessor so a top-level call's single lock acquisition
// covers its whole recursion instead of re-entering the mutex.
type Pool struct {
	mu    sync.RWMutex
	nodes []Node
	root  int32 // 1-based, 0 means "empty pool"
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Size returns the number of nodes in the pool.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.nodes)
}

// Root returns the 1-based root slot value (0 if the pool is empty), in the
// same encoding as a node child slot: 0 empty, negative leaf, positive
// pointer (1-based index into the pool).
func (p *Pool) Root() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.root
}

// SetRoot sets the root slot value directly. Used by builders and the
// editor after they have computed a new root.
func (p *Pool) SetRoot(v int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = v
}

// Get returns the node at the given 0-based index, bounds-checked. It is
// safe to call concurrently with other readers of an unchanging Pool.
func (p *Pool) Get(i int) (Node, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nodeAt(i)
}

// nodeAt is the unlocked bounds-checked accessor used by recursive internal
// helpers that already run under a caller-held lock (DuplicateChild,
// SubdivideChild, Traverse's descent) — calling the locking Get from inside
// one of those would re-enter p.mu on the same goroutine and deadlock.
func (p *Pool) nodeAt(i int) (Node, error) {
	if i < 0 || i >= len(p.nodes) {
		return Node{}, errors.Wrapf(ErrInvalidIndex, "index %d, size %d", i, len(p.nodes))
	}
	return p.nodes[i], nil
}

// Append adds n to the tail of the pool and returns its new 0-based index.
// Preserves I1 only if the caller supplies child indices referencing
// already-appended nodes (index < current size).
func (p *Pool) Append(n Node) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.appendUnlocked(n)
}

// appendUnlocked is Append's body without the lock, for callers (editor
// methods) that already hold p.mu for the duration of a top-level call.
func (p *Pool) appendUnlocked(n Node) int {
	p.nodes = append(p.nodes, n)
	return len(p.nodes) - 1
}

// ShiftIndexes adds k to every positive (pointer) slot of every node in the
// pool; negative and zero slots are unchanged. Used when concatenating two
// pools (Combine, Subtract) so that a copied-in subgraph's internal
// references remain valid at their new offset.
func (p *Pool) ShiftIndexes(k int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.nodes {
		for s := 0; s < 8; s++ {
			v := p.nodes[i].children[s]
			if v > 0 {
				p.nodes[i].children[s] = v + k
			}
		}
	}
	if p.root > 0 {
		p.root += k
	}
}

// Clone returns a deep copy of the pool. Taking the read lock here is what
// makes Combine/Subtract's "copy other in before shifting" step
// (spec.md §9) safe against a concurrent mutation of the source pool.
func (p *Pool) Clone() *Pool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := &Pool{nodes: make([]Node, len(p.nodes)), root: p.root}
	copy(out.nodes, p.nodes)
	return out
}

// VerifyInvariant checks I1: every positive slot v in any node references an
// index v' (0-based, v'=v-1) that is both in-bounds and strictly less than
// the owning node's own index.
func (p *Pool) VerifyInvariant() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i, n := range p.nodes {
		for s := 0; s < 8; s++ {
			v := n.children[s]
			if v <= 0 {
				continue
			}
			target := int(v) - 1
			if target >= len(p.nodes) || target >= i {
				return errors.Wrapf(ErrInvariantViolation, "node %d slot %d -> %d", i, s, v)
			}
		}
	}
	if int(p.root) > len(p.nodes) {
		return errors.Wrapf(ErrInvariantViolation, "root %d exceeds pool size %d", p.root, len(p.nodes))
	}
	return nil
}

// Serialize writes the pool per spec.md §6.2: 8 bytes little-endian node
// count, then node_count*32 bytes of raw node records (8 little-endian
// int32 slots each). The root is not part of the persisted format — callers
// that need the root across a save/load cycle must track it separately
// (the reference format has no header or version field).
func (p *Pool) Serialize(w io.Writer) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(p.nodes)))
	if _, err := w.Write(countBuf[:]); err != nil {
		return errors.Wrap(err, "svdag: write node count")
	}

	buf := make([]byte, 32)
	for _, n := range p.nodes {
		for s := 0; s < 8; s++ {
			binary.LittleEndian.PutUint32(buf[s*4:s*4+4], uint32(n.children[s]))
		}
		if _, err := w.Write(buf); err != nil {
			return errors.Wrap(err, "svdag: write node")
		}
	}
	return nil
}

// Deserialize is the inverse of Serialize. It verifies I1 after loading and
// returns ErrInvariantViolation if it does not hold. Since the format stores
// no root, the loaded pool's root is set to its last node (slot value
// node_count), or 0 for an empty pool.
func Deserialize(r io.Reader) (*Pool, error) {
	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return nil, errors.Wrap(err, "svdag: read node count")
	}
	count := binary.LittleEndian.Uint64(countBuf[:])

	nodes := make([]Node, count)
	buf := make([]byte, 32)
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, errors.Wrapf(err, "svdag: read node %d", i)
		}
		var n Node
		for s := 0; s < 8; s++ {
			n.children[s] = int32(binary.LittleEndian.Uint32(buf[s*4 : s*4+4]))
		}
		nodes[i] = n
	}

	p := &Pool{nodes: nodes}
	if count > 0 {
		p.root = int32(count)
	}
	if err := p.VerifyInvariant(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save serializes the pool to the file at path, truncating any existing
// content.
func (p *Pool) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "svdag: create output file")
	}
	defer f.Close()
	return p.Serialize(f)
}

// Load reads and verifies a pool previously written by Save. It also checks
// that the file size matches 8+32*node_count exactly, per spec.md §6.2.
func Load(path string) (*Pool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "svdag: stat input file")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "svdag: open input file")
	}
	defer f.Close()

	var countBuf [8]byte
	if _, err := io.ReadFull(f, countBuf[:]); err != nil {
		return nil, errors.Wrap(err, "svdag: read node count")
	}
	count := binary.LittleEndian.Uint64(countBuf[:])
	want := int64(8 + 32*count)
	if info.Size() != want {
		return nil, errors.Wrapf(ErrShortFile, "file is %d bytes, want %d", info.Size(), want)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "svdag: seek input file")
	}
	return Deserialize(f)
}
