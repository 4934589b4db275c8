// Package svdag implements a Sparse Voxel Directed Acyclic Graph engine: a
// compressed octree representation in which structurally identical subtrees
// are deduplicated into a single shared node.
//
// # Overview
//
// A Pool holds an append-only array of 8-slot Nodes. Builders (BuildSDF,
// BuildTriangles) populate a Pool from a volumetric predicate or a triangle
// scene, deduplicating as they go. Compress canonicalizes an existing Pool so
// that no two structurally equal nodes remain. Editor operations
// (DuplicateChild, SubdivideChild, Combine, Subtract) mutate a Pool while
// preserving its invariants. Traverse walks a Pool along a ray to find the
// first solid voxel.
//
// # Basic usage
//
//	pool, err := svdag.BuildSDF(ctx, 3, cube, func(c r3.Vector, half float64) bool {
//		return c.Norm() <= half*4
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	pool = svdag.Compress(pool)
//	hit, ok, err := pool.Traverse(origin, direction, cube, 3, 1000)
//
// # Concurrency
//
// Pool mutation (builders, Compress, the Editor) is single-threaded and
// synchronous; callers must not invoke them concurrently on the same Pool.
// Traverse is read-only and may run concurrently with other Traverse calls
// against an unchanging Pool.
package svdag

import "errors"

// Sentinel errors returned by this package. Wrap with
// github.com/pkg/errors.Wrap to attach call-site context.
var (
	// ErrInvalidIndex indicates a node index is out of bounds for a pool.
	ErrInvalidIndex = errors.New("svdag: invalid node index")

	// ErrInvariantViolation indicates a loaded or constructed pool fails I1
	// (every positive slot must reference a lower, in-bounds index).
	ErrInvariantViolation = errors.New("svdag: pool violates topological invariant")

	// ErrShortFile indicates a serialized pool's byte length does not match
	// its declared node count.
	ErrShortFile = errors.New("svdag: file size does not match node count")

	// ErrInvalidDepth indicates a negative depth was supplied to a builder.
	ErrInvalidDepth = errors.New("svdag: depth must be >= 0")

	// ErrZeroCube indicates a bounding cube with a non-positive half-edge.
	ErrZeroCube = errors.New("svdag: bounding cube must have a positive half-edge")

	// ErrZeroDirection indicates a zero ray direction was supplied to Traverse.
	ErrZeroDirection = errors.New("svdag: ray direction must be non-zero")
)
