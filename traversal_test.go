package svdag

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func approxEqual(a, b r3.Vector, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

// TestTraverseSingleOctantHit covers S4: a ray aimed squarely down the X
// axis at a solid single-octant pool hits at the octant's boundary plane.
func TestTraverseSingleOctantHit(t *testing.T) {
	cube := Cube{Center: r3.Vector{}, HalfEdge: 1}
	inside := func(c r3.Vector, half float64) bool {
		return c.X < 0 && c.Y < 0 && c.Z < 0
	}
	p, err := BuildSDF(context.Background(), 1, cube, inside)
	if err != nil {
		t.Fatalf("BuildSDF: %v", err)
	}
	p = Compress(p)

	origin := r3.Vector{X: -2, Y: -0.5, Z: -0.5}
	direction := r3.Vector{X: 1, Y: 0, Z: 0}
	hit, ok, err := p.Traverse(origin, direction, cube, 1, 1000)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if !ok {
		t.Fatalf("expected a hit")
	}
	want := r3.Vector{X: -1, Y: -0.5, Z: -0.5}
	if !approxEqual(hit, want, 1e-9) {
		t.Fatalf("hit = %v, want %v", hit, want)
	}
}

// TestTraverseMissesEmptyRegion rays that never cross a solid octant report
// no hit.
func TestTraverseMissesEmptyRegion(t *testing.T) {
	cube := Cube{Center: r3.Vector{}, HalfEdge: 1}
	inside := func(c r3.Vector, half float64) bool {
		return c.X < 0 && c.Y < 0 && c.Z < 0
	}
	p, err := BuildSDF(context.Background(), 1, cube, inside)
	if err != nil {
		t.Fatalf("BuildSDF: %v", err)
	}
	p = Compress(p)

	// Aimed at octant 7 (all-positive), which is empty.
	origin := r3.Vector{X: 2, Y: 0.5, Z: 0.5}
	direction := r3.Vector{X: -1, Y: 0, Z: 0}
	_, ok, err := p.Traverse(origin, direction, cube, 1, 1000)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss aimed at an empty octant")
	}
}

// TestTraverseMissesEmptyPool covers the degenerate all-empty pool: any ray
// misses.
func TestTraverseMissesEmptyPool(t *testing.T) {
	cube := Cube{Center: r3.Vector{}, HalfEdge: 1}
	p, err := BuildSDF(context.Background(), 1, cube, func(r3.Vector, float64) bool { return false })
	if err != nil {
		t.Fatalf("BuildSDF: %v", err)
	}

	_, ok, err := p.Traverse(r3.Vector{X: -2}, r3.Vector{X: 1}, cube, 1, 1000)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss against an empty pool")
	}
}

// TestTraverseRejectsZeroDirection covers the "zero direction vector" domain
// error spec.md §7 calls out.
func TestTraverseRejectsZeroDirection(t *testing.T) {
	cube := Cube{Center: r3.Vector{}, HalfEdge: 1}
	p, err := BuildSDF(context.Background(), 1, cube, func(r3.Vector, float64) bool { return true })
	if err != nil {
		t.Fatalf("BuildSDF: %v", err)
	}

	if _, _, err := p.Traverse(r3.Vector{}, r3.Vector{}, cube, 1, 1000); err != ErrZeroDirection {
		t.Fatalf("expected ErrZeroDirection, got %v", err)
	}
}

// TestTraverseRespectsMaxDist covers the max_dist bail-out: a hit beyond
// maxDist is reported as a miss.
func TestTraverseRespectsMaxDist(t *testing.T) {
	cube := Cube{Center: r3.Vector{}, HalfEdge: 1}
	inside := func(c r3.Vector, half float64) bool {
		return c.X < 0 && c.Y < 0 && c.Z < 0
	}
	p, err := BuildSDF(context.Background(), 1, cube, inside)
	if err != nil {
		t.Fatalf("BuildSDF: %v", err)
	}
	p = Compress(p)

	origin := r3.Vector{X: -2, Y: -0.5, Z: -0.5}
	direction := r3.Vector{X: 1, Y: 0, Z: 0}
	// The hit is at t=1 (x goes from -2 to -1); a max distance of 0.5 is too
	// short to reach it.
	_, ok, err := p.Traverse(origin, direction, cube, 1, 0.5)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss: hit lies beyond maxDist")
	}
}

// TestTraverseFindsMinimumEntryParameter covers T1: when a ray could enter
// more than one solid octant, the reported hit is the minimum entry
// parameter — i.e. the nearest one along the ray.
func TestTraverseFindsMinimumEntryParameter(t *testing.T) {
	cube := Cube{Center: r3.Vector{}, HalfEdge: 2}
	// Solid for the entire Y<0,Z<0 half-space regardless of X, so a ray
	// traveling +X from outside the cube must report its entry into the
	// cube's own near face, not some deeper internal boundary.
	inside := func(c r3.Vector, half float64) bool {
		return c.Y < 0 && c.Z < 0
	}
	p, err := BuildSDF(context.Background(), 2, cube, inside)
	if err != nil {
		t.Fatalf("BuildSDF: %v", err)
	}
	p = Compress(p)

	origin := r3.Vector{X: -4, Y: -0.5, Z: -0.5}
	direction := r3.Vector{X: 1, Y: 0, Z: 0}
	hit, ok, err := p.Traverse(origin, direction, cube, 2, 1000)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if !ok {
		t.Fatalf("expected a hit")
	}
	want := r3.Vector{X: -2, Y: -0.5, Z: -0.5} // entry into the cube itself, its nearest face
	if !approxEqual(hit, want, 1e-9) {
		t.Fatalf("hit = %v, want %v (minimum entry parameter)", hit, want)
	}
}
