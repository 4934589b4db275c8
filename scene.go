package svdag

import "github.com/golang/geo/r3"

// Triangle is 3 vertex positions, grounded on viamrobotics-rdk's
// spatialmath.Triangle shape (p0,p1,p2 r3.Vector) but kept to the bare data
// BuildTriangles needs — normal/plane data the original scene carried is
// computed on demand by the SAT test instead of cached here.
type Triangle struct {
	P0, P1, P2 r3.Vector
}

// Scene is the external collaborator BuildTriangles consumes, per spec.md
// §6.1: triangle count, per-triangle vertex access, and a bounding box.
// Materials, normals, textures, and UVs MAY be exposed by a concrete Scene
// implementation but are not part of this contract — the core records only
// occupancy.
type Scene interface {
	// TriangleCount returns the total number of triangles in the scene.
	TriangleCount() int
	// Triangle returns the i'th triangle, 0 <= i < TriangleCount().
	Triangle(i int) Triangle
	// Bounds returns the scene's axis-aligned bounding box (min, max).
	Bounds() (min, max r3.Vector)
}
