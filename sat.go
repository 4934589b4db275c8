package svdag

import "github.com/golang/geo/r3"

// IntersectsCube reports whether tri overlaps cube using a 13-axis
// separating-axis test: 3 cube face axes, the
// triangle's own normal, and the 9 cross products of each cube axis with
// each triangle edge. This is the classic Akenine-Möller triangle/box test,
// expressed the way viamrobotics-rdk/spatialmath/sat_generic.go structures
// its OBB-OBB and capsule-OBB SAT gap tests: translate to the box's local
// frame, then probe one separating axis at a time, returning "separated" as
// soon as any axis proves a gap.
func IntersectsCube(tri Triangle, cube Cube) bool {
	h := r3.Vector{X: cube.HalfEdge, Y: cube.HalfEdge, Z: cube.HalfEdge}

	v0 := tri.P0.Sub(cube.Center)
	v1 := tri.P1.Sub(cube.Center)
	v2 := tri.P2.Sub(cube.Center)

	e0 := v1.Sub(v0)
	e1 := v2.Sub(v1)
	e2 := v0.Sub(v2)

	axes := make([]r3.Vector, 0, 13)

	// 3 cube face axes.
	axes = append(axes,
		r3.Vector{X: 1, Y: 0, Z: 0},
		r3.Vector{X: 0, Y: 1, Z: 0},
		r3.Vector{X: 0, Y: 0, Z: 1},
	)

	// Triangle normal.
	axes = append(axes, e0.Cross(e1))

	// 9 edge-edge cross products.
	boxAxes := []r3.Vector{
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	edges := []r3.Vector{e0, e1, e2}
	for _, b := range boxAxes {
		for _, e := range edges {
			axes = append(axes, b.Cross(e))
		}
	}

	for _, axis := range axes {
		if axis.Norm2() < 1e-18 {
			// Degenerate axis (e.g. a zero-length edge, or an edge parallel
			// to the probed cube axis): contributes no separating evidence.
			continue
		}
		if separatedOnAxis(axis, v0, v1, v2, h) {
			return false
		}
	}
	return true
}

// separatedOnAxis projects the triangle and the box (half-extents h,
// centered at the origin since callers translate into box-local space
// first) onto axis and reports whether their intervals fail to overlap.
func separatedOnAxis(axis, v0, v1, v2 r3.Vector, h r3.Vector) bool {
	p0 := v0.Dot(axis)
	p1 := v1.Dot(axis)
	p2 := v2.Dot(axis)

	triMin, triMax := p0, p0
	if p1 < triMin {
		triMin = p1
	}
	if p1 > triMax {
		triMax = p1
	}
	if p2 < triMin {
		triMin = p2
	}
	if p2 > triMax {
		triMax = p2
	}

	r := h.X*absf(axis.X) + h.Y*absf(axis.Y) + h.Z*absf(axis.Z)

	return triMin > r || triMax < -r
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
