package engine

import "errors"

// Geometry construction errors. These are the only fallible paths in the
// engine's public surface; everything else communicates through handles.
var (
	// ErrEmptyMesh indicates a triangle mesh with no vertices or no indices.
	ErrEmptyMesh = errors.New("engine: mesh has no vertices or no triangles")

	// ErrIndexOutOfRange indicates a triangle index past the vertex buffer.
	ErrIndexOutOfRange = errors.New("engine: triangle index out of range")

	// ErrDegenerateHull indicates a point set with no volume (fewer than
	// four points, or all points coplanar).
	ErrDegenerateHull = errors.New("engine: convex hull points are degenerate")
)
