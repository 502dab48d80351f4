package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TriMesh is a triangle soup collider. It is intended for static level
// geometry; contact generation against it runs per triangle.
type TriMesh struct {
	vertices  []mgl32.Vec3
	indices   [][3]uint32
	localAABB AABB
	volume    float32
}

// NewTriMesh validates and builds a triangle mesh. The vertex and index
// buffers are retained, not copied.
func NewTriMesh(vertices []mgl32.Vec3, indices [][3]uint32) (*TriMesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, ErrEmptyMesh
	}
	for _, tri := range indices {
		for _, idx := range tri {
			if int(idx) >= len(vertices) {
				return nil, fmt.Errorf("%w: index %d with %d vertices", ErrIndexOutOfRange, idx, len(vertices))
			}
		}
	}
	box := aabbFromPoints(vertices)
	ext := box.Max.Sub(box.Min)
	return &TriMesh{
		vertices:  vertices,
		indices:   indices,
		localAABB: box,
		// The soup may be open, so the bounding volume stands in for the
		// enclosed volume when deriving mass.
		volume: ext[0] * ext[1] * ext[2],
	}, nil
}

func (m *TriMesh) NumTriangles() int {
	return len(m.indices)
}

// Triangle returns the local-space corners of triangle i.
func (m *TriMesh) Triangle(i int) (mgl32.Vec3, mgl32.Vec3, mgl32.Vec3) {
	tri := m.indices[i]
	return m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]]
}

func (m *TriMesh) Volume() float32 {
	return m.volume
}

func (m *TriMesh) MinExtent() float32 {
	ext := m.localAABB.Max.Sub(m.localAABB.Min)
	return min3(ext[0], ext[1], ext[2]) * 0.5
}

func (m *TriMesh) AABB(pose Isometry) AABB {
	return transformedAABB(m.localAABB, pose)
}

// Support treats the mesh as the convex hull of its vertices. Narrow-phase
// contact uses per-triangle tests instead; this mapping only serves bounds
// and degenerate fallbacks.
func (m *TriMesh) Support(pose Isometry, dir mgl32.Vec3) mgl32.Vec3 {
	local := pose.InverseTransformDir(dir)
	best := m.vertices[0]
	bestDot := best.Dot(local)
	for _, v := range m.vertices[1:] {
		if d := v.Dot(local); d > bestDot {
			bestDot = d
			best = v
		}
	}
	return pose.TransformPoint(best)
}

func (m *TriMesh) RayIntersect(pose Isometry, ray Ray, maxToi float32) (RayIntersection, bool) {
	origin := pose.InverseTransformPoint(ray.Origin)
	dir := pose.InverseTransformDir(ray.Dir)

	best := RayIntersection{Toi: maxToi}
	found := false
	for i := range m.indices {
		a, b, c := m.Triangle(i)
		toi, ok := rayTriangle(origin, dir, a, b, c)
		if !ok || toi > best.Toi {
			continue
		}
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.LenSqr() < 1e-12 {
			continue
		}
		normal = normal.Normalize()
		if normal.Dot(dir) > 0 {
			normal = normal.Mul(-1)
		}
		best = RayIntersection{
			Toi:       toi,
			Normal:    pose.Rotation.Rotate(normal),
			FeatureID: uint32(i),
		}
		found = true
	}
	return best, found
}

// rayTriangle is the Moller-Trumbore intersection test. It returns the
// parametric distance along dir, which need not be unit length.
func rayTriangle(origin, dir, a, b, c mgl32.Vec3) (float32, bool) {
	const eps = 1e-8

	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	h := dir.Cross(edge2)
	det := edge1.Dot(h)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(a)
	u := s.Dot(h) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(edge1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := edge2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
