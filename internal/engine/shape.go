package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

func aabbFromPoints(points []mgl32.Vec3) AABB {
	box := AABB{
		Min: mgl32.Vec3{float32(math.Inf(1)), float32(math.Inf(1)), float32(math.Inf(1))},
		Max: mgl32.Vec3{float32(math.Inf(-1)), float32(math.Inf(-1)), float32(math.Inf(-1))},
	}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			if p[i] < box.Min[i] {
				box.Min[i] = p[i]
			}
			if p[i] > box.Max[i] {
				box.Max[i] = p[i]
			}
		}
	}
	return box
}

// transformedAABB bounds a local-space box under a rigid transform by
// transforming its eight corners.
func transformedAABB(local AABB, pose Isometry) AABB {
	corners := make([]mgl32.Vec3, 0, 8)
	for _, x := range [2]float32{local.Min[0], local.Max[0]} {
		for _, y := range [2]float32{local.Min[1], local.Max[1]} {
			for _, z := range [2]float32{local.Min[2], local.Max[2]} {
				corners = append(corners, pose.TransformPoint(mgl32.Vec3{x, y, z}))
			}
		}
	}
	return aabbFromPoints(corners)
}

// Shape is the geometry of one collider. Implementations are immutable after
// construction and shared freely between colliders.
type Shape interface {
	// Volume is used to derive body mass from collider density.
	Volume() float32
	// MinExtent is the smallest half-extent, used by CCD substep heuristics.
	MinExtent() float32
	AABB(pose Isometry) AABB
	// Support returns the world-space point of the shape farthest along dir.
	Support(pose Isometry, dir mgl32.Vec3) mgl32.Vec3
	RayIntersect(pose Isometry, ray Ray, maxToi float32) (RayIntersection, bool)
}

// Ball is a sphere centered on its collider's pose.
type Ball struct {
	Radius float32
}

func NewBall(radius float32) *Ball {
	return &Ball{Radius: radius}
}

func (b *Ball) Volume() float32 {
	return 4.0 / 3.0 * math.Pi * b.Radius * b.Radius * b.Radius
}

func (b *Ball) MinExtent() float32 {
	return b.Radius
}

func (b *Ball) AABB(pose Isometry) AABB {
	r := mgl32.Vec3{b.Radius, b.Radius, b.Radius}
	return AABB{Min: pose.Translation.Sub(r), Max: pose.Translation.Add(r)}
}

func (b *Ball) Support(pose Isometry, dir mgl32.Vec3) mgl32.Vec3 {
	if dir.LenSqr() < 1e-12 {
		dir = mgl32.Vec3{1, 0, 0}
	}
	return pose.Translation.Add(dir.Normalize().Mul(b.Radius))
}

// Cuboid is a box described by its half extents.
type Cuboid struct {
	HalfExtents mgl32.Vec3
}

func NewCuboid(hx, hy, hz float32) *Cuboid {
	return &Cuboid{HalfExtents: mgl32.Vec3{hx, hy, hz}}
}

func (c *Cuboid) Volume() float32 {
	return 8 * c.HalfExtents[0] * c.HalfExtents[1] * c.HalfExtents[2]
}

func (c *Cuboid) MinExtent() float32 {
	return min3(c.HalfExtents[0], c.HalfExtents[1], c.HalfExtents[2])
}

func (c *Cuboid) AABB(pose Isometry) AABB {
	local := AABB{Min: c.HalfExtents.Mul(-1), Max: c.HalfExtents}
	return transformedAABB(local, pose)
}

func (c *Cuboid) Support(pose Isometry, dir mgl32.Vec3) mgl32.Vec3 {
	local := pose.InverseTransformDir(dir)
	p := mgl32.Vec3{
		copysign32(c.HalfExtents[0], local[0]),
		copysign32(c.HalfExtents[1], local[1]),
		copysign32(c.HalfExtents[2], local[2]),
	}
	return pose.TransformPoint(p)
}

// Capsule is a sphere-swept segment along the local Y axis.
type Capsule struct {
	HalfHeight float32
	Radius     float32
}

func NewCapsule(halfHeight, radius float32) *Capsule {
	return &Capsule{HalfHeight: halfHeight, Radius: radius}
}

func (c *Capsule) Volume() float32 {
	r := c.Radius
	return math.Pi * r * r * (4.0/3.0*r + 2*c.HalfHeight)
}

func (c *Capsule) MinExtent() float32 {
	return c.Radius
}

func (c *Capsule) segment(pose Isometry) (mgl32.Vec3, mgl32.Vec3) {
	a := pose.TransformPoint(mgl32.Vec3{0, -c.HalfHeight, 0})
	b := pose.TransformPoint(mgl32.Vec3{0, c.HalfHeight, 0})
	return a, b
}

func (c *Capsule) AABB(pose Isometry) AABB {
	a, b := c.segment(pose)
	r := mgl32.Vec3{c.Radius, c.Radius, c.Radius}
	box := aabbFromPoints([]mgl32.Vec3{a, b})
	return AABB{Min: box.Min.Sub(r), Max: box.Max.Add(r)}
}

func (c *Capsule) Support(pose Isometry, dir mgl32.Vec3) mgl32.Vec3 {
	local := pose.InverseTransformDir(dir)
	end := mgl32.Vec3{0, copysign32(c.HalfHeight, local[1]), 0}
	if local.LenSqr() < 1e-12 {
		local = mgl32.Vec3{1, 0, 0}
	}
	p := end.Add(local.Normalize().Mul(c.Radius))
	return pose.TransformPoint(p)
}

func min3(a, b, c float32) float32 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func copysign32(mag, sign float32) float32 {
	return float32(math.Copysign(float64(mag), float64(sign)))
}
