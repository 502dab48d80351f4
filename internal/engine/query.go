package engine

import "github.com/go-gl/mathgl/mgl32"

// Ray is a half-line. Dir need not be unit length; times of impact are
// parametric along it.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

func (r Ray) PointAt(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// RayIntersection is one hit along a ray. FeatureID identifies the shape
// feature that was hit (triangle index for meshes, 0 for untyped features).
type RayIntersection struct {
	Toi       float32
	Normal    mgl32.Vec3
	FeatureID uint32
}

// QueryFilter restricts which colliders a scene query may hit.
type QueryFilter struct {
	// Exclude skips a collider when it returns true. Nil excludes nothing.
	Exclude func(ColliderHandle, *Collider) bool
}

func DefaultQueryFilter() QueryFilter {
	return QueryFilter{}
}

// QueryPipeline answers scene queries against a snapshot of collider bounds
// refreshed at the end of every step (or explicitly via Update).
type QueryPipeline struct {
	entries []broadEntry
}

func NewQueryPipeline() *QueryPipeline {
	return &QueryPipeline{}
}

func (qp *QueryPipeline) Update(bodies *RigidBodySet, colliders *ColliderSet) {
	qp.entries = qp.entries[:0]
	colliders.Each(func(h ColliderHandle, c *Collider) {
		pose := colliders.WorldPose(c, bodies)
		qp.entries = append(qp.entries, broadEntry{handle: h, aabb: c.shape.AABB(pose)})
	})
}

// CastRayAndGetNormal finds the nearest hit within maxToi. Solid queries
// report a zero time of impact for rays starting inside a shape.
func (qp *QueryPipeline) CastRayAndGetNormal(
	bodies *RigidBodySet,
	colliders *ColliderSet,
	ray Ray,
	maxToi float32,
	solid bool,
	filter QueryFilter,
) (ColliderHandle, RayIntersection, bool) {
	var bestHandle ColliderHandle
	best := RayIntersection{Toi: maxToi}
	found := false
	for _, entry := range qp.entries {
		if !rayHitsAABB(entry.aabb, ray, best.Toi) {
			continue
		}
		c := colliders.Get(entry.handle)
		if c == nil {
			continue
		}
		if filter.Exclude != nil && filter.Exclude(entry.handle, c) {
			continue
		}
		pose := colliders.WorldPose(c, bodies)
		hit, ok := c.shape.RayIntersect(pose, ray, best.Toi)
		if !ok {
			continue
		}
		if !solid && hit.Toi == 0 {
			continue
		}
		if !found || hit.Toi < best.Toi {
			best = hit
			bestHandle = entry.handle
			found = true
		}
	}
	return bestHandle, best, found
}

func rayHitsAABB(box AABB, ray Ray, maxToi float32) bool {
	tmin := float32(0)
	tmax := maxToi
	for axis := 0; axis < 3; axis++ {
		d := ray.Dir[axis]
		o := ray.Origin[axis]
		if d > -1e-9 && d < 1e-9 {
			if o < box.Min[axis] || o > box.Max[axis] {
				return false
			}
			continue
		}
		inv := 1 / d
		t1 := (box.Min[axis] - o) * inv
		t2 := (box.Max[axis] - o) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return false
		}
	}
	return true
}

func (b *Ball) RayIntersect(pose Isometry, ray Ray, maxToi float32) (RayIntersection, bool) {
	oc := ray.Origin.Sub(pose.Translation)
	if oc.LenSqr() <= b.Radius*b.Radius {
		return RayIntersection{Toi: 0, Normal: safeNeg(ray.Dir)}, true
	}
	a := ray.Dir.LenSqr()
	if a < 1e-12 {
		return RayIntersection{}, false
	}
	halfB := oc.Dot(ray.Dir)
	c := oc.LenSqr() - b.Radius*b.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return RayIntersection{}, false
	}
	t := (-halfB - sqrt32(disc)) / a
	if t < 0 || t > maxToi {
		return RayIntersection{}, false
	}
	point := ray.PointAt(t)
	return RayIntersection{
		Toi:    t,
		Normal: point.Sub(pose.Translation).Mul(1 / b.Radius),
	}, true
}

func (c *Cuboid) RayIntersect(pose Isometry, ray Ray, maxToi float32) (RayIntersection, bool) {
	origin := pose.InverseTransformPoint(ray.Origin)
	dir := pose.InverseTransformDir(ray.Dir)

	tmin := float32(0)
	tmax := maxToi
	entryAxis := -1
	entrySign := float32(0)
	for axis := 0; axis < 3; axis++ {
		he := c.HalfExtents[axis]
		d := dir[axis]
		o := origin[axis]
		if d > -1e-9 && d < 1e-9 {
			if o < -he || o > he {
				return RayIntersection{}, false
			}
			continue
		}
		inv := 1 / d
		t1 := (-he - o) * inv
		t2 := (he - o) * inv
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tmin {
			tmin = t1
			entryAxis = axis
			entrySign = sign
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RayIntersection{}, false
		}
	}
	if entryAxis < 0 {
		// Origin inside the box.
		return RayIntersection{Toi: 0, Normal: safeNeg(ray.Dir)}, true
	}
	localNormal := mgl32.Vec3{}
	localNormal[entryAxis] = entrySign
	return RayIntersection{
		Toi:    tmin,
		Normal: pose.Rotation.Rotate(localNormal),
	}, true
}

func (c *Capsule) RayIntersect(pose Isometry, ray Ray, maxToi float32) (RayIntersection, bool) {
	origin := pose.InverseTransformPoint(ray.Origin)
	dir := pose.InverseTransformDir(ray.Dir)

	segA := mgl32.Vec3{0, -c.HalfHeight, 0}
	segB := mgl32.Vec3{0, c.HalfHeight, 0}
	if closestPointOnSegment(segA, segB, origin).Sub(origin).LenSqr() <= c.Radius*c.Radius {
		return RayIntersection{Toi: 0, Normal: safeNeg(ray.Dir)}, true
	}

	best := maxToi
	var bestNormal mgl32.Vec3
	found := false

	// Lateral cylinder surface, clipped to the segment span.
	a := dir[0]*dir[0] + dir[2]*dir[2]
	if a > 1e-12 {
		halfB := origin[0]*dir[0] + origin[2]*dir[2]
		cc := origin[0]*origin[0] + origin[2]*origin[2] - c.Radius*c.Radius
		disc := halfB*halfB - a*cc
		if disc >= 0 {
			t := (-halfB - sqrt32(disc)) / a
			if t >= 0 && t <= best {
				y := origin[1] + t*dir[1]
				if y >= -c.HalfHeight && y <= c.HalfHeight {
					p := origin.Add(dir.Mul(t))
					bestNormal = mgl32.Vec3{p[0], 0, p[2]}.Mul(1 / c.Radius)
					best = t
					found = true
				}
			}
		}
	}

	// End cap spheres.
	for _, center := range [2]mgl32.Vec3{segA, segB} {
		oc := origin.Sub(center)
		da := dir.LenSqr()
		if da < 1e-12 {
			continue
		}
		halfB := oc.Dot(dir)
		cc := oc.LenSqr() - c.Radius*c.Radius
		disc := halfB*halfB - da*cc
		if disc < 0 {
			continue
		}
		t := (-halfB - sqrt32(disc)) / da
		if t < 0 || t > best {
			continue
		}
		bestNormal = origin.Add(dir.Mul(t)).Sub(center).Mul(1 / c.Radius)
		best = t
		found = true
	}

	if !found {
		return RayIntersection{}, false
	}
	return RayIntersection{
		Toi:    best,
		Normal: pose.Rotation.Rotate(bestNormal),
	}, true
}

func safeNeg(d mgl32.Vec3) mgl32.Vec3 {
	if d.LenSqr() < 1e-12 {
		return mgl32.Vec3{0, 1, 0}
	}
	return d.Normalize().Mul(-1)
}
