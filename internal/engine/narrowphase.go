package engine

import "github.com/go-gl/mathgl/mgl32"

// Contact describes one overlap between two colliders. Normal points from
// the first collider toward the second; Depth is the penetration along it.
type Contact struct {
	Normal mgl32.Vec3
	Depth  float32
	Point  mgl32.Vec3
}

// ContactManifold pairs a contact with the colliders that produced it.
type ContactManifold struct {
	ColliderA ColliderHandle
	ColliderB ColliderHandle
	Contact   Contact
}

// ColliderPair is an unordered collider pair in canonical order.
type ColliderPair struct {
	A ColliderHandle
	B ColliderHandle
}

func makeColliderPair(a, b ColliderHandle) ColliderPair {
	if a.Index > b.Index || (a.Index == b.Index && a.Generation > b.Generation) {
		a, b = b, a
	}
	return ColliderPair{A: a, B: b}
}

// CollisionEventKind tags an event as an overlap start or end.
type CollisionEventKind int

const (
	// CollisionEventUnknown is never produced by a healthy step; consumers
	// are expected to drop it.
	CollisionEventUnknown CollisionEventKind = iota
	CollisionEventStarted
	CollisionEventStopped
)

// CollisionEvent reports a change in the overlap graph during one step.
type CollisionEvent struct {
	Collider1 ColliderHandle
	Collider2 ColliderHandle
	Kind      CollisionEventKind
}

func (e CollisionEvent) Started() bool { return e.Kind == CollisionEventStarted }
func (e CollisionEvent) Stopped() bool { return e.Kind == CollisionEventStopped }

// NarrowPhase computes exact contacts for broad-phase candidates and keeps
// the overlap graph whose per-step delta becomes collision events. The map
// value records whether the pair had events enabled when last seen.
type NarrowPhase struct {
	overlaps  map[ColliderPair]bool
	manifolds []ContactManifold
}

func NewNarrowPhase() *NarrowPhase {
	return &NarrowPhase{overlaps: make(map[ColliderPair]bool)}
}

// Manifolds returns the contacts of the most recent update, for the solver.
func (np *NarrowPhase) Manifolds() []ContactManifold {
	return np.manifolds
}

// Update tests every candidate pair, records contact manifolds for the
// solver, and appends start/stop events for pairs where at least one collider
// has collision events enabled. The excluded set holds body pairs joined with
// contacts disabled.
func (np *NarrowPhase) Update(
	candidates []ColliderPair,
	bodies *RigidBodySet,
	colliders *ColliderSet,
	excluded map[bodyPair]struct{},
	events *[]CollisionEvent,
) {
	np.manifolds = np.manifolds[:0]
	current := make(map[ColliderPair]bool, len(candidates))

	for _, pair := range candidates {
		ca := colliders.Get(pair.A)
		cb := colliders.Get(pair.B)
		if ca == nil || cb == nil {
			continue
		}
		if len(excluded) > 0 {
			if pa, ok := ca.Parent(); ok {
				if pb, ok2 := cb.Parent(); ok2 {
					if _, skip := excluded[makeBodyPair(pa, pb)]; skip {
						continue
					}
				}
			}
		}
		poseA := colliders.WorldPose(ca, bodies)
		poseB := colliders.WorldPose(cb, bodies)
		contact, hit := computeContact(ca.shape, poseA, cb.shape, poseB)
		if !hit {
			continue
		}
		// Remember the opt-in state with the overlap so the stop event still
		// fires with the same convention after a collider is removed.
		current[pair] = ca.activeEvents&CollisionEvents != 0 || cb.activeEvents&CollisionEvents != 0
		if !ca.sensor && !cb.sensor {
			np.manifolds = append(np.manifolds, ContactManifold{
				ColliderA: pair.A,
				ColliderB: pair.B,
				Contact:   contact,
			})
		}
	}

	for pair, enabled := range current {
		if _, was := np.overlaps[pair]; !was && enabled {
			*events = append(*events, CollisionEvent{
				Collider1: pair.A,
				Collider2: pair.B,
				Kind:      CollisionEventStarted,
			})
		}
	}
	for pair, enabled := range np.overlaps {
		if _, still := current[pair]; !still && enabled {
			*events = append(*events, CollisionEvent{
				Collider1: pair.A,
				Collider2: pair.B,
				Kind:      CollisionEventStopped,
			})
		}
	}
	np.overlaps = current
}

type bodyPair struct {
	a, b RigidBodyHandle
}

func makeBodyPair(a, b RigidBodyHandle) bodyPair {
	if a.Index > b.Index || (a.Index == b.Index && a.Generation > b.Generation) {
		a, b = b, a
	}
	return bodyPair{a: a, b: b}
}

// computeContact dispatches to an analytic test where one exists and falls
// back to GJK/EPA over support mappings. Triangle meshes run per triangle.
func computeContact(shapeA Shape, poseA Isometry, shapeB Shape, poseB Isometry) (Contact, bool) {
	if _, ok := shapeA.(*TriMesh); ok {
		if _, ok2 := shapeB.(*TriMesh); !ok2 {
			return trimeshContact(shapeA.(*TriMesh), poseA, shapeB, poseB, false)
		}
		// Mesh against mesh only reports boundary overlap; these are
		// expected to be static level geometry.
		return aabbApproxContact(shapeA, poseA, shapeB, poseB)
	}
	if mb, ok := shapeB.(*TriMesh); ok {
		return trimeshContact(mb, poseB, shapeA, poseA, true)
	}

	switch a := shapeA.(type) {
	case *Ball:
		switch b := shapeB.(type) {
		case *Ball:
			return contactBallBall(a, poseA, b, poseB)
		case *Capsule:
			c, hit := contactCapsuleBall(b, poseB, a, poseA)
			return flipContact(c), hit
		case *Cuboid:
			return contactBallCuboid(a, poseA, b, poseB)
		}
	case *Capsule:
		switch b := shapeB.(type) {
		case *Ball:
			return contactCapsuleBall(a, poseA, b, poseB)
		case *Capsule:
			return contactCapsuleCapsule(a, poseA, b, poseB)
		}
	case *Cuboid:
		if b, ok := shapeB.(*Ball); ok {
			c, hit := contactBallCuboid(b, poseB, a, poseA)
			return flipContact(c), hit
		}
	}
	return gjkContact(
		func(dir mgl32.Vec3) mgl32.Vec3 { return shapeA.Support(poseA, dir) },
		func(dir mgl32.Vec3) mgl32.Vec3 { return shapeB.Support(poseB, dir) },
		poseA.Translation, poseB.Translation,
	)
}

func flipContact(c Contact) Contact {
	c.Normal = c.Normal.Mul(-1)
	return c
}

func contactBallBall(a *Ball, poseA Isometry, b *Ball, poseB Isometry) (Contact, bool) {
	delta := poseB.Translation.Sub(poseA.Translation)
	distSq := delta.LenSqr()
	rsum := a.Radius + b.Radius
	if distSq >= rsum*rsum {
		return Contact{}, false
	}
	dist := sqrt32(distSq)
	normal := mgl32.Vec3{1, 0, 0}
	if dist > 1e-6 {
		normal = delta.Mul(1 / dist)
	}
	return Contact{
		Normal: normal,
		Depth:  rsum - dist,
		Point:  poseA.Translation.Add(normal.Mul(a.Radius - (rsum-dist)/2)),
	}, true
}

func contactBallCuboid(a *Ball, poseA Isometry, b *Cuboid, poseB Isometry) (Contact, bool) {
	local := poseB.InverseTransformPoint(poseA.Translation)
	clamped := mgl32.Vec3{
		mgl32.Clamp(local[0], -b.HalfExtents[0], b.HalfExtents[0]),
		mgl32.Clamp(local[1], -b.HalfExtents[1], b.HalfExtents[1]),
		mgl32.Clamp(local[2], -b.HalfExtents[2], b.HalfExtents[2]),
	}
	delta := local.Sub(clamped)
	distSq := delta.LenSqr()
	if distSq > 1e-12 {
		// Center outside the box: sphere test against the closest point.
		if distSq >= a.Radius*a.Radius {
			return Contact{}, false
		}
		dist := sqrt32(distSq)
		worldClosest := poseB.TransformPoint(clamped)
		normal := worldClosest.Sub(poseA.Translation).Normalize()
		return Contact{Normal: normal, Depth: a.Radius - dist, Point: worldClosest}, true
	}

	// Center inside the box: push out along the shallowest axis.
	bestAxis, bestPen := 0, float32(0)
	sign := float32(1)
	first := true
	for axis := 0; axis < 3; axis++ {
		for _, s := range [2]float32{1, -1} {
			pen := b.HalfExtents[axis] - s*local[axis]
			if first || pen < bestPen {
				first = false
				bestPen = pen
				bestAxis = axis
				sign = s
			}
		}
	}
	localNormal := mgl32.Vec3{}
	localNormal[bestAxis] = -sign
	normal := poseB.Rotation.Rotate(localNormal)
	return Contact{
		Normal: normal,
		Depth:  bestPen + a.Radius,
		Point:  poseA.Translation,
	}, true
}

func contactCapsuleBall(a *Capsule, poseA Isometry, b *Ball, poseB Isometry) (Contact, bool) {
	segA, segB := a.segment(poseA)
	closest := closestPointOnSegment(segA, segB, poseB.Translation)
	delta := poseB.Translation.Sub(closest)
	distSq := delta.LenSqr()
	rsum := a.Radius + b.Radius
	if distSq >= rsum*rsum {
		return Contact{}, false
	}
	dist := sqrt32(distSq)
	normal := mgl32.Vec3{1, 0, 0}
	if dist > 1e-6 {
		normal = delta.Mul(1 / dist)
	}
	return Contact{
		Normal: normal,
		Depth:  rsum - dist,
		Point:  closest.Add(normal.Mul(a.Radius)),
	}, true
}

func contactCapsuleCapsule(a *Capsule, poseA Isometry, b *Capsule, poseB Isometry) (Contact, bool) {
	a1, a2 := a.segment(poseA)
	b1, b2 := b.segment(poseB)
	ca, cb := closestPointsSegmentSegment(a1, a2, b1, b2)
	delta := cb.Sub(ca)
	distSq := delta.LenSqr()
	rsum := a.Radius + b.Radius
	if distSq >= rsum*rsum {
		return Contact{}, false
	}
	dist := sqrt32(distSq)
	normal := mgl32.Vec3{1, 0, 0}
	if dist > 1e-6 {
		normal = delta.Mul(1 / dist)
	}
	return Contact{
		Normal: normal,
		Depth:  rsum - dist,
		Point:  ca.Add(normal.Mul(a.Radius)),
	}, true
}

// trimeshContact tests each mesh triangle against the convex shape and keeps
// the deepest contact. The returned normal points from the mesh toward the
// shape unless flip is set.
func trimeshContact(mesh *TriMesh, meshPose Isometry, shape Shape, shapePose Isometry, flip bool) (Contact, bool) {
	shapeSupport := func(dir mgl32.Vec3) mgl32.Vec3 { return shape.Support(shapePose, dir) }
	shapeBox := shape.AABB(shapePose)

	var best Contact
	found := false
	for i := 0; i < mesh.NumTriangles(); i++ {
		la, lb, lc := mesh.Triangle(i)
		wa := meshPose.TransformPoint(la)
		wb := meshPose.TransformPoint(lb)
		wc := meshPose.TransformPoint(lc)
		triBox := aabbFromPoints([]mgl32.Vec3{wa, wb, wc})
		if !triBox.Overlaps(shapeBox) {
			continue
		}
		triSupport := func(dir mgl32.Vec3) mgl32.Vec3 {
			best := wa
			bestDot := wa.Dot(dir)
			if d := wb.Dot(dir); d > bestDot {
				bestDot, best = d, wb
			}
			if d := wc.Dot(dir); d > bestDot {
				best = wc
			}
			return best
		}
		center := wa.Add(wb).Add(wc).Mul(1.0 / 3.0)
		contact, hit := gjkContact(triSupport, shapeSupport, center, shapePose.Translation)
		if hit && (!found || contact.Depth > best.Depth) {
			best = contact
			found = true
		}
	}
	if !found {
		return Contact{}, false
	}
	if flip {
		best = flipContact(best)
	}
	return best, true
}

// aabbApproxContact reports overlap of two shapes by bounds only, with an
// approximate normal from the center offset.
func aabbApproxContact(shapeA Shape, poseA Isometry, shapeB Shape, poseB Isometry) (Contact, bool) {
	if !shapeA.AABB(poseA).Overlaps(shapeB.AABB(poseB)) {
		return Contact{}, false
	}
	delta := poseB.Translation.Sub(poseA.Translation)
	normal := mgl32.Vec3{0, 1, 0}
	if delta.LenSqr() > 1e-12 {
		normal = delta.Normalize()
	}
	return Contact{Normal: normal, Depth: 0, Point: poseA.Translation}, true
}

func gjkContact(sa, sb supportFn, centerA, centerB mgl32.Vec3) (Contact, bool) {
	simplex, hit := gjkIntersect(sa, sb)
	if !hit {
		return Contact{}, false
	}
	normal, depth, ok := epaPenetration(sa, sb, simplex)
	if !ok {
		// Shapes are touching but the polytope degenerated; estimate from
		// the center offset so the solver still separates them.
		delta := centerB.Sub(centerA)
		normal = mgl32.Vec3{0, 1, 0}
		if delta.LenSqr() > 1e-12 {
			normal = delta.Normalize()
		}
		depth = epaTolerance
	}
	point := sa(normal).Sub(normal.Mul(depth / 2))
	return Contact{Normal: normal, Depth: depth, Point: point}, true
}

func closestPointOnSegment(a, b, p mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	denom := ab.LenSqr()
	if denom < 1e-12 {
		return a
	}
	t := mgl32.Clamp(p.Sub(a).Dot(ab)/denom, 0, 1)
	return a.Add(ab.Mul(t))
}

// closestPointsSegmentSegment returns the closest points between segments
// p1q1 and p2q2 (Ericson, Real-Time Collision Detection, 5.1.9).
func closestPointsSegmentSegment(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	var s, t float32
	switch {
	case a < 1e-12 && e < 1e-12:
		return p1, p2
	case a < 1e-12:
		t = mgl32.Clamp(f/e, 0, 1)
	case e < 1e-12:
		s = mgl32.Clamp(-d1.Dot(r)/a, 0, 1)
	default:
		c := d1.Dot(r)
		bb := d1.Dot(d2)
		denom := a*e - bb*bb
		if denom > 1e-12 {
			s = mgl32.Clamp((bb*f-c*e)/denom, 0, 1)
		}
		t = (bb*s + f) / e
		if t < 0 {
			t = 0
			s = mgl32.Clamp(-c/a, 0, 1)
		} else if t > 1 {
			t = 1
			s = mgl32.Clamp((bb-c)/a, 0, 1)
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}
