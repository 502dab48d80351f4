package engine

import "github.com/go-gl/mathgl/mgl32"

// EventCollector receives the collision events produced by one step.
type EventCollector interface {
	HandleCollisionEvent(CollisionEvent)
}

// EventList is the plain slice-backed collector used by callers that drain
// events immediately after stepping.
type EventList struct {
	events []CollisionEvent
}

func NewEventList() *EventList {
	return &EventList{}
}

func (l *EventList) HandleCollisionEvent(e CollisionEvent) {
	l.events = append(l.events, e)
}

// Drain returns the collected events and resets the list.
func (l *EventList) Drain() []CollisionEvent {
	events := l.events
	l.events = nil
	return events
}

const (
	contactSlop           = 0.005
	contactBeta           = 0.2
	jointBeta             = 0.2
	frictionCoefficient   = 0.5
	jointWakeThresholdSqr = 1e-8
)

// Pipeline drives one discrete simulation advance over the caller-owned
// structures. It holds only per-step scratch space.
type Pipeline struct {
	events []CollisionEvent
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Step advances the world by params.Dt: integrate awake bodies, detect and
// resolve contacts, enforce joints, update sleep state, refresh the query
// pipeline, and emit collision events through the collector.
func (p *Pipeline) Step(
	gravity mgl32.Vec3,
	params *IntegrationParameters,
	islands *IslandManager,
	broadPhase *BroadPhase,
	narrowPhase *NarrowPhase,
	bodies *RigidBodySet,
	colliders *ColliderSet,
	impulseJoints *ImpulseJointSet,
	multibodyJoints *MultibodyJointSet,
	ccd *CCDSolver,
	queries *QueryPipeline,
	collector EventCollector,
) {
	dt := params.Dt
	if dt <= 0 {
		return
	}

	p.integrate(gravity, params, bodies, colliders, ccd, dt)

	excluded := contactExclusions(impulseJoints, multibodyJoints)
	broadPhase.Update(bodies, colliders)
	p.events = p.events[:0]
	narrowPhase.Update(broadPhase.CandidatePairs(), bodies, colliders, excluded, &p.events)

	islands.PropagateWake(narrowPhase.Manifolds(), bodies, colliders)

	iterations := params.NumSolverIterations
	if iterations <= 0 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		for _, m := range narrowPhase.Manifolds() {
			resolveContact(m, bodies, colliders)
		}
		impulseJoints.Each(func(_ ImpulseJointHandle, j *ImpulseJoint) {
			solveJoint(j, bodies)
		})
	}

	bodies.Each(func(_ RigidBodyHandle, rb *RigidBody) {
		islands.UpdateSleep(rb, dt)
	})

	if queries != nil {
		queries.Update(bodies, colliders)
	}
	if collector != nil {
		for _, e := range p.events {
			collector.HandleCollisionEvent(e)
		}
	}
}

func (p *Pipeline) integrate(gravity mgl32.Vec3, params *IntegrationParameters, bodies *RigidBodySet, colliders *ColliderSet, ccd *CCDSolver, dt float32) {
	bodies.Each(func(h RigidBodyHandle, rb *RigidBody) {
		switch rb.bodyType {
		case RigidBodyFixed:
			rb.linvel = mgl32.Vec3{}
			rb.angvel = mgl32.Vec3{}
			rb.nextPosition = rb.position

		case RigidBodyKinematicPositionBased:
			// The scripted next pose defines this step's velocity, so
			// contacts against the body see its real motion.
			rb.linvel = rb.nextPosition.Translation.Sub(rb.position.Translation).Mul(1 / dt)
			delta := rb.nextPosition.Rotation.Mul(rb.position.Rotation.Inverse())
			rb.angvel = ScaledAxisFromQuat(delta.Normalize()).Mul(1 / dt)
			rb.position = rb.nextPosition

		case RigidBodyKinematicVelocityBased:
			rb.position.Translation = rb.position.Translation.Add(rb.linvel.Mul(dt))
			rb.position.Rotation = QuatFromScaledAxis(rb.angvel.Mul(dt)).Mul(rb.position.Rotation).Normalize()
			rb.nextPosition = rb.position

		case RigidBodyDynamic:
			if rb.sleeping {
				return
			}
			rb.linvel = rb.linvel.Add(gravity.Mul(dt))
			rb.linvel = rb.linvel.Mul(1 / (1 + dt*rb.linearDamping))
			rb.angvel = rb.angvel.Mul(1 / (1 + dt*rb.angularDamping))
			applyLocks(rb)

			if substeps := ccd.Substeps(rb, dt, params); substeps > 1 {
				sweepTranslate(rb, h, bodies, colliders, dt, substeps)
			} else {
				rb.position.Translation = rb.position.Translation.Add(rb.linvel.Mul(dt))
			}
			rb.position.Rotation = QuatFromScaledAxis(rb.angvel.Mul(dt)).Mul(rb.position.Rotation).Normalize()
			rb.nextPosition = rb.position
		}
	})
}

// sweepTranslate advances a fast mover slice by slice, casting a ray along
// its motion in each slice so thin geometry stops it inside the step. The
// body is left just touching the obstacle, where the contact solver picks it
// up on the same step.
func sweepTranslate(rb *RigidBody, self RigidBodyHandle, bodies *RigidBodySet, colliders *ColliderSet, dt float32, substeps int) {
	speed := rb.linvel.Len()
	if speed < 1e-9 {
		return
	}
	dir := rb.linvel.Mul(1 / speed)

	// Distance from the body origin to its leading surface along the motion.
	var lead float32
	for _, ch := range rb.colliders {
		c := colliders.Get(ch)
		if c == nil {
			continue
		}
		if d := c.shape.Support(rb.position, dir).Sub(rb.position.Translation).Dot(dir); d > lead {
			lead = d
		}
	}

	slice := speed * dt / float32(substeps)
	for i := 0; i < substeps; i++ {
		ray := Ray{Origin: rb.position.Translation, Dir: dir}
		hitToi := slice + lead
		hit := false
		colliders.Each(func(_ ColliderHandle, other *Collider) {
			if other.sensor {
				return
			}
			if parent, ok := other.Parent(); ok && parent == self {
				return
			}
			pose := colliders.WorldPose(other, bodies)
			if inter, ok := other.shape.RayIntersect(pose, ray, hitToi); ok {
				hitToi = inter.Toi
				hit = true
			}
		})
		if hit {
			// Stop at the surface with a slop's worth of overlap so the
			// narrow phase registers the contact.
			advance := hitToi - lead + contactSlop
			if advance < 0 {
				advance = 0
			}
			if advance > slice {
				advance = slice
			}
			rb.position.Translation = rb.position.Translation.Add(dir.Mul(advance))
			return
		}
		rb.position.Translation = rb.position.Translation.Add(dir.Mul(slice))
	}
}

// applyLocks zeroes velocity along locked axes so nothing re-accumulates
// drift after a lock is applied.
func applyLocks(rb *RigidBody) {
	locks := rb.lockedAxes
	for axis := 0; axis < 3; axis++ {
		if locks&(TranslationLockedX<<axis) != 0 {
			rb.linvel[axis] = 0
		}
		if locks&(RotationLockedX<<axis) != 0 {
			rb.angvel[axis] = 0
		}
	}
}

// contactExclusions collects body pairs joined with contacts disabled.
func contactExclusions(impulseJoints *ImpulseJointSet, multibodyJoints *MultibodyJointSet) map[bodyPair]struct{} {
	var excluded map[bodyPair]struct{}
	add := func(b1, b2 RigidBodyHandle, contactsEnabled bool) {
		if contactsEnabled {
			return
		}
		if excluded == nil {
			excluded = make(map[bodyPair]struct{})
		}
		excluded[makeBodyPair(b1, b2)] = struct{}{}
	}
	impulseJoints.Each(func(_ ImpulseJointHandle, j *ImpulseJoint) {
		add(j.Body1, j.Body2, j.Data.ContactsEnabled)
	})
	multibodyJoints.arena.Each(func(_ Handle, j *MultibodyJoint) {
		add(j.Body1, j.Body2, j.Data.ContactsEnabled)
	})
	return excluded
}

// resolveContact applies a normal impulse, Coulomb friction, and positional
// correction for one manifold. Response is purely linear.
func resolveContact(m ContactManifold, bodies *RigidBodySet, colliders *ColliderSet) {
	bodyA := bodyOf(colliders, bodies, m.ColliderA)
	bodyB := bodyOf(colliders, bodies, m.ColliderB)

	var imA, imB float32
	if bodyA != nil {
		imA = bodyA.invMass()
	}
	if bodyB != nil {
		imB = bodyB.invMass()
	}
	imSum := imA + imB
	if imSum == 0 {
		return
	}

	var velA, velB mgl32.Vec3
	if bodyA != nil {
		velA = bodyA.linvel
	}
	if bodyB != nil {
		velB = bodyB.linvel
	}

	n := m.Contact.Normal
	rel := velB.Sub(velA)
	vn := rel.Dot(n)
	var j float32
	if vn < 0 {
		j = -vn / imSum
		impulse := n.Mul(j)
		if bodyA != nil {
			bodyA.linvel = bodyA.linvel.Sub(impulse.Mul(imA))
		}
		if bodyB != nil {
			bodyB.linvel = bodyB.linvel.Add(impulse.Mul(imB))
		}

		tangentVel := rel.Sub(n.Mul(vn))
		if tangentVel.LenSqr() > 1e-10 {
			t := tangentVel.Normalize()
			jt := tangentVel.Len() / imSum
			if maxFriction := frictionCoefficient * j; jt > maxFriction {
				jt = maxFriction
			}
			friction := t.Mul(jt)
			if bodyA != nil {
				bodyA.linvel = bodyA.linvel.Add(friction.Mul(imA))
			}
			if bodyB != nil {
				bodyB.linvel = bodyB.linvel.Sub(friction.Mul(imB))
			}
		}
	}

	if pen := m.Contact.Depth - contactSlop; pen > 0 {
		corr := n.Mul(pen * contactBeta / imSum)
		if bodyA != nil {
			shiftBody(bodyA, corr.Mul(-imA))
		}
		if bodyB != nil {
			shiftBody(bodyB, corr.Mul(imB))
		}
	}

	if bodyA != nil {
		applyLocks(bodyA)
	}
	if bodyB != nil {
		applyLocks(bodyB)
	}
}

func shiftBody(rb *RigidBody, delta mgl32.Vec3) {
	locks := rb.lockedAxes
	for axis := 0; axis < 3; axis++ {
		if locks&(TranslationLockedX<<axis) != 0 {
			delta[axis] = 0
		}
	}
	rb.position.Translation = rb.position.Translation.Add(delta)
	rb.nextPosition.Translation = rb.position.Translation
}

// solveJoint enforces one joint with positional and velocity corrections.
// Without inertia tensors the angular terms are weighted by inverse mass,
// which is stable for the body scales the boundary works at.
func solveJoint(j *ImpulseJoint, bodies *RigidBodySet) {
	rb1 := bodies.Get(j.Body1)
	rb2 := bodies.Get(j.Body2)
	if rb1 == nil || rb2 == nil {
		return
	}
	im1 := rb1.invMass()
	im2 := rb2.invMass()
	imSum := im1 + im2
	if imSum == 0 {
		return
	}
	share1 := im1 / imSum
	share2 := im2 / imSum

	a1 := rb1.position.TransformPoint(j.Data.LocalFrame1.Translation)
	a2 := rb2.position.TransformPoint(j.Data.LocalFrame2.Translation)
	err := a2.Sub(a1)

	corr := err
	dv := rb2.linvel.Sub(rb1.linvel)
	dvCorr := dv

	if j.Data.Kind == JointPrismatic {
		axis := rb1.position.Rotation.Rotate(j.Data.LocalAxis)
		along := err.Dot(axis)
		corr = err.Sub(axis.Mul(along))
		if j.Data.LimitsEnabled {
			clamped := mgl32.Clamp(along, j.Data.Limits[0], j.Data.Limits[1])
			corr = corr.Add(axis.Mul(along - clamped))
		}
		dvCorr = dv.Sub(axis.Mul(dv.Dot(axis)))
	}

	if corr.LenSqr() > jointWakeThresholdSqr {
		rb1.Wake()
		rb2.Wake()
	}

	posShift := corr.Mul(jointBeta)
	rb1.position.Translation = rb1.position.Translation.Add(posShift.Mul(share1))
	rb2.position.Translation = rb2.position.Translation.Sub(posShift.Mul(share2))
	rb1.nextPosition.Translation = rb1.position.Translation
	rb2.nextPosition.Translation = rb2.position.Translation

	rb1.linvel = rb1.linvel.Add(dvCorr.Mul(share1))
	rb2.linvel = rb2.linvel.Sub(dvCorr.Mul(share2))

	solveJointAngular(j, rb1, rb2, share1, share2)

	applyLocks(rb1)
	applyLocks(rb2)
}

func solveJointAngular(j *ImpulseJoint, rb1, rb2 *RigidBody, share1, share2 float32) {
	switch j.Data.Kind {
	case JointSpherical:
		// Free relative rotation.

	case JointFixed, JointPrismatic:
		// Lock relative rotation to the frame-encoded offset.
		target := rb1.position.Rotation.Mul(j.Data.LocalFrame1.Rotation).Mul(j.Data.LocalFrame2.Rotation.Inverse())
		delta := target.Mul(rb2.position.Rotation.Inverse())
		axisAngle := ScaledAxisFromQuat(delta.Normalize())
		rotateBody(rb2, axisAngle.Mul(jointBeta*share2))
		rotateBody(rb1, axisAngle.Mul(-jointBeta*share1))

		dw := rb2.angvel.Sub(rb1.angvel)
		rb1.angvel = rb1.angvel.Add(dw.Mul(share1))
		rb2.angvel = rb2.angvel.Sub(dw.Mul(share2))

	case JointRevolute:
		// Keep the hinge axes of both bodies aligned; spin about the axis
		// stays free.
		axis1 := rb1.position.Rotation.Rotate(j.Data.LocalAxis)
		axis2 := rb2.position.Rotation.Rotate(j.Data.LocalAxis)
		misalign := axis2.Cross(axis1)
		rotateBody(rb2, misalign.Mul(jointBeta*share2))
		rotateBody(rb1, misalign.Mul(-jointBeta*share1))

		dw := rb2.angvel.Sub(rb1.angvel)
		dwOff := dw.Sub(axis1.Mul(dw.Dot(axis1)))
		rb1.angvel = rb1.angvel.Add(dwOff.Mul(share1))
		rb2.angvel = rb2.angvel.Sub(dwOff.Mul(share2))
	}
}

func rotateBody(rb *RigidBody, scaledAxis mgl32.Vec3) {
	if scaledAxis.LenSqr() < 1e-14 {
		return
	}
	rb.position.Rotation = QuatFromScaledAxis(scaledAxis).Mul(rb.position.Rotation).Normalize()
	rb.nextPosition.Rotation = rb.position.Rotation
}
