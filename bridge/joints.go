package bridge

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/solumlabs/physbridge/internal/engine"
)

// bakedFrame combines a local offset point with a body's rotation at joint
// creation time. Fixed and spherical joints bake their frames this way; the
// frames are not tracked afterwards.
func bakedFrame(point mgl32.Vec3, rb *engine.RigidBody) engine.Isometry {
	return engine.Isometry{
		Translation: point,
		Rotation:    rb.Position().Rotation,
	}
}

// AddFixedJoint welds two bodies together at the given local offsets.
// selfCollision controls whether the pair keeps colliding with each other.
func AddFixedJoint(
	body1, body2 RigidBodyHandle,
	frame1X, frame1Y, frame1Z float32,
	frame2X, frame2Y, frame2Z float32,
	selfCollision bool,
) JointHandle {
	w := requireWorld("add_fixed_joint")
	if w == nil {
		return InvalidJointHandle
	}
	rb1 := resolveBody(w, "add_fixed_joint", body1)
	rb2 := resolveBody(w, "add_fixed_joint", body2)
	if rb1 == nil || rb2 == nil {
		return InvalidJointHandle
	}
	joint := engine.NewFixedJointBuilder().
		LocalFrame1(bakedFrame(mgl32.Vec3{frame1X, frame1Y, frame1Z}, rb1)).
		LocalFrame2(bakedFrame(mgl32.Vec3{frame2X, frame2Y, frame2Z}, rb2)).
		ContactsEnabled(selfCollision).
		Build()
	return encodeJointHandle(w.impulseJoints.Insert(
		decodeRigidBodyHandle(body1), decodeRigidBodyHandle(body2), joint, w.bodies, false))
}

// AddSphericalJoint pins two bodies at a shared point while leaving their
// relative rotation free.
func AddSphericalJoint(
	body1, body2 RigidBodyHandle,
	frame1X, frame1Y, frame1Z float32,
	frame2X, frame2Y, frame2Z float32,
	selfCollision bool,
) JointHandle {
	w := requireWorld("add_spherical_joint")
	if w == nil {
		return InvalidJointHandle
	}
	rb1 := resolveBody(w, "add_spherical_joint", body1)
	rb2 := resolveBody(w, "add_spherical_joint", body2)
	if rb1 == nil || rb2 == nil {
		return InvalidJointHandle
	}
	joint := engine.NewSphericalJointBuilder().
		LocalFrame1(bakedFrame(mgl32.Vec3{frame1X, frame1Y, frame1Z}, rb1)).
		LocalFrame2(bakedFrame(mgl32.Vec3{frame2X, frame2Y, frame2Z}, rb2)).
		ContactsEnabled(selfCollision).
		Build()
	return encodeJointHandle(w.impulseJoints.Insert(
		decodeRigidBodyHandle(body1), decodeRigidBodyHandle(body2), joint, w.bodies, false))
}

// AddRevoluteJoint hinges two bodies about the given axis, which is
// normalized here.
func AddRevoluteJoint(
	body1, body2 RigidBodyHandle,
	axisX, axisY, axisZ float32,
	anchor1X, anchor1Y, anchor1Z float32,
	anchor2X, anchor2Y, anchor2Z float32,
	selfCollision bool,
) JointHandle {
	w := requireWorld("add_revolute_joint")
	if w == nil {
		return InvalidJointHandle
	}
	axis := mgl32.Vec3{axisX, axisY, axisZ}.Normalize()
	joint := engine.NewRevoluteJointBuilder(axis).
		LocalAnchor1(mgl32.Vec3{anchor1X, anchor1Y, anchor1Z}).
		LocalAnchor2(mgl32.Vec3{anchor2X, anchor2Y, anchor2Z}).
		ContactsEnabled(selfCollision).
		Build()
	return encodeJointHandle(w.impulseJoints.Insert(
		decodeRigidBodyHandle(body1), decodeRigidBodyHandle(body2), joint, w.bodies, false))
}

// AddPrismaticJoint constrains two bodies to slide along the given axis
// within [limitMin, limitMax].
func AddPrismaticJoint(
	body1, body2 RigidBodyHandle,
	axisX, axisY, axisZ float32,
	anchor1X, anchor1Y, anchor1Z float32,
	anchor2X, anchor2Y, anchor2Z float32,
	limitMin, limitMax float32,
	selfCollision bool,
) JointHandle {
	w := requireWorld("add_prismatic_joint")
	if w == nil {
		return InvalidJointHandle
	}
	axis := mgl32.Vec3{axisX, axisY, axisZ}.Normalize()
	joint := engine.NewPrismaticJointBuilder(axis).
		LocalAnchor1(mgl32.Vec3{anchor1X, anchor1Y, anchor1Z}).
		LocalAnchor2(mgl32.Vec3{anchor2X, anchor2Y, anchor2Z}).
		Limits([2]float32{limitMin, limitMax}).
		ContactsEnabled(selfCollision).
		Build()
	return encodeJointHandle(w.impulseJoints.Insert(
		decodeRigidBodyHandle(body1), decodeRigidBodyHandle(body2), joint, w.bodies, false))
}

// RemoveJoint detaches the joint without touching the connected bodies'
// poses. The bodies are woken.
func RemoveJoint(h JointHandle) {
	w := requireWorld("remove_joint")
	if w == nil {
		return
	}
	w.impulseJoints.Remove(decodeJointHandle(h), w.bodies, true)
}
