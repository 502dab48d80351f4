package bridge

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/solumlabs/physbridge/internal/engine"
)

// resolveBody looks up a body handle, logging a warning for stale or foreign
// handles so misuse is diagnosable instead of fatal.
func resolveBody(w *world, op string, h RigidBodyHandle) *engine.RigidBody {
	rb := w.bodies.Get(decodeRigidBodyHandle(h))
	if rb == nil {
		logger.Warn("rigid body handle does not resolve", zap.String("op", op), zap.Uint64("handle", uint64(h)))
	}
	return rb
}

// AddRigidBody creates a body at the given pose and reparents the collider
// onto it. The quaternion is normalized and carried into the body as an
// axis-angle rotation vector.
func AddRigidBody(
	collider ColliderHandle,
	bodyType RigidBodyType,
	posX, posY, posZ float32,
	rotX, rotY, rotZ, rotW float32,
) RigidBodyHandle {
	w := requireWorld("add_rigid_body")
	if w == nil {
		return InvalidRigidBodyHandle
	}
	body := engine.NewRigidBodyBuilder(bodyTypeToEngine(bodyType)).
		Translation(mgl32.Vec3{posX, posY, posZ}).
		Rotation(rotationVectorFromQuat(rotX, rotY, rotZ, rotW)).
		Build()
	handle := w.bodies.Insert(body)
	parent := handle
	w.colliders.SetParent(decodeColliderHandle(collider), &parent, w.bodies)
	return encodeRigidBodyHandle(handle)
}

// RemoveRigidBody removes the body together with its attached colliders and
// any joints referencing it. The handle is invalid afterwards.
func RemoveRigidBody(h RigidBodyHandle) {
	w := requireWorld("remove_rigid_body")
	if w == nil {
		return
	}
	w.bodies.Remove(
		decodeRigidBodyHandle(h),
		w.islands,
		w.colliders,
		w.impulseJoints,
		w.multibodyJoints,
		true,
	)
}

// UpdateRigidBodyProperties applies the host's per-body settings in one
// call: body type, CCD, axis-lock constraints, and damping. Axes that
// transition to locked get their velocity component zeroed so no residual
// drift survives the lock.
func UpdateRigidBodyProperties(
	h RigidBodyHandle,
	bodyType RigidBodyType,
	enableCCD bool,
	constraints uint32,
	linearDrag float32,
	angularDrag float32,
) {
	w := requireWorld("update_rigid_body_properties")
	if w == nil {
		return
	}
	rb := resolveBody(w, "update_rigid_body_properties", h)
	if rb == nil {
		return
	}

	if t := bodyTypeToEngine(bodyType); rb.BodyType() != t {
		rb.SetBodyType(t, true)
	}
	rb.EnableCCD(enableCCD)

	if lockedAxesToHostConstraints(rb.LockedAxes()) != constraints {
		locks := hostConstraintsToLockedAxes(constraints)
		rb.SetLockedAxes(locks, false)
		cancelAxisVelocity(locks, rb)
	}

	rb.SetLinearDamping(linearDrag)
	rb.SetAngularDamping(angularDrag)
}

// GetTransform reads the body's current pose.
func GetTransform(h RigidBodyHandle) Transform {
	w := requireWorld("get_transform")
	if w == nil {
		return Transform{}
	}
	rb := resolveBody(w, "get_transform", h)
	if rb == nil {
		return Transform{}
	}
	pos := rb.Position()
	return Transform{
		Rotation: [4]float32{pos.Rotation.V[0], pos.Rotation.V[1], pos.Rotation.V[2], pos.Rotation.W},
		Position: [3]float32{pos.Translation[0], pos.Translation[1], pos.Translation[2]},
	}
}

// SetTransformPosition targets the body's next kinematic pose, keeping the
// rotation already queued there so position and rotation can be set
// independently in either order.
func SetTransformPosition(h RigidBodyHandle, x, y, z float32) {
	w := requireWorld("set_transform_position")
	if w == nil {
		return
	}
	rb := resolveBody(w, "set_transform_position", h)
	if rb == nil {
		return
	}
	rb.SetNextKinematicPosition(engine.Isometry{
		Translation: mgl32.Vec3{x, y, z},
		Rotation:    rb.NextPosition().Rotation,
	})
}

// SetTransformRotation targets the body's next kinematic pose, leaving the
// queued position untouched.
func SetTransformRotation(h RigidBodyHandle, x, y, z, rw float32) {
	w := requireWorld("set_transform_rotation")
	if w == nil {
		return
	}
	rb := resolveBody(w, "set_transform_rotation", h)
	if rb == nil {
		return
	}
	rb.SetNextKinematicRotation(quatFromComponents(x, y, z, rw).Normalize())
}

// SetTransform sets the full next kinematic pose in one call.
func SetTransform(h RigidBodyHandle, posX, posY, posZ, rotX, rotY, rotZ, rotW float32) {
	w := requireWorld("set_transform")
	if w == nil {
		return
	}
	rb := resolveBody(w, "set_transform", h)
	if rb == nil {
		return
	}
	rb.SetNextKinematicPosition(engine.Isometry{
		Translation: mgl32.Vec3{posX, posY, posZ},
		Rotation:    quatFromComponents(rotX, rotY, rotZ, rotW).Normalize(),
	})
}

func SetLinearVelocity(h RigidBodyHandle, x, y, z float32) {
	w := requireWorld("set_linear_velocity")
	if w == nil {
		return
	}
	if rb := resolveBody(w, "set_linear_velocity", h); rb != nil {
		rb.SetLinvel(mgl32.Vec3{x, y, z}, true)
	}
}

func SetAngularVelocity(h RigidBodyHandle, x, y, z float32) {
	w := requireWorld("set_angular_velocity")
	if w == nil {
		return
	}
	if rb := resolveBody(w, "set_angular_velocity", h); rb != nil {
		rb.SetAngvel(mgl32.Vec3{x, y, z}, true)
	}
}

func GetLinearVelocity(h RigidBodyHandle) (x, y, z float32) {
	w := requireWorld("get_linear_velocity")
	if w == nil {
		return 0, 0, 0
	}
	rb := resolveBody(w, "get_linear_velocity", h)
	if rb == nil {
		return 0, 0, 0
	}
	v := rb.Linvel()
	return v[0], v[1], v[2]
}

func GetAngularVelocity(h RigidBodyHandle) (x, y, z float32) {
	w := requireWorld("get_angular_velocity")
	if w == nil {
		return 0, 0, 0
	}
	rb := resolveBody(w, "get_angular_velocity", h)
	if rb == nil {
		return 0, 0, 0
	}
	v := rb.Angvel()
	return v[0], v[1], v[2]
}

// scaleForceInput converts a force-mode input into a velocity delta. Mass
// must be positive for the mass-dividing modes; callers guarantee that.
func scaleForceInput(v mgl32.Vec3, mode ForceMode, dt, mass float32) mgl32.Vec3 {
	switch mode {
	case ForceModeForce:
		return v.Mul(dt / mass)
	case ForceModeImpulse:
		return v.Mul(1 / mass)
	case ForceModeAcceleration:
		return v.Mul(dt)
	default:
		return v
	}
}

// AddForce folds a force into the body's linear velocity according to mode.
// There is no force accumulator; the effect is immediate.
func AddForce(h RigidBodyHandle, x, y, z float32, mode ForceMode) {
	w := requireWorld("add_force")
	if w == nil {
		return
	}
	rb := resolveBody(w, "add_force", h)
	if rb == nil {
		return
	}
	delta := scaleForceInput(mgl32.Vec3{x, y, z}, mode, w.params.Dt, rb.Mass())
	rb.SetLinvel(rb.Linvel().Add(delta), true)
}

// AddTorque folds a torque into the body's angular velocity according to
// mode, with the same scaling rules as AddForce.
func AddTorque(h RigidBodyHandle, x, y, z float32, mode ForceMode) {
	w := requireWorld("add_torque")
	if w == nil {
		return
	}
	rb := resolveBody(w, "add_torque", h)
	if rb == nil {
		return
	}
	delta := scaleForceInput(mgl32.Vec3{x, y, z}, mode, w.params.Dt, rb.Mass())
	rb.SetAngvel(rb.Angvel().Add(delta), true)
}
