package engine

import "github.com/go-gl/mathgl/mgl32"

type RigidBodyType int

const (
	RigidBodyDynamic RigidBodyType = iota
	RigidBodyFixed
	RigidBodyKinematicPositionBased
	RigidBodyKinematicVelocityBased
)

func (t RigidBodyType) IsDynamic() bool {
	return t == RigidBodyDynamic
}

func (t RigidBodyType) IsKinematic() bool {
	return t == RigidBodyKinematicPositionBased || t == RigidBodyKinematicVelocityBased
}

// LockedAxes restricts a body's allowed translation and rotation axes.
// Bit order is engine-internal; the boundary translates from the host
// encoding.
type LockedAxes uint8

const (
	TranslationLockedX LockedAxes = 1 << iota
	TranslationLockedY
	TranslationLockedZ
	RotationLockedX
	RotationLockedY
	RotationLockedZ
)

// RigidBody is a simulated body. Its collision geometry lives in attached
// colliders; mass is derived from their densities.
type RigidBody struct {
	bodyType     RigidBodyType
	position     Isometry
	nextPosition Isometry

	linvel mgl32.Vec3
	angvel mgl32.Vec3

	mass      float32
	minExtent float32

	linearDamping  float32
	angularDamping float32

	ccdEnabled bool
	lockedAxes LockedAxes

	colliders []ColliderHandle

	sleeping bool
	idleTime float32
}

func (rb *RigidBody) BodyType() RigidBodyType {
	return rb.bodyType
}

// SetBodyType reclassifies the body. Switching to fixed clears velocity.
func (rb *RigidBody) SetBodyType(t RigidBodyType, wake bool) {
	rb.bodyType = t
	if t == RigidBodyFixed {
		rb.linvel = mgl32.Vec3{}
		rb.angvel = mgl32.Vec3{}
	}
	rb.nextPosition = rb.position
	if wake {
		rb.Wake()
	}
}

func (rb *RigidBody) EnableCCD(enabled bool) {
	rb.ccdEnabled = enabled
}

func (rb *RigidBody) IsCCDEnabled() bool {
	return rb.ccdEnabled
}

func (rb *RigidBody) LockedAxes() LockedAxes {
	return rb.lockedAxes
}

func (rb *RigidBody) SetLockedAxes(locks LockedAxes, wake bool) {
	rb.lockedAxes = locks
	if wake {
		rb.Wake()
	}
}

func (rb *RigidBody) SetLinearDamping(d float32)  { rb.linearDamping = d }
func (rb *RigidBody) SetAngularDamping(d float32) { rb.angularDamping = d }
func (rb *RigidBody) LinearDamping() float32      { return rb.linearDamping }
func (rb *RigidBody) AngularDamping() float32     { return rb.angularDamping }

func (rb *RigidBody) Position() Isometry {
	return rb.position
}

// NextPosition is the pose a kinematic body moves to on the next step. For
// other body types it mirrors the current pose.
func (rb *RigidBody) NextPosition() Isometry {
	return rb.nextPosition
}

func (rb *RigidBody) SetPosition(iso Isometry, wake bool) {
	rb.position = iso
	rb.nextPosition = iso
	if wake {
		rb.Wake()
	}
}

func (rb *RigidBody) SetNextKinematicPosition(iso Isometry) {
	rb.nextPosition = iso
	rb.Wake()
}

func (rb *RigidBody) SetNextKinematicRotation(q mgl32.Quat) {
	rb.nextPosition.Rotation = q
	rb.Wake()
}

func (rb *RigidBody) Linvel() mgl32.Vec3 {
	return rb.linvel
}

func (rb *RigidBody) SetLinvel(v mgl32.Vec3, wake bool) {
	rb.linvel = v
	if wake {
		rb.Wake()
	}
}

func (rb *RigidBody) Angvel() mgl32.Vec3 {
	return rb.angvel
}

func (rb *RigidBody) SetAngvel(v mgl32.Vec3, wake bool) {
	rb.angvel = v
	if wake {
		rb.Wake()
	}
}

func (rb *RigidBody) Mass() float32 {
	return rb.mass
}

func (rb *RigidBody) Colliders() []ColliderHandle {
	return rb.colliders
}

func (rb *RigidBody) IsSleeping() bool {
	return rb.sleeping
}

func (rb *RigidBody) Wake() {
	rb.sleeping = false
	rb.idleTime = 0
}

// invMass is zero for non-dynamic and massless bodies, which makes them
// immovable in the solver.
func (rb *RigidBody) invMass() float32 {
	if rb.bodyType != RigidBodyDynamic || rb.mass <= 0 {
		return 0
	}
	return 1 / rb.mass
}

// RigidBodyBuilder assembles a RigidBody for insertion into a RigidBodySet.
type RigidBodyBuilder struct {
	rb RigidBody
}

func NewRigidBodyBuilder(t RigidBodyType) RigidBodyBuilder {
	return RigidBodyBuilder{rb: RigidBody{
		bodyType:     t,
		position:     IdentityIsometry(),
		nextPosition: IdentityIsometry(),
	}}
}

func (b RigidBodyBuilder) Translation(v mgl32.Vec3) RigidBodyBuilder {
	b.rb.position.Translation = v
	return b
}

// Rotation takes a rotation vector (axis scaled by angle), the engine's
// canonical rotation encoding at the boundary.
func (b RigidBodyBuilder) Rotation(scaledAxis mgl32.Vec3) RigidBodyBuilder {
	b.rb.position.Rotation = QuatFromScaledAxis(scaledAxis)
	return b
}

func (b RigidBodyBuilder) LinearDamping(d float32) RigidBodyBuilder {
	b.rb.linearDamping = d
	return b
}

func (b RigidBodyBuilder) AngularDamping(d float32) RigidBodyBuilder {
	b.rb.angularDamping = d
	return b
}

func (b RigidBodyBuilder) CCDEnabled(enabled bool) RigidBodyBuilder {
	b.rb.ccdEnabled = enabled
	return b
}

func (b RigidBodyBuilder) LockedAxes(locks LockedAxes) RigidBodyBuilder {
	b.rb.lockedAxes = locks
	return b
}

func (b RigidBodyBuilder) Build() RigidBody {
	b.rb.nextPosition = b.rb.position
	return b.rb
}
