package bridge

// RigidBodyType selects how the solver treats a body.
type RigidBodyType int32

const (
	BodyDynamic RigidBodyType = iota
	BodyFixed
	BodyKinematicPositionBased
	BodyKinematicVelocityBased
)

// ForceMode selects how AddForce and AddTorque scale their input before
// folding it into velocity. The values match the host's enum and are not
// contiguous.
type ForceMode int32

const (
	ForceModeForce          ForceMode = 0
	ForceModeImpulse        ForceMode = 1
	ForceModeVelocityChange ForceMode = 2
	ForceModeAcceleration   ForceMode = 5
)

// Axis-lock constraint flags in the host's bit order. The engine's internal
// locked-axes encoding uses a different order; the two are translated at the
// boundary.
const (
	FreezePositionX uint32 = 1 << 1
	FreezePositionY uint32 = 1 << 2
	FreezePositionZ uint32 = 1 << 3
	FreezeRotationX uint32 = 1 << 4
	FreezeRotationY uint32 = 1 << 5
	FreezeRotationZ uint32 = 1 << 6
)

// Transform is a body pose as the host consumes it: quaternion components
// (x, y, z, w) plus a translation.
type Transform struct {
	Rotation [4]float32
	Position [3]float32
}

// RaycastHit is the output record filled by CastRay. UV is always zero; the
// underlying query does not compute texture coordinates.
type RaycastHit struct {
	Point    [3]float32
	Normal   [3]float32
	FaceID   uint32
	Distance float32
	UV       [2]float32
	Collider ColliderHandle
}

// CollisionEvent reports that two colliders started or stopped touching
// during one Solve call.
type CollisionEvent struct {
	Collider1 ColliderHandle
	Collider2 ColliderHandle
	Started   bool
}

// EventBuffer holds one Solve call's collision events. Ownership passes to
// the caller when Solve returns it; the caller must hand it back to
// FreeCollisionEvents exactly once.
type EventBuffer struct {
	events []CollisionEvent
}

func (b *EventBuffer) Events() []CollisionEvent {
	return b.events
}

func (b *EventBuffer) Len() int {
	return len(b.events)
}
