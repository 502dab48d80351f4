package bridge

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/solumlabs/physbridge/internal/engine"
)

func quatFromComponents(x, y, z, w float32) mgl32.Quat {
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

// rotationVectorFromQuat normalizes the host quaternion and converts it to
// the engine's axis-angle rotation vector. Degenerate quaternions resolve to
// a rotation about the z axis.
func rotationVectorFromQuat(x, y, z, w float32) mgl32.Vec3 {
	return engine.ScaledAxisFromQuat(quatFromComponents(x, y, z, w).Normalize())
}

// pointsFromFlat reinterprets a flat float array as 3-component points.
// count is the number of points, not floats.
func pointsFromFlat(flat []float32, count int) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, 0, count)
	for i := 0; i < count; i++ {
		points = append(points, mgl32.Vec3{flat[i*3], flat[i*3+1], flat[i*3+2]})
	}
	return points
}

// trianglesFromFlat reinterprets a flat index array as index triples.
// count is the number of triangles, not indices.
func trianglesFromFlat(flat []uint32, count int) [][3]uint32 {
	tris := make([][3]uint32, 0, count)
	for i := 0; i < count; i++ {
		tris = append(tris, [3]uint32{flat[i*3], flat[i*3+1], flat[i*3+2]})
	}
	return tris
}

// hostConstraintsToLockedAxes translates the host's freeze bitmask into the
// engine's locked-axes encoding. The bit orders differ; neither side is a
// shift of the other.
func hostConstraintsToLockedAxes(constraints uint32) engine.LockedAxes {
	var locks engine.LockedAxes
	pairs := [6]struct {
		host uint32
		eng  engine.LockedAxes
	}{
		{FreezePositionX, engine.TranslationLockedX},
		{FreezePositionY, engine.TranslationLockedY},
		{FreezePositionZ, engine.TranslationLockedZ},
		{FreezeRotationX, engine.RotationLockedX},
		{FreezeRotationY, engine.RotationLockedY},
		{FreezeRotationZ, engine.RotationLockedZ},
	}
	for _, p := range pairs {
		if constraints&p.host != 0 {
			locks |= p.eng
		}
	}
	return locks
}

func lockedAxesToHostConstraints(locks engine.LockedAxes) uint32 {
	var constraints uint32
	pairs := [6]struct {
		host uint32
		eng  engine.LockedAxes
	}{
		{FreezePositionX, engine.TranslationLockedX},
		{FreezePositionY, engine.TranslationLockedY},
		{FreezePositionZ, engine.TranslationLockedZ},
		{FreezeRotationX, engine.RotationLockedX},
		{FreezeRotationY, engine.RotationLockedY},
		{FreezeRotationZ, engine.RotationLockedZ},
	}
	for _, p := range pairs {
		if locks&p.eng != 0 {
			constraints |= p.host
		}
	}
	return constraints
}

// cancelAxisVelocity zeroes the velocity components along every locked axis
// so a freshly applied lock does not carry residual drift into the next
// step.
func cancelAxisVelocity(locks engine.LockedAxes, rb *engine.RigidBody) {
	linvel := rb.Linvel()
	angvel := rb.Angvel()
	for axis := 0; axis < 3; axis++ {
		if locks&(engine.TranslationLockedX<<axis) != 0 {
			linvel[axis] = 0
		}
		if locks&(engine.RotationLockedX<<axis) != 0 {
			angvel[axis] = 0
		}
	}
	rb.SetLinvel(linvel, false)
	rb.SetAngvel(angvel, false)
}

func bodyTypeToEngine(t RigidBodyType) engine.RigidBodyType {
	switch t {
	case BodyFixed:
		return engine.RigidBodyFixed
	case BodyKinematicPositionBased:
		return engine.RigidBodyKinematicPositionBased
	case BodyKinematicVelocityBased:
		return engine.RigidBodyKinematicVelocityBased
	default:
		return engine.RigidBodyDynamic
	}
}
