package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Isometry is a rigid transform: rotation followed by translation.
type Isometry struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
}

func IdentityIsometry() Isometry {
	return Isometry{Rotation: mgl32.QuatIdent()}
}

func (iso Isometry) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return iso.Rotation.Rotate(p).Add(iso.Translation)
}

func (iso Isometry) InverseTransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	return iso.Rotation.Inverse().Rotate(p.Sub(iso.Translation))
}

// InverseTransformDir rotates a direction into the local frame without
// translating it.
func (iso Isometry) InverseTransformDir(d mgl32.Vec3) mgl32.Vec3 {
	return iso.Rotation.Inverse().Rotate(d)
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// QuatFromScaledAxis converts a rotation vector (axis scaled by angle in
// radians) to a unit quaternion. The zero vector maps to identity.
func QuatFromScaledAxis(v mgl32.Vec3) mgl32.Quat {
	angle := v.Len()
	if angle < 1e-8 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(angle, v.Mul(1/angle))
}

// ScaledAxisFromQuat extracts the rotation vector of a unit quaternion.
// Degenerate (near-identity) rotations fall back to the +Z axis with a zero
// angle, matching the boundary's canonical rotation encoding.
func ScaledAxisFromQuat(q mgl32.Quat) mgl32.Vec3 {
	w := mgl32.Clamp(q.W, -1, 1)
	angle := 2 * float32(math.Acos(float64(w)))
	s := sqrt32(1 - w*w)
	if s < 1e-6 {
		return mgl32.Vec3{0, 0, angle}
	}
	return q.V.Mul(angle / s)
}
