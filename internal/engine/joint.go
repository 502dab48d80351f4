package engine

import "github.com/go-gl/mathgl/mgl32"

type JointKind int

const (
	JointFixed JointKind = iota
	JointSpherical
	JointRevolute
	JointPrismatic
)

// GenericJoint is the shared description for all impulse joint kinds.
// Fixed and spherical joints use the full local frames; revolute and
// prismatic use the frame translations as anchors plus LocalAxis.
type GenericJoint struct {
	Kind            JointKind
	LocalFrame1     Isometry
	LocalFrame2     Isometry
	LocalAxis       mgl32.Vec3
	LimitsEnabled   bool
	Limits          [2]float32
	ContactsEnabled bool
}

// ImpulseJoint connects two rigid bodies with a GenericJoint description.
type ImpulseJoint struct {
	Body1 RigidBodyHandle
	Body2 RigidBodyHandle
	Data  GenericJoint
}

type FixedJointBuilder struct {
	j GenericJoint
}

func NewFixedJointBuilder() FixedJointBuilder {
	return FixedJointBuilder{j: GenericJoint{
		Kind:        JointFixed,
		LocalFrame1: IdentityIsometry(),
		LocalFrame2: IdentityIsometry(),
	}}
}

func (b FixedJointBuilder) LocalFrame1(f Isometry) FixedJointBuilder {
	b.j.LocalFrame1 = f
	return b
}

func (b FixedJointBuilder) LocalFrame2(f Isometry) FixedJointBuilder {
	b.j.LocalFrame2 = f
	return b
}

func (b FixedJointBuilder) ContactsEnabled(enabled bool) FixedJointBuilder {
	b.j.ContactsEnabled = enabled
	return b
}

func (b FixedJointBuilder) Build() GenericJoint {
	return b.j
}

type SphericalJointBuilder struct {
	j GenericJoint
}

func NewSphericalJointBuilder() SphericalJointBuilder {
	return SphericalJointBuilder{j: GenericJoint{
		Kind:        JointSpherical,
		LocalFrame1: IdentityIsometry(),
		LocalFrame2: IdentityIsometry(),
	}}
}

func (b SphericalJointBuilder) LocalFrame1(f Isometry) SphericalJointBuilder {
	b.j.LocalFrame1 = f
	return b
}

func (b SphericalJointBuilder) LocalFrame2(f Isometry) SphericalJointBuilder {
	b.j.LocalFrame2 = f
	return b
}

func (b SphericalJointBuilder) ContactsEnabled(enabled bool) SphericalJointBuilder {
	b.j.ContactsEnabled = enabled
	return b
}

func (b SphericalJointBuilder) Build() GenericJoint {
	return b.j
}

type RevoluteJointBuilder struct {
	j GenericJoint
}

// NewRevoluteJointBuilder creates a hinge about axis, which must be unit
// length.
func NewRevoluteJointBuilder(axis mgl32.Vec3) RevoluteJointBuilder {
	return RevoluteJointBuilder{j: GenericJoint{
		Kind:        JointRevolute,
		LocalFrame1: IdentityIsometry(),
		LocalFrame2: IdentityIsometry(),
		LocalAxis:   axis,
	}}
}

func (b RevoluteJointBuilder) LocalAnchor1(p mgl32.Vec3) RevoluteJointBuilder {
	b.j.LocalFrame1.Translation = p
	return b
}

func (b RevoluteJointBuilder) LocalAnchor2(p mgl32.Vec3) RevoluteJointBuilder {
	b.j.LocalFrame2.Translation = p
	return b
}

func (b RevoluteJointBuilder) ContactsEnabled(enabled bool) RevoluteJointBuilder {
	b.j.ContactsEnabled = enabled
	return b
}

func (b RevoluteJointBuilder) Build() GenericJoint {
	return b.j
}

type PrismaticJointBuilder struct {
	j GenericJoint
}

// NewPrismaticJointBuilder creates a slider along axis, which must be unit
// length.
func NewPrismaticJointBuilder(axis mgl32.Vec3) PrismaticJointBuilder {
	return PrismaticJointBuilder{j: GenericJoint{
		Kind:        JointPrismatic,
		LocalFrame1: IdentityIsometry(),
		LocalFrame2: IdentityIsometry(),
		LocalAxis:   axis,
	}}
}

func (b PrismaticJointBuilder) LocalAnchor1(p mgl32.Vec3) PrismaticJointBuilder {
	b.j.LocalFrame1.Translation = p
	return b
}

func (b PrismaticJointBuilder) LocalAnchor2(p mgl32.Vec3) PrismaticJointBuilder {
	b.j.LocalFrame2.Translation = p
	return b
}

func (b PrismaticJointBuilder) Limits(limits [2]float32) PrismaticJointBuilder {
	b.j.LimitsEnabled = true
	b.j.Limits = limits
	return b
}

func (b PrismaticJointBuilder) ContactsEnabled(enabled bool) PrismaticJointBuilder {
	b.j.ContactsEnabled = enabled
	return b
}

func (b PrismaticJointBuilder) Build() GenericJoint {
	return b.j
}
