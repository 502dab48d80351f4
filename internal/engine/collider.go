package engine

// ActiveEvents selects which events a collider generates during a step.
type ActiveEvents uint32

const (
	ActiveEventsNone ActiveEvents = 0
	// CollisionEvents enables start/stop overlap events for the collider.
	CollisionEvents ActiveEvents = 1 << 0
)

// Collider is a piece of collision geometry. It either floats free at its
// own world pose or follows a parent rigid body.
type Collider struct {
	shape        Shape
	density      float32
	sensor       bool
	activeEvents ActiveEvents

	parent    RigidBodyHandle
	hasParent bool
	// pose is the world pose while unattached; attached colliders follow
	// the parent body.
	pose Isometry
}

func (c *Collider) Shape() Shape {
	return c.shape
}

func (c *Collider) Density() float32 {
	return c.density
}

func (c *Collider) IsSensor() bool {
	return c.sensor
}

func (c *Collider) ActiveEvents() ActiveEvents {
	return c.activeEvents
}

func (c *Collider) Parent() (RigidBodyHandle, bool) {
	return c.parent, c.hasParent
}

// ColliderBuilder assembles a Collider for insertion into a ColliderSet.
type ColliderBuilder struct {
	c Collider
}

func NewColliderBuilder(shape Shape) ColliderBuilder {
	return ColliderBuilder{c: Collider{
		shape:   shape,
		density: 1.0,
		pose:    IdentityIsometry(),
	}}
}

func (b ColliderBuilder) Density(d float32) ColliderBuilder {
	b.c.density = d
	return b
}

func (b ColliderBuilder) Sensor(sensor bool) ColliderBuilder {
	b.c.sensor = sensor
	return b
}

func (b ColliderBuilder) ActiveEvents(events ActiveEvents) ColliderBuilder {
	b.c.activeEvents = events
	return b
}

func (b ColliderBuilder) Pose(pose Isometry) ColliderBuilder {
	b.c.pose = pose
	return b
}

func (b ColliderBuilder) Build() Collider {
	return b.c
}
