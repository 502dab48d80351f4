package engine

// Typed handles keep the three entity kinds from being mixed up at call
// sites. They all carry the same generational encoding.
type (
	RigidBodyHandle      Handle
	ColliderHandle       Handle
	ImpulseJointHandle   Handle
	MultibodyJointHandle Handle
)

// RigidBodySet owns every rigid body in a world.
type RigidBodySet struct {
	arena Arena[RigidBody]
}

func NewRigidBodySet() *RigidBodySet {
	return &RigidBodySet{}
}

func (s *RigidBodySet) Insert(rb RigidBody) RigidBodyHandle {
	return RigidBodyHandle(s.arena.Insert(rb))
}

func (s *RigidBodySet) Get(h RigidBodyHandle) *RigidBody {
	return s.arena.Get(Handle(h))
}

func (s *RigidBodySet) Len() int {
	return s.arena.Len()
}

func (s *RigidBodySet) Each(fn func(RigidBodyHandle, *RigidBody)) {
	s.arena.Each(func(h Handle, rb *RigidBody) {
		fn(RigidBodyHandle(h), rb)
	})
}

// Remove deletes a body together with its dependent structures: attached
// colliders (removed or detached in place), and any joints referencing the
// body. Bodies previously jointed to it are woken.
func (s *RigidBodySet) Remove(
	h RigidBodyHandle,
	islands *IslandManager,
	colliders *ColliderSet,
	impulseJoints *ImpulseJointSet,
	multibodyJoints *MultibodyJointSet,
	removeAttachedColliders bool,
) bool {
	rb, ok := s.arena.Remove(Handle(h))
	if !ok {
		return false
	}
	for _, ch := range rb.colliders {
		if removeAttachedColliders {
			colliders.arena.Remove(Handle(ch))
			continue
		}
		if c := colliders.Get(ch); c != nil {
			c.hasParent = false
			c.pose = rb.position
		}
	}
	impulseJoints.RemoveAttachedTo(h, s, true)
	multibodyJoints.RemoveAttachedTo(h)
	islands.BodyRemoved(h)
	return true
}

// ColliderSet owns every collider in a world.
type ColliderSet struct {
	arena Arena[Collider]
}

func NewColliderSet() *ColliderSet {
	return &ColliderSet{}
}

func (s *ColliderSet) Insert(c Collider) ColliderHandle {
	return ColliderHandle(s.arena.Insert(c))
}

func (s *ColliderSet) Get(h ColliderHandle) *Collider {
	return s.arena.Get(Handle(h))
}

func (s *ColliderSet) Len() int {
	return s.arena.Len()
}

func (s *ColliderSet) Each(fn func(ColliderHandle, *Collider)) {
	s.arena.Each(func(h Handle, c *Collider) {
		fn(ColliderHandle(h), c)
	})
}

func (s *ColliderSet) Remove(h ColliderHandle, bodies *RigidBodySet) bool {
	c, ok := s.arena.Remove(Handle(h))
	if !ok {
		return false
	}
	if c.hasParent {
		if rb := bodies.Get(c.parent); rb != nil {
			rb.colliders = removeHandle(rb.colliders, h)
			recomputeMassProperties(rb, s)
		}
	}
	return true
}

// SetParent attaches the collider to a body (replacing any previous parent)
// or detaches it when parent is nil. Mass properties of the affected bodies
// are refreshed.
func (s *ColliderSet) SetParent(h ColliderHandle, parent *RigidBodyHandle, bodies *RigidBodySet) {
	c := s.Get(h)
	if c == nil {
		return
	}
	if c.hasParent {
		if old := bodies.Get(c.parent); old != nil {
			old.colliders = removeHandle(old.colliders, h)
			recomputeMassProperties(old, s)
			c.pose = old.position
		}
		c.hasParent = false
	}
	if parent == nil {
		return
	}
	rb := bodies.Get(*parent)
	if rb == nil {
		return
	}
	c.parent = *parent
	c.hasParent = true
	rb.colliders = append(rb.colliders, h)
	recomputeMassProperties(rb, s)
}

// WorldPose resolves the collider's pose: the parent body's pose when
// attached, its own otherwise.
func (s *ColliderSet) WorldPose(c *Collider, bodies *RigidBodySet) Isometry {
	if c.hasParent {
		if rb := bodies.Get(c.parent); rb != nil {
			return rb.position
		}
	}
	return c.pose
}

func removeHandle(list []ColliderHandle, h ColliderHandle) []ColliderHandle {
	for i, v := range list {
		if v == h {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// recomputeMassProperties rebuilds body mass from collider densities and
// caches the smallest shape extent for CCD.
func recomputeMassProperties(rb *RigidBody, colliders *ColliderSet) {
	var mass float32
	var minExtent float32
	for _, ch := range rb.colliders {
		c := colliders.Get(ch)
		if c == nil {
			continue
		}
		mass += c.density * c.shape.Volume()
		if ext := c.shape.MinExtent(); minExtent == 0 || ext < minExtent {
			minExtent = ext
		}
	}
	rb.mass = mass
	rb.minExtent = minExtent
}

// ImpulseJointSet owns the impulse-based joints of a world.
type ImpulseJointSet struct {
	arena Arena[ImpulseJoint]
}

func NewImpulseJointSet() *ImpulseJointSet {
	return &ImpulseJointSet{}
}

func (s *ImpulseJointSet) Insert(body1, body2 RigidBodyHandle, data GenericJoint, bodies *RigidBodySet, wake bool) ImpulseJointHandle {
	h := s.arena.Insert(ImpulseJoint{Body1: body1, Body2: body2, Data: data})
	if wake {
		wakeBody(bodies, body1)
		wakeBody(bodies, body2)
	}
	return ImpulseJointHandle(h)
}

func (s *ImpulseJointSet) Get(h ImpulseJointHandle) *ImpulseJoint {
	return s.arena.Get(Handle(h))
}

func (s *ImpulseJointSet) Len() int {
	return s.arena.Len()
}

func (s *ImpulseJointSet) Each(fn func(ImpulseJointHandle, *ImpulseJoint)) {
	s.arena.Each(func(h Handle, j *ImpulseJoint) {
		fn(ImpulseJointHandle(h), j)
	})
}

// Remove detaches the joint without touching the connected bodies beyond
// waking them.
func (s *ImpulseJointSet) Remove(h ImpulseJointHandle, bodies *RigidBodySet, wake bool) bool {
	j, ok := s.arena.Remove(Handle(h))
	if !ok {
		return false
	}
	if wake {
		wakeBody(bodies, j.Body1)
		wakeBody(bodies, j.Body2)
	}
	return true
}

func (s *ImpulseJointSet) RemoveAttachedTo(body RigidBodyHandle, bodies *RigidBodySet, wake bool) {
	var doomed []ImpulseJointHandle
	s.Each(func(h ImpulseJointHandle, j *ImpulseJoint) {
		if j.Body1 == body || j.Body2 == body {
			doomed = append(doomed, h)
		}
	})
	for _, h := range doomed {
		s.Remove(h, bodies, wake)
	}
}

func wakeBody(bodies *RigidBodySet, h RigidBodyHandle) {
	if rb := bodies.Get(h); rb != nil {
		rb.Wake()
	}
}

// MultibodyJoint mirrors ImpulseJoint for reduced-coordinate articulations.
// The boundary never creates these directly, but body removal must still
// clean them up.
type MultibodyJoint struct {
	Body1 RigidBodyHandle
	Body2 RigidBodyHandle
	Data  GenericJoint
}

type MultibodyJointSet struct {
	arena Arena[MultibodyJoint]
}

func NewMultibodyJointSet() *MultibodyJointSet {
	return &MultibodyJointSet{}
}

func (s *MultibodyJointSet) Insert(body1, body2 RigidBodyHandle, data GenericJoint) MultibodyJointHandle {
	return MultibodyJointHandle(s.arena.Insert(MultibodyJoint{Body1: body1, Body2: body2, Data: data}))
}

func (s *MultibodyJointSet) Len() int {
	return s.arena.Len()
}

func (s *MultibodyJointSet) RemoveAttachedTo(body RigidBodyHandle) {
	var doomed []Handle
	s.arena.Each(func(h Handle, j *MultibodyJoint) {
		if j.Body1 == body || j.Body2 == body {
			doomed = append(doomed, h)
		}
	})
	for _, h := range doomed {
		s.arena.Remove(h)
	}
}
