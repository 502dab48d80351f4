package engine

import "github.com/go-gl/mathgl/mgl32"

// IslandManager tracks activity so that settled bodies stop consuming solver
// work. A dynamic body sleeps once its velocity stays below the thresholds
// for TimeUntilSleep seconds; contact with an awake body wakes it again.
type IslandManager struct {
	SleepLinearThreshold  float32
	SleepAngularThreshold float32
	TimeUntilSleep        float32
}

func NewIslandManager() *IslandManager {
	return &IslandManager{
		SleepLinearThreshold:  0.05,
		SleepAngularThreshold: 0.05,
		TimeUntilSleep:        1.0,
	}
}

// UpdateSleep advances one body's idle timer after integration.
func (im *IslandManager) UpdateSleep(rb *RigidBody, dt float32) {
	if rb.bodyType != RigidBodyDynamic || rb.sleeping {
		return
	}
	linThresh := im.SleepLinearThreshold * im.SleepLinearThreshold
	angThresh := im.SleepAngularThreshold * im.SleepAngularThreshold
	if rb.linvel.LenSqr() < linThresh && rb.angvel.LenSqr() < angThresh {
		rb.idleTime += dt
		if rb.idleTime >= im.TimeUntilSleep {
			rb.sleeping = true
			rb.linvel = mgl32.Vec3{}
			rb.angvel = mgl32.Vec3{}
		}
	} else {
		rb.idleTime = 0
	}
}

// PropagateWake wakes sleeping bodies that share a contact with an awake
// one, so stacks collapse correctly when support is removed.
func (im *IslandManager) PropagateWake(manifolds []ContactManifold, bodies *RigidBodySet, colliders *ColliderSet) {
	for _, m := range manifolds {
		a := bodyOf(colliders, bodies, m.ColliderA)
		b := bodyOf(colliders, bodies, m.ColliderB)
		if a == nil || b == nil {
			continue
		}
		aAwake := a.bodyType == RigidBodyDynamic && !a.sleeping
		bAwake := b.bodyType == RigidBodyDynamic && !b.sleeping
		if aAwake && b.sleeping {
			b.Wake()
		}
		if bAwake && a.sleeping {
			a.Wake()
		}
	}
}

// BodyRemoved is the island bookkeeping hook for body removal. With per-body
// sleep state there is no island list to fix up; the hook exists so removal
// keeps the same shape as the rest of the step pipeline.
func (im *IslandManager) BodyRemoved(RigidBodyHandle) {}

func bodyOf(colliders *ColliderSet, bodies *RigidBodySet, h ColliderHandle) *RigidBody {
	c := colliders.Get(h)
	if c == nil {
		return nil
	}
	parent, ok := c.Parent()
	if !ok {
		return nil
	}
	return bodies.Get(parent)
}
