package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type worldFixture struct {
	params          IntegrationParameters
	pipeline        *Pipeline
	islands         *IslandManager
	broadPhase      *BroadPhase
	narrowPhase     *NarrowPhase
	ccd             *CCDSolver
	queries         *QueryPipeline
	bodies          *RigidBodySet
	colliders       *ColliderSet
	impulseJoints   *ImpulseJointSet
	multibodyJoints *MultibodyJointSet
}

func newWorldFixture() *worldFixture {
	params := DefaultIntegrationParameters()
	params.Dt = 1.0 / 50.0
	return &worldFixture{
		params:          params,
		pipeline:        NewPipeline(),
		islands:         NewIslandManager(),
		broadPhase:      NewBroadPhase(),
		narrowPhase:     NewNarrowPhase(),
		ccd:             NewCCDSolver(),
		queries:         NewQueryPipeline(),
		bodies:          NewRigidBodySet(),
		colliders:       NewColliderSet(),
		impulseJoints:   NewImpulseJointSet(),
		multibodyJoints: NewMultibodyJointSet(),
	}
}

func (f *worldFixture) step(gravity mgl32.Vec3, collector EventCollector) {
	f.pipeline.Step(gravity, &f.params, f.islands, f.broadPhase, f.narrowPhase,
		f.bodies, f.colliders, f.impulseJoints, f.multibodyJoints, f.ccd, f.queries, collector)
}

func (f *worldFixture) addBody(rb RigidBody, shape Shape) (RigidBodyHandle, ColliderHandle) {
	bh := f.bodies.Insert(rb)
	ch := f.colliders.Insert(NewColliderBuilder(shape).ActiveEvents(CollisionEvents).Build())
	parent := bh
	f.colliders.SetParent(ch, &parent, f.bodies)
	return bh, ch
}

func TestStepIntegratesGravity(t *testing.T) {
	f := newWorldFixture()
	bh, _ := f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Translation(mgl32.Vec3{0, 10, 0}).Build(), NewBall(0.5))

	f.step(mgl32.Vec3{0, -9.81, 0}, nil)

	rb := f.bodies.Get(bh)
	wantVy := float32(-9.81) / 50
	if v := rb.Linvel()[1]; v > wantVy+1e-3 || v < wantVy-1e-3 {
		t.Errorf("expected vy %f after one step, got %f", wantVy, v)
	}
	if rb.Position().Translation[1] >= 10 {
		t.Errorf("body did not fall: y=%f", rb.Position().Translation[1])
	}
}

func TestBodySettlesOnGround(t *testing.T) {
	f := newWorldFixture()
	f.addBody(NewRigidBodyBuilder(RigidBodyFixed).Translation(mgl32.Vec3{0, -0.5, 0}).Build(), NewCuboid(10, 0.5, 10))
	bh, _ := f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Translation(mgl32.Vec3{0, 2, 0}).Build(), NewBall(0.5))

	for i := 0; i < 300; i++ {
		f.step(mgl32.Vec3{0, -9.81, 0}, nil)
	}

	rb := f.bodies.Get(bh)
	y := rb.Position().Translation[1]
	// Resting height is the ball radius above the ground top at y=0.
	if y < 0.4 || y > 0.6 {
		t.Errorf("expected ball to rest near y=0.5, got %f", y)
	}
	if !rb.IsSleeping() {
		t.Error("expected settled ball to sleep")
	}
}

func TestFixedBodyNeverMoves(t *testing.T) {
	f := newWorldFixture()
	bh, _ := f.addBody(NewRigidBodyBuilder(RigidBodyFixed).Translation(mgl32.Vec3{1, 2, 3}).Build(), NewCuboid(1, 1, 1))

	for i := 0; i < 50; i++ {
		f.step(mgl32.Vec3{0, -9.81, 0}, nil)
	}

	if pos := f.bodies.Get(bh).Position().Translation; !vecApprox(pos, mgl32.Vec3{1, 2, 3}, 1e-6) {
		t.Errorf("fixed body moved to %v", pos)
	}
}

func TestLockedTranslationAxisHolds(t *testing.T) {
	f := newWorldFixture()
	bh, _ := f.addBody(
		NewRigidBodyBuilder(RigidBodyDynamic).
			Translation(mgl32.Vec3{0, 5, 0}).
			LockedAxes(TranslationLockedY).
			Build(),
		NewBall(0.5))

	for i := 0; i < 50; i++ {
		f.step(mgl32.Vec3{0, -9.81, 0}, nil)
	}

	rb := f.bodies.Get(bh)
	if y := rb.Position().Translation[1]; y != 5 {
		t.Errorf("y-locked body drifted to %f", y)
	}
	if vy := rb.Linvel()[1]; vy != 0 {
		t.Errorf("y-locked body accumulated vy %f", vy)
	}
}

func TestKinematicPositionBasedFollowsNextPose(t *testing.T) {
	f := newWorldFixture()
	bh, _ := f.addBody(NewRigidBodyBuilder(RigidBodyKinematicPositionBased).Build(), NewBall(0.5))

	rb := f.bodies.Get(bh)
	rb.SetNextKinematicPosition(Isometry{Translation: mgl32.Vec3{1, 0, 0}, Rotation: mgl32.QuatIdent()})
	f.step(mgl32.Vec3{0, -9.81, 0}, nil)

	if pos := rb.Position().Translation; !vecApprox(pos, mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("expected kinematic body at (1,0,0), got %v", pos)
	}
	// The scripted move implies a velocity for contact purposes.
	if vx := rb.Linvel()[0]; vx < 49 || vx > 51 {
		t.Errorf("expected derived vx 50, got %f", vx)
	}
}

func TestKinematicVelocityBasedAdvances(t *testing.T) {
	f := newWorldFixture()
	bh, _ := f.addBody(NewRigidBodyBuilder(RigidBodyKinematicVelocityBased).Build(), NewBall(0.5))

	rb := f.bodies.Get(bh)
	rb.SetLinvel(mgl32.Vec3{2, 0, 0}, true)
	for i := 0; i < 25; i++ {
		f.step(mgl32.Vec3{0, -9.81, 0}, nil)
	}

	// 2 m/s for half a second; gravity must not apply.
	if pos := rb.Position().Translation; !vecApprox(pos, mgl32.Vec3{1, 0, 0}, 1e-4) {
		t.Errorf("expected (1,0,0), got %v", pos)
	}
}

func TestStepEmitsEventsThroughCollector(t *testing.T) {
	f := newWorldFixture()
	f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Build(), NewBall(0.5))
	f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Translation(mgl32.Vec3{0.5, 0, 0}).Build(), NewBall(0.5))

	list := NewEventList()
	f.step(mgl32.Vec3{}, list)

	events := list.Drain()
	if len(events) != 1 || !events[0].Started() {
		t.Fatalf("expected one started event, got %v", events)
	}
	// Drain resets the list.
	if len(list.Drain()) != 0 {
		t.Error("drain did not reset the event list")
	}
}

func TestJointDisablesContacts(t *testing.T) {
	f := newWorldFixture()
	b1, _ := f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Build(), NewBall(0.5))
	b2, _ := f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Translation(mgl32.Vec3{0.5, 0, 0}).Build(), NewBall(0.5))

	joint := NewSphericalJointBuilder().ContactsEnabled(false).Build()
	f.impulseJoints.Insert(b1, b2, joint, f.bodies, false)

	list := NewEventList()
	f.step(mgl32.Vec3{}, list)

	if events := list.Drain(); len(events) != 0 {
		t.Errorf("jointed pair with contacts disabled produced events: %v", events)
	}
}

func TestSphericalJointHoldsAnchors(t *testing.T) {
	f := newWorldFixture()
	b1, _ := f.addBody(NewRigidBodyBuilder(RigidBodyFixed).Translation(mgl32.Vec3{0, 2, 0}).Build(), NewBall(0.1))
	b2, _ := f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Translation(mgl32.Vec3{0, 1, 0}).Build(), NewBall(0.1))

	joint := NewSphericalJointBuilder().
		LocalFrame1(Isometry{Translation: mgl32.Vec3{0, -0.5, 0}, Rotation: mgl32.QuatIdent()}).
		LocalFrame2(Isometry{Translation: mgl32.Vec3{0, 0.5, 0}, Rotation: mgl32.QuatIdent()}).
		ContactsEnabled(false).
		Build()
	f.impulseJoints.Insert(b1, b2, joint, f.bodies, true)

	for i := 0; i < 200; i++ {
		f.step(mgl32.Vec3{0, -9.81, 0}, nil)
	}

	// Anchor on b1 sits at (0,1.5,0); b2's anchor is 0.5 above its center,
	// so the body should hang near y=1.
	rb2 := f.bodies.Get(b2)
	y := rb2.Position().Translation[1]
	if y < 0.8 || y > 1.2 {
		t.Errorf("expected jointed body to hang near y=1, got %f", y)
	}
}

func TestCCDStopsFastBodyAtThinObstacle(t *testing.T) {
	f := newWorldFixture()
	f.addBody(NewRigidBodyBuilder(RigidBodyFixed).Build(), NewCuboid(5, 0.05, 5))

	swept, _ := f.addBody(
		NewRigidBodyBuilder(RigidBodyDynamic).
			Translation(mgl32.Vec3{0, 5, 0}).
			CCDEnabled(true).
			Build(),
		NewBall(0.1))
	f.bodies.Get(swept).SetLinvel(mgl32.Vec3{0, -500, 0}, true)

	// Identical body without CCD: covers 10 units in one step and jumps the
	// 0.1-thick slab entirely.
	plain, _ := f.addBody(
		NewRigidBodyBuilder(RigidBodyDynamic).
			Translation(mgl32.Vec3{3, 5, 0}).
			Build(),
		NewBall(0.1))
	f.bodies.Get(plain).SetLinvel(mgl32.Vec3{0, -500, 0}, true)

	f.step(mgl32.Vec3{0, -9.81, 0}, nil)

	rb := f.bodies.Get(swept)
	if y := rb.Position().Translation[1]; y < 0.04 || y > 0.5 {
		t.Errorf("swept body should stop at the slab surface, got y=%f", y)
	}
	if vy := rb.Linvel()[1]; vy < -1 {
		t.Errorf("expected contact to absorb the impact velocity, got vy=%f", vy)
	}
	if y := f.bodies.Get(plain).Position().Translation[1]; y > -4 {
		t.Errorf("body without ccd should pass the slab in one step, got y=%f", y)
	}
}

func TestCCDSubsteps(t *testing.T) {
	params := DefaultIntegrationParameters()
	params.Dt = 1.0 / 50.0
	params.MaxCCDSubsteps = 16
	ccd := NewCCDSolver()

	slow := NewRigidBodyBuilder(RigidBodyDynamic).CCDEnabled(true).Build()
	slow.mass = 1
	slow.minExtent = 1
	slow.linvel = mgl32.Vec3{1, 0, 0}
	if n := ccd.Substeps(&slow, params.Dt, &params); n != 1 {
		t.Errorf("slow body needs 1 substep, got %d", n)
	}

	fast := NewRigidBodyBuilder(RigidBodyDynamic).CCDEnabled(true).Build()
	fast.mass = 1
	fast.minExtent = 0.1
	fast.linvel = mgl32.Vec3{100, 0, 0}
	if n := ccd.Substeps(&fast, params.Dt, &params); n <= 1 {
		t.Errorf("fast body needs multiple substeps, got %d", n)
	}

	noCCD := NewRigidBodyBuilder(RigidBodyDynamic).Build()
	noCCD.minExtent = 0.1
	noCCD.linvel = mgl32.Vec3{100, 0, 0}
	if n := ccd.Substeps(&noCCD, params.Dt, &params); n != 1 {
		t.Errorf("body without ccd takes 1 substep, got %d", n)
	}
}

func TestRemoveBodyCleansUpDependents(t *testing.T) {
	f := newWorldFixture()
	b1, c1 := f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Build(), NewBall(0.5))
	b2, _ := f.addBody(NewRigidBodyBuilder(RigidBodyDynamic).Translation(mgl32.Vec3{2, 0, 0}).Build(), NewBall(0.5))

	jh := f.impulseJoints.Insert(b1, b2, NewSphericalJointBuilder().Build(), f.bodies, false)

	if !f.bodies.Remove(b1, f.islands, f.colliders, f.impulseJoints, f.multibodyJoints, true) {
		t.Fatal("remove failed")
	}
	if f.bodies.Get(b1) != nil {
		t.Error("removed body still resolves")
	}
	if f.colliders.Get(c1) != nil {
		t.Error("attached collider survived body removal")
	}
	if f.impulseJoints.Get(jh) != nil {
		t.Error("joint referencing removed body survived")
	}
	if f.bodies.Get(b2) == nil {
		t.Error("unrelated body was removed")
	}
}
