package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBallRayIntersect(t *testing.T) {
	b := NewBall(1)
	pose := poseAt(0, 0, 0)

	hit, ok := b.RayIntersect(pose, Ray{Origin: mgl32.Vec3{0, 5, 0}, Dir: mgl32.Vec3{0, -1, 0}}, 100)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Toi < 3.99 || hit.Toi > 4.01 {
		t.Errorf("expected toi 4, got %f", hit.Toi)
	}
	if !vecApprox(hit.Normal, mgl32.Vec3{0, 1, 0}, 1e-4) {
		t.Errorf("expected normal +y, got %v", hit.Normal)
	}

	// Origin inside: solid hit at zero.
	hit, ok = b.RayIntersect(pose, Ray{Origin: mgl32.Vec3{0, 0.5, 0}, Dir: mgl32.Vec3{0, -1, 0}}, 100)
	if !ok || hit.Toi != 0 {
		t.Errorf("expected toi 0 from inside, got %v %v", hit, ok)
	}

	if _, ok := b.RayIntersect(pose, Ray{Origin: mgl32.Vec3{0, 5, 0}, Dir: mgl32.Vec3{0, 1, 0}}, 100); ok {
		t.Error("ray pointing away must miss")
	}
}

func TestCuboidRayIntersectFaceNormal(t *testing.T) {
	c := NewCuboid(1, 1, 1)
	pose := poseAt(0, 0, 0)

	hit, ok := c.RayIntersect(pose, Ray{Origin: mgl32.Vec3{5, 0.5, 0}, Dir: mgl32.Vec3{-1, 0, 0}}, 100)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Toi < 3.99 || hit.Toi > 4.01 {
		t.Errorf("expected toi 4, got %f", hit.Toi)
	}
	if !vecApprox(hit.Normal, mgl32.Vec3{1, 0, 0}, 1e-4) {
		t.Errorf("expected +x face normal, got %v", hit.Normal)
	}
}

func TestCapsuleRayIntersectLateral(t *testing.T) {
	c := NewCapsule(1, 0.5)
	pose := poseAt(0, 0, 0)

	hit, ok := c.RayIntersect(pose, Ray{Origin: mgl32.Vec3{3, 0, 0}, Dir: mgl32.Vec3{-1, 0, 0}}, 100)
	if !ok {
		t.Fatal("expected hit on cylinder wall")
	}
	if hit.Toi < 2.49 || hit.Toi > 2.51 {
		t.Errorf("expected toi 2.5, got %f", hit.Toi)
	}

	// Above the cylinder span: must hit the upper cap sphere.
	hit, ok = c.RayIntersect(pose, Ray{Origin: mgl32.Vec3{0, 5, 0}, Dir: mgl32.Vec3{0, -1, 0}}, 100)
	if !ok {
		t.Fatal("expected hit on end cap")
	}
	if hit.Toi < 3.49 || hit.Toi > 3.51 {
		t.Errorf("expected toi 3.5, got %f", hit.Toi)
	}
}

func TestQueryPipelineNearestHit(t *testing.T) {
	bodies := NewRigidBodySet()
	colliders := NewColliderSet()
	qp := NewQueryPipeline()

	near := colliders.Insert(NewColliderBuilder(NewBall(0.5)).Pose(poseAt(0, 2, 0)).Build())
	colliders.Insert(NewColliderBuilder(NewBall(0.5)).Pose(poseAt(0, 5, 0)).Build())
	qp.Update(bodies, colliders)

	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 1, 0}}
	handle, hit, ok := qp.CastRayAndGetNormal(bodies, colliders, ray, 100, true, DefaultQueryFilter())
	if !ok {
		t.Fatal("expected hit")
	}
	if handle != near {
		t.Errorf("expected nearest collider %v, got %v", near, handle)
	}
	if hit.Toi < 1.49 || hit.Toi > 1.51 {
		t.Errorf("expected toi 1.5, got %f", hit.Toi)
	}
}

func TestQueryPipelineFilterExcludes(t *testing.T) {
	bodies := NewRigidBodySet()
	colliders := NewColliderSet()
	qp := NewQueryPipeline()

	only := colliders.Insert(NewColliderBuilder(NewBall(0.5)).Pose(poseAt(0, 2, 0)).Build())
	qp.Update(bodies, colliders)

	filter := QueryFilter{Exclude: func(h ColliderHandle, _ *Collider) bool { return h == only }}
	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 1, 0}}
	if _, _, ok := qp.CastRayAndGetNormal(bodies, colliders, ray, 100, true, filter); ok {
		t.Error("excluded collider was hit")
	}
}

func TestQueryPipelineMaxToi(t *testing.T) {
	bodies := NewRigidBodySet()
	colliders := NewColliderSet()
	qp := NewQueryPipeline()

	colliders.Insert(NewColliderBuilder(NewBall(0.5)).Pose(poseAt(0, 10, 0)).Build())
	qp.Update(bodies, colliders)

	ray := Ray{Origin: mgl32.Vec3{0, 0, 0}, Dir: mgl32.Vec3{0, 1, 0}}
	if _, _, ok := qp.CastRayAndGetNormal(bodies, colliders, ray, 4, true, DefaultQueryFilter()); ok {
		t.Error("hit beyond max toi")
	}
}
