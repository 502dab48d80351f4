package engine

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func tetraPoints() []mgl32.Vec3 {
	return []mgl32.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

func TestConvexHullTetrahedron(t *testing.T) {
	hull, err := NewConvexHull(tetraPoints())
	if err != nil {
		t.Fatalf("hull construction failed: %v", err)
	}

	// Unit right tetrahedron volume is 1/6.
	if v := hull.Volume(); v < 0.16 || v > 0.17 {
		t.Errorf("expected volume 1/6, got %f", v)
	}
}

func TestConvexHullDegenerateInputs(t *testing.T) {
	cases := []struct {
		name   string
		points []mgl32.Vec3
	}{
		{"empty", nil},
		{"too_few", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}},
		{"collinear", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}},
		{"coplanar", []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewConvexHull(tc.points); !errors.Is(err, ErrDegenerateHull) {
				t.Errorf("expected ErrDegenerateHull, got %v", err)
			}
		})
	}
}

func TestConvexHullIgnoresInteriorPoints(t *testing.T) {
	points := append(tetraPoints(), mgl32.Vec3{0.1, 0.1, 0.1})
	hull, err := NewConvexHull(points)
	if err != nil {
		t.Fatalf("hull construction failed: %v", err)
	}
	if v := hull.Volume(); v < 0.16 || v > 0.17 {
		t.Errorf("interior point changed hull volume: %f", v)
	}
}

func TestConvexHullSupport(t *testing.T) {
	hull, err := NewConvexHull(tetraPoints())
	if err != nil {
		t.Fatal(err)
	}
	pose := IdentityIsometry()
	if s := hull.Support(pose, mgl32.Vec3{1, 0, 0}); !vecApprox(s, mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("support along +x should be (1,0,0), got %v", s)
	}
}

func TestConvexHullRayIntersect(t *testing.T) {
	hull, err := NewConvexHull([]mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {-1, 1, -1}, {1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {-1, 1, 1}, {1, 1, 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	pose := IdentityIsometry()
	hit, ok := hull.RayIntersect(pose, Ray{Origin: mgl32.Vec3{0, 5, 0}, Dir: mgl32.Vec3{0, -1, 0}}, 100)
	if !ok {
		t.Fatal("expected hit on cube hull")
	}
	if hit.Toi < 3.99 || hit.Toi > 4.01 {
		t.Errorf("expected toi 4, got %f", hit.Toi)
	}
}
