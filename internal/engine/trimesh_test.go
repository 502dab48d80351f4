package engine

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func quadMesh() ([]mgl32.Vec3, [][3]uint32) {
	// Unit quad in the xz plane at y=0, split into two triangles.
	verts := []mgl32.Vec3{
		{-1, 0, -1},
		{1, 0, -1},
		{1, 0, 1},
		{-1, 0, 1},
	}
	indices := [][3]uint32{
		{0, 1, 2},
		{0, 2, 3},
	}
	return verts, indices
}

func TestTriMeshRejectsEmptyInput(t *testing.T) {
	if _, err := NewTriMesh(nil, nil); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh, got %v", err)
	}
	verts, _ := quadMesh()
	if _, err := NewTriMesh(verts, nil); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("expected ErrEmptyMesh for missing indices, got %v", err)
	}
}

func TestTriMeshRejectsOutOfRangeIndex(t *testing.T) {
	verts, indices := quadMesh()
	indices = append(indices, [3]uint32{0, 1, 99})
	if _, err := NewTriMesh(verts, indices); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestTriMeshTriangleAccessor(t *testing.T) {
	verts, indices := quadMesh()
	mesh, err := NewTriMesh(verts, indices)
	if err != nil {
		t.Fatal(err)
	}
	if n := mesh.NumTriangles(); n != 2 {
		t.Fatalf("expected 2 triangles, got %d", n)
	}
	a, b, c := mesh.Triangle(1)
	if !vecApprox(a, verts[0], 1e-6) || !vecApprox(b, verts[2], 1e-6) || !vecApprox(c, verts[3], 1e-6) {
		t.Errorf("triangle 1 corners wrong: %v %v %v", a, b, c)
	}
}

func TestTriMeshRayIntersectReportsTriangleIndex(t *testing.T) {
	verts, indices := quadMesh()
	mesh, err := NewTriMesh(verts, indices)
	if err != nil {
		t.Fatal(err)
	}
	pose := poseAt(0, 0, 0)

	// Straight down onto the second triangle's half of the quad.
	hit, ok := mesh.RayIntersect(pose, Ray{Origin: mgl32.Vec3{-0.5, 2, 0.5}, Dir: mgl32.Vec3{0, -1, 0}}, 100)
	if !ok {
		t.Fatal("expected hit")
	}
	if hit.Toi < 1.99 || hit.Toi > 2.01 {
		t.Errorf("expected toi 2, got %f", hit.Toi)
	}
	if hit.FeatureID != 1 {
		t.Errorf("expected feature id 1, got %d", hit.FeatureID)
	}
	if !vecApprox(hit.Normal, mgl32.Vec3{0, 1, 0}, 1e-4) {
		t.Errorf("expected normal +y, got %v", hit.Normal)
	}

	if _, ok := mesh.RayIntersect(pose, Ray{Origin: mgl32.Vec3{5, 2, 5}, Dir: mgl32.Vec3{0, -1, 0}}, 100); ok {
		t.Error("ray outside the quad must miss")
	}
}

func TestTriMeshRespectsMaxToi(t *testing.T) {
	verts, indices := quadMesh()
	mesh, err := NewTriMesh(verts, indices)
	if err != nil {
		t.Fatal(err)
	}
	pose := poseAt(0, 0, 0)
	if _, ok := mesh.RayIntersect(pose, Ray{Origin: mgl32.Vec3{0, 10, 0}, Dir: mgl32.Vec3{0, -1, 0}}, 4); ok {
		t.Error("hit beyond max toi")
	}
}
