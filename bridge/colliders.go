package bridge

import (
	"go.uber.org/zap"

	"github.com/solumlabs/physbridge/internal/engine"
)

func insertCollider(w *world, shape engine.Shape, mass float32, isSensor bool) ColliderHandle {
	collider := engine.NewColliderBuilder(shape).
		Density(mass).
		Sensor(isSensor).
		ActiveEvents(engine.CollisionEvents).
		Build()
	return encodeColliderHandle(w.colliders.Insert(collider))
}

// AddCuboidCollider creates a box collider from half extents. mass is a
// density; the body's mass follows from density times volume.
func AddCuboidCollider(halfX, halfY, halfZ, mass float32, isSensor bool) ColliderHandle {
	w := requireWorld("add_cuboid_collider")
	if w == nil {
		return InvalidColliderHandle
	}
	return insertCollider(w, engine.NewCuboid(halfX, halfY, halfZ), mass, isSensor)
}

func AddSphereCollider(radius, mass float32, isSensor bool) ColliderHandle {
	w := requireWorld("add_sphere_collider")
	if w == nil {
		return InvalidColliderHandle
	}
	return insertCollider(w, engine.NewBall(radius), mass, isSensor)
}

// AddCapsuleCollider creates a capsule aligned with the local y axis.
// halfHeight measures the cylindrical section only.
func AddCapsuleCollider(halfHeight, radius, mass float32, isSensor bool) ColliderHandle {
	w := requireWorld("add_capsule_collider")
	if w == nil {
		return InvalidColliderHandle
	}
	return insertCollider(w, engine.NewCapsule(halfHeight, radius), mass, isSensor)
}

// AddMeshCollider creates a triangle-mesh collider from flat vertex and
// index arrays, both read in groups of three. Malformed input yields the
// invalid handle and a warning instead of an error.
func AddMeshCollider(vertices []float32, vertexCount int, indices []uint32, indexCount int, mass float32, isSensor bool) ColliderHandle {
	w := requireWorld("add_mesh_collider")
	if w == nil {
		return InvalidColliderHandle
	}
	mesh, err := engine.NewTriMesh(pointsFromFlat(vertices, vertexCount), trianglesFromFlat(indices, indexCount))
	if err != nil {
		logger.Warn("failed to create mesh collider", zap.Error(err))
		return InvalidColliderHandle
	}
	return insertCollider(w, mesh, mass, isSensor)
}

// AddConvexMeshCollider creates a convex-hull collider from a flat vertex
// array. Degenerate point clouds yield the invalid handle and a warning.
func AddConvexMeshCollider(vertices []float32, vertexCount int, mass float32, isSensor bool) ColliderHandle {
	w := requireWorld("add_convex_mesh_collider")
	if w == nil {
		return InvalidColliderHandle
	}
	hull, err := engine.NewConvexHull(pointsFromFlat(vertices, vertexCount))
	if err != nil {
		logger.Warn("failed to create convex hull collider", zap.Error(err))
		return InvalidColliderHandle
	}
	return insertCollider(w, hull, mass, isSensor)
}
