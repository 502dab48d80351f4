package bridge

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/solumlabs/physbridge/internal/engine"
)

// castRayMaxDistance bounds every ray query; the host's probes are all
// short-range.
const castRayMaxDistance = 4.0

// CastRay performs a nearest-hit query from the given origin along dir, up
// to a fixed maximum distance, and fills outHit on success. The query is
// solid: a ray starting inside a collider hits at distance zero. A false
// return means no hit; outHit is left untouched.
func CastRay(fromX, fromY, fromZ, dirX, dirY, dirZ float32, outHit *RaycastHit) bool {
	w := requireWorld("cast_ray")
	if w == nil {
		return false
	}
	ray := engine.Ray{
		Origin: mgl32.Vec3{fromX, fromY, fromZ},
		Dir:    mgl32.Vec3{dirX, dirY, dirZ},
	}
	handle, hit, ok := w.queries.CastRayAndGetNormal(
		w.bodies,
		w.colliders,
		ray,
		castRayMaxDistance,
		true,
		engine.DefaultQueryFilter(),
	)
	if !ok {
		return false
	}
	point := ray.PointAt(hit.Toi)
	*outHit = RaycastHit{
		Point:    [3]float32{point[0], point[1], point[2]},
		Normal:   [3]float32{hit.Normal[0], hit.Normal[1], hit.Normal[2]},
		FaceID:   hit.FeatureID,
		Distance: hit.Toi,
		// UV stays zero; the query does not compute texture coordinates.
		Collider: encodeColliderHandle(handle),
	}
	return true
}
