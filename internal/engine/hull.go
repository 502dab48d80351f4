package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ConvexHull is the convex envelope of a point cloud. Construction computes
// the hull faces, which back both mass properties and raycasts; GJK support
// queries run over the hull vertices.
type ConvexHull struct {
	points    []mgl32.Vec3
	faces     [][3]uint32
	localAABB AABB
	volume    float32
}

// NewConvexHull computes the hull of points with an incremental quickhull.
// It fails with ErrDegenerateHull when the cloud has no volume.
func NewConvexHull(points []mgl32.Vec3) (*ConvexHull, error) {
	faces, err := quickHull(points)
	if err != nil {
		return nil, err
	}
	box := aabbFromPoints(points)
	hull := &ConvexHull{
		points:    points,
		faces:     faces,
		localAABB: box,
	}
	hull.volume = hull.computeVolume()
	return hull, nil
}

func (h *ConvexHull) computeVolume() float32 {
	// Divergence theorem over the outward-oriented faces, anchored at the
	// box center for numerical stability.
	c0 := h.localAABB.Min.Add(h.localAABB.Max).Mul(0.5)
	var total float32
	for _, f := range h.faces {
		a := h.points[f[0]].Sub(c0)
		b := h.points[f[1]].Sub(c0)
		c := h.points[f[2]].Sub(c0)
		total += a.Dot(b.Cross(c)) / 6
	}
	if total < 0 {
		total = -total
	}
	return total
}

func (h *ConvexHull) Volume() float32 {
	return h.volume
}

func (h *ConvexHull) MinExtent() float32 {
	ext := h.localAABB.Max.Sub(h.localAABB.Min)
	return min3(ext[0], ext[1], ext[2]) * 0.5
}

func (h *ConvexHull) AABB(pose Isometry) AABB {
	return transformedAABB(h.localAABB, pose)
}

func (h *ConvexHull) Support(pose Isometry, dir mgl32.Vec3) mgl32.Vec3 {
	local := pose.InverseTransformDir(dir)
	best := h.points[0]
	bestDot := best.Dot(local)
	for _, p := range h.points[1:] {
		if d := p.Dot(local); d > bestDot {
			bestDot = d
			best = p
		}
	}
	return pose.TransformPoint(best)
}

func (h *ConvexHull) RayIntersect(pose Isometry, ray Ray, maxToi float32) (RayIntersection, bool) {
	origin := pose.InverseTransformPoint(ray.Origin)
	dir := pose.InverseTransformDir(ray.Dir)

	best := RayIntersection{Toi: maxToi}
	found := false
	for _, f := range h.faces {
		a, b, c := h.points[f[0]], h.points[f[1]], h.points[f[2]]
		toi, ok := rayTriangle(origin, dir, a, b, c)
		if !ok || toi > best.Toi {
			continue
		}
		normal := b.Sub(a).Cross(c.Sub(a))
		if normal.LenSqr() < 1e-12 {
			continue
		}
		normal = normal.Normalize()
		if normal.Dot(dir) > 0 {
			normal = normal.Mul(-1)
		}
		best = RayIntersection{Toi: toi, Normal: pose.Rotation.Rotate(normal)}
		found = true
	}
	return best, found
}

type hullFace struct {
	verts   [3]uint32
	normal  mgl32.Vec3
	offset  float32 // plane offset: normal . verts[0]
	outside []uint32
	alive   bool
}

func newHullFace(points []mgl32.Vec3, a, b, c uint32, interior mgl32.Vec3) hullFace {
	normal := points[b].Sub(points[a]).Cross(points[c].Sub(points[a]))
	if normal.LenSqr() > 1e-18 {
		normal = normal.Normalize()
	}
	// Orient outward relative to a known interior point.
	if normal.Dot(points[a].Sub(interior)) < 0 {
		normal = normal.Mul(-1)
		b, c = c, b
	}
	return hullFace{
		verts:  [3]uint32{a, b, c},
		normal: normal,
		offset: normal.Dot(points[a]),
		alive:  true,
	}
}

func (f *hullFace) distance(p mgl32.Vec3) float32 {
	return f.normal.Dot(p) - f.offset
}

// quickHull returns outward-oriented triangle faces of the convex hull.
func quickHull(points []mgl32.Vec3) ([][3]uint32, error) {
	if len(points) < 4 {
		return nil, ErrDegenerateHull
	}

	box := aabbFromPoints(points)
	eps := box.Max.Sub(box.Min).Len() * 1e-5
	if eps <= 0 {
		return nil, ErrDegenerateHull
	}

	p0, p1, p2, p3, err := initialTetrahedron(points, eps)
	if err != nil {
		return nil, err
	}

	interior := points[p0].Add(points[p1]).Add(points[p2]).Add(points[p3]).Mul(0.25)
	faces := []hullFace{
		newHullFace(points, p0, p1, p2, interior),
		newHullFace(points, p0, p1, p3, interior),
		newHullFace(points, p0, p2, p3, interior),
		newHullFace(points, p1, p2, p3, interior),
	}

	claimed := make([]bool, len(points))
	claimed[p0], claimed[p1], claimed[p2], claimed[p3] = true, true, true, true
	assignOutside(points, faces, claimed, eps)

	for iter := 0; iter < 4*len(points); iter++ {
		target := -1
		for i := range faces {
			if faces[i].alive && len(faces[i].outside) > 0 {
				target = i
				break
			}
		}
		if target < 0 {
			break
		}

		// Farthest outside point of the target face becomes the next apex.
		apex := faces[target].outside[0]
		bestDist := faces[target].distance(points[apex])
		for _, idx := range faces[target].outside[1:] {
			if d := faces[target].distance(points[idx]); d > bestDist {
				bestDist = d
				apex = idx
			}
		}

		// Every face that sees the apex gets removed; the directed boundary
		// edges of that visible region form the horizon.
		type edge struct{ a, b uint32 }
		visible := make(map[int]bool)
		var orphans []uint32
		for i := range faces {
			if faces[i].alive && faces[i].distance(points[apex]) > eps {
				visible[i] = true
				orphans = append(orphans, faces[i].outside...)
				faces[i].alive = false
			}
		}
		edgeCount := make(map[edge]int)
		for i := range visible {
			v := faces[i].verts
			for k := 0; k < 3; k++ {
				a, b := v[k], v[(k+1)%3]
				key := edge{a, b}
				if a > b {
					key = edge{b, a}
				}
				edgeCount[key]++
			}
		}
		for i := range visible {
			v := faces[i].verts
			for k := 0; k < 3; k++ {
				a, b := v[k], v[(k+1)%3]
				key := edge{a, b}
				if a > b {
					key = edge{b, a}
				}
				if edgeCount[key] == 1 {
					faces = append(faces, newHullFace(points, a, b, apex, interior))
				}
			}
		}

		claimed[apex] = true
		// Reassign the orphaned points to the freshly created faces.
		reassign := make([]bool, len(points))
		for _, idx := range orphans {
			if idx != apex {
				reassign[idx] = true
			}
		}
		for i := range faces {
			if !faces[i].alive || len(faces[i].outside) == 0 {
				continue
			}
			kept := faces[i].outside[:0]
			for _, idx := range faces[i].outside {
				if idx != apex {
					kept = append(kept, idx)
				}
			}
			faces[i].outside = kept
		}
		for idx := range reassign {
			if !reassign[idx] {
				continue
			}
			p := points[idx]
			for i := range faces {
				if faces[i].alive && faces[i].distance(p) > eps {
					faces[i].outside = append(faces[i].outside, uint32(idx))
					break
				}
			}
		}
	}

	var result [][3]uint32
	for i := range faces {
		if faces[i].alive {
			result = append(result, faces[i].verts)
		}
	}
	if len(result) < 4 {
		return nil, ErrDegenerateHull
	}
	return result, nil
}

func assignOutside(points []mgl32.Vec3, faces []hullFace, claimed []bool, eps float32) {
	for idx, p := range points {
		if claimed[idx] {
			continue
		}
		for i := range faces {
			if faces[i].distance(p) > eps {
				faces[i].outside = append(faces[i].outside, uint32(idx))
				break
			}
		}
	}
}

// initialTetrahedron picks four points spanning a non-zero volume.
func initialTetrahedron(points []mgl32.Vec3, eps float32) (uint32, uint32, uint32, uint32, error) {
	// Farthest pair among the axis extremes.
	extremes := make([]uint32, 6)
	for idx, p := range points {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < points[extremes[axis]][axis] {
				extremes[axis] = uint32(idx)
			}
			if p[axis] > points[extremes[3+axis]][axis] {
				extremes[3+axis] = uint32(idx)
			}
		}
	}
	var p0, p1 uint32
	var best float32
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			d := points[extremes[i]].Sub(points[extremes[j]]).LenSqr()
			if d > best {
				best = d
				p0, p1 = extremes[i], extremes[j]
			}
		}
	}
	if best < eps*eps {
		return 0, 0, 0, 0, ErrDegenerateHull
	}

	// Farthest point from the p0-p1 line.
	lineDir := points[p1].Sub(points[p0]).Normalize()
	p2 := p0
	best = 0
	for idx, p := range points {
		rel := p.Sub(points[p0])
		d := rel.Sub(lineDir.Mul(rel.Dot(lineDir))).LenSqr()
		if d > best {
			best = d
			p2 = uint32(idx)
		}
	}
	if best < eps*eps {
		return 0, 0, 0, 0, ErrDegenerateHull
	}

	// Farthest point from the p0-p1-p2 plane.
	normal := points[p1].Sub(points[p0]).Cross(points[p2].Sub(points[p0])).Normalize()
	p3 := p0
	best = 0
	for idx, p := range points {
		d := normal.Dot(p.Sub(points[p0]))
		if d < 0 {
			d = -d
		}
		if d > best {
			best = d
			p3 = uint32(idx)
		}
	}
	if best < eps {
		return 0, 0, 0, 0, ErrDegenerateHull
	}
	return p0, p1, p2, p3, nil
}
