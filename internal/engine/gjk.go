package engine

import "github.com/go-gl/mathgl/mgl32"

// supportFn maps a world-space direction to the farthest point of a convex
// shape along it.
type supportFn func(dir mgl32.Vec3) mgl32.Vec3

const (
	gjkMaxIterations = 32
	epaMaxIterations = 64
	epaTolerance     = 1e-4
)

func minkowskiSupport(a, b supportFn, dir mgl32.Vec3) mgl32.Vec3 {
	return a(dir).Sub(b(dir.Mul(-1)))
}

// gjkIntersect reports whether the Minkowski difference of the two support
// mappings contains the origin. On intersection it returns the terminal
// simplex for EPA.
func gjkIntersect(a, b supportFn) ([]mgl32.Vec3, bool) {
	dir := mgl32.Vec3{1, 0, 0}
	p := minkowskiSupport(a, b, dir)
	simplex := []mgl32.Vec3{p}
	dir = p.Mul(-1)

	for i := 0; i < gjkMaxIterations; i++ {
		if dir.LenSqr() < 1e-12 {
			// Origin sits on the simplex boundary; treat as touching.
			return simplex, true
		}
		p = minkowskiSupport(a, b, dir)
		if p.Dot(dir) < 0 {
			return nil, false
		}
		simplex = append(simplex, p)
		if updateSimplex(&simplex, &dir) {
			return simplex, true
		}
	}
	return nil, false
}

// updateSimplex reduces the simplex to the feature closest to the origin and
// points dir toward the origin. Returns true when the simplex encloses it.
func updateSimplex(simplex *[]mgl32.Vec3, dir *mgl32.Vec3) bool {
	switch len(*simplex) {
	case 2:
		return updateLine(simplex, dir)
	case 3:
		return updateTriangle(simplex, dir)
	case 4:
		return updateTetrahedron(simplex, dir)
	}
	return false
}

func updateLine(simplex *[]mgl32.Vec3, dir *mgl32.Vec3) bool {
	s := *simplex
	a, b := s[1], s[0] // a is the newest point
	ab := b.Sub(a)
	ao := a.Mul(-1)
	if ab.Dot(ao) > 0 {
		*dir = ab.Cross(ao).Cross(ab)
	} else {
		*simplex = []mgl32.Vec3{a}
		*dir = ao
	}
	return false
}

func updateTriangle(simplex *[]mgl32.Vec3, dir *mgl32.Vec3) bool {
	s := *simplex
	a, b, c := s[2], s[1], s[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	if abc.Cross(ac).Dot(ao) > 0 {
		if ac.Dot(ao) > 0 {
			*simplex = []mgl32.Vec3{c, a}
			*dir = ac.Cross(ao).Cross(ac)
			return false
		}
		*simplex = []mgl32.Vec3{b, a}
		return updateLine(simplex, dir)
	}
	if ab.Cross(abc).Dot(ao) > 0 {
		*simplex = []mgl32.Vec3{b, a}
		return updateLine(simplex, dir)
	}
	if abc.Dot(ao) > 0 {
		*dir = abc
	} else {
		*simplex = []mgl32.Vec3{b, c, a}
		*dir = abc.Mul(-1)
	}
	return false
}

func updateTetrahedron(simplex *[]mgl32.Vec3, dir *mgl32.Vec3) bool {
	s := *simplex
	a, b, c, d := s[3], s[2], s[1], s[0]
	ao := a.Mul(-1)
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)

	abc := ab.Cross(ac)
	if abc.Dot(ad) > 0 {
		abc = abc.Mul(-1)
	}
	acd := ac.Cross(ad)
	if acd.Dot(ab) > 0 {
		acd = acd.Mul(-1)
	}
	adb := ad.Cross(ab)
	if adb.Dot(ac) > 0 {
		adb = adb.Mul(-1)
	}

	if abc.Dot(ao) > 0 {
		*simplex = []mgl32.Vec3{c, b, a}
		*dir = abc
		return updateTriangle(simplex, dir)
	}
	if acd.Dot(ao) > 0 {
		*simplex = []mgl32.Vec3{d, c, a}
		*dir = acd
		return updateTriangle(simplex, dir)
	}
	if adb.Dot(ao) > 0 {
		*simplex = []mgl32.Vec3{b, d, a}
		*dir = adb
		return updateTriangle(simplex, dir)
	}
	return true
}

type epaFace struct {
	verts    [3]int
	normal   mgl32.Vec3
	distance float32
}

func makeEPAFace(verts []mgl32.Vec3, a, b, c int) epaFace {
	normal := verts[b].Sub(verts[a]).Cross(verts[c].Sub(verts[a]))
	if normal.LenSqr() > 1e-18 {
		normal = normal.Normalize()
	}
	distance := normal.Dot(verts[a])
	if distance < 0 {
		normal = normal.Mul(-1)
		distance = -distance
		b, c = c, b
	}
	return epaFace{verts: [3]int{a, b, c}, normal: normal, distance: distance}
}

// epaPenetration expands the GJK simplex toward the origin to find the
// minimum translation vector. The returned normal points from shape A toward
// shape B; depth is always positive.
func epaPenetration(a, b supportFn, simplex []mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	if len(simplex) < 4 {
		return mgl32.Vec3{}, 0, false
	}
	verts := append([]mgl32.Vec3(nil), simplex...)
	faces := []epaFace{
		makeEPAFace(verts, 0, 1, 2),
		makeEPAFace(verts, 0, 1, 3),
		makeEPAFace(verts, 0, 2, 3),
		makeEPAFace(verts, 1, 2, 3),
	}

	for i := 0; i < epaMaxIterations; i++ {
		closest := 0
		for f := 1; f < len(faces); f++ {
			if faces[f].distance < faces[closest].distance {
				closest = f
			}
		}
		face := faces[closest]
		support := minkowskiSupport(a, b, face.normal)
		growth := support.Dot(face.normal) - face.distance
		if growth < epaTolerance {
			depth := face.distance
			if depth <= 0 {
				depth = epaTolerance
			}
			return face.normal, depth, true
		}

		// Remove every face visible from the support point and stitch the
		// horizon edges to it, quickhull style.
		verts = append(verts, support)
		apex := len(verts) - 1
		type edge struct{ a, b int }
		edgeCount := make(map[edge]int)
		kept := faces[:0]
		var horizon []edge
		for _, f := range faces {
			if f.normal.Dot(support.Sub(verts[f.verts[0]])) > 0 {
				for k := 0; k < 3; k++ {
					e := edge{f.verts[k], f.verts[(k+1)%3]}
					key := e
					if key.a > key.b {
						key.a, key.b = key.b, key.a
					}
					edgeCount[key]++
					horizon = append(horizon, e)
				}
				continue
			}
			kept = append(kept, f)
		}
		faces = kept
		for _, e := range horizon {
			key := e
			if key.a > key.b {
				key.a, key.b = key.b, key.a
			}
			if edgeCount[key] == 1 {
				faces = append(faces, makeEPAFace(verts, e.a, e.b, apex))
			}
		}
		if len(faces) == 0 {
			break
		}
	}
	return mgl32.Vec3{}, 0, false
}
