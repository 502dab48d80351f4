package engine

import "sort"

type broadEntry struct {
	handle ColliderHandle
	aabb   AABB
}

// BroadPhase produces candidate collider pairs by sweep-and-prune along the
// X axis. The entry list is rebuilt on every update; world sizes at the
// boundary stay small enough that incremental maintenance buys nothing.
type BroadPhase struct {
	entries []broadEntry
}

func NewBroadPhase() *BroadPhase {
	return &BroadPhase{}
}

func (bp *BroadPhase) Update(bodies *RigidBodySet, colliders *ColliderSet) {
	bp.entries = bp.entries[:0]
	colliders.Each(func(h ColliderHandle, c *Collider) {
		pose := colliders.WorldPose(c, bodies)
		bp.entries = append(bp.entries, broadEntry{handle: h, aabb: c.shape.AABB(pose)})
	})
	sort.Slice(bp.entries, func(i, j int) bool {
		return bp.entries[i].aabb.Min[0] < bp.entries[j].aabb.Min[0]
	})
}

// CandidatePairs returns every pair whose bounds overlap. Pairs are in
// canonical order and free of duplicates.
func (bp *BroadPhase) CandidatePairs() []ColliderPair {
	var pairs []ColliderPair
	for i := range bp.entries {
		a := &bp.entries[i]
		for j := i + 1; j < len(bp.entries); j++ {
			b := &bp.entries[j]
			if b.aabb.Min[0] > a.aabb.Max[0] {
				break
			}
			if a.aabb.Overlaps(b.aabb) {
				pairs = append(pairs, makeColliderPair(a.handle, b.handle))
			}
		}
	}
	return pairs
}
