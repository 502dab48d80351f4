package engine

import "math"

// Handle identifies one live entry in an Arena. The generation counter makes
// handles to removed entries stale instead of dangling: a slot reused after
// removal carries a higher generation, so the old handle no longer resolves.
type Handle struct {
	Index      uint32
	Generation uint32
}

// InvalidHandle never resolves to an entry.
var InvalidHandle = Handle{Index: math.MaxUint32, Generation: math.MaxUint32}

// IsValid reports whether h is structurally valid. It does not check
// liveness; resolve through the owning arena for that.
func (h Handle) IsValid() bool {
	return h != InvalidHandle
}

type arenaSlot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Arena is a generational slot allocator. Removal bumps the slot generation,
// invalidating outstanding handles without a tombstone scan.
type Arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	count int
}

func (a *Arena[T]) Insert(value T) Handle {
	if n := len(a.free); n > 0 {
		index := a.free[n-1]
		a.free = a.free[:n-1]
		slot := &a.slots[index]
		slot.value = value
		slot.live = true
		a.count++
		return Handle{Index: index, Generation: slot.generation}
	}
	a.slots = append(a.slots, arenaSlot[T]{value: value, live: true})
	a.count++
	return Handle{Index: uint32(len(a.slots) - 1)}
}

// Get resolves h to its entry, or nil if h is stale or out of range.
func (a *Arena[T]) Get(h Handle) *T {
	if int(h.Index) >= len(a.slots) {
		return nil
	}
	slot := &a.slots[h.Index]
	if !slot.live || slot.generation != h.Generation {
		return nil
	}
	return &slot.value
}

// Remove frees the entry for h and returns its value. The second return is
// false when h was already stale.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	if int(h.Index) >= len(a.slots) {
		return zero, false
	}
	slot := &a.slots[h.Index]
	if !slot.live || slot.generation != h.Generation {
		return zero, false
	}
	value := slot.value
	slot.value = zero
	slot.live = false
	slot.generation++
	a.free = append(a.free, h.Index)
	a.count--
	return value, true
}

func (a *Arena[T]) Len() int {
	return a.count
}

// Each visits every live entry. Removing entries during iteration is not
// supported.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.slots {
		slot := &a.slots[i]
		if slot.live {
			fn(Handle{Index: uint32(i), Generation: slot.generation}, &slot.value)
		}
	}
}
