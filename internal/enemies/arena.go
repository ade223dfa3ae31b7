package enemies

// Handle refers to an arena slot. A handle goes stale when its slot is freed;
// the generation counter makes stale lookups fail instead of aliasing a newer
// occupant.
type Handle struct {
	Index uint32 `json:"index"`
	Gen   uint32 `json:"gen"`
}

type slot[T any] struct {
	gen   uint32
	alive bool
	val   T
}

// Arena stores values in reusable slots addressed by Handle.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.alive = true
		s.val = v
		a.live++
		return Handle{Index: idx, Gen: s.gen}
	}
	a.slots = append(a.slots, slot[T]{alive: true, val: v})
	a.live++
	return Handle{Index: uint32(len(a.slots) - 1)}
}

// Get returns a pointer to the value behind h. ok is false for stale or
// unknown handles.
func (a *Arena[T]) Get(h Handle) (*T, bool) {
	if int(h.Index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.Index]
	if !s.alive || s.gen != h.Gen {
		return nil, false
	}
	return &s.val, true
}

// Remove frees the slot behind h. It returns false if h was already stale.
func (a *Arena[T]) Remove(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	s := &a.slots[h.Index]
	var zero T
	s.val = zero
	s.alive = false
	s.gen++
	a.free = append(a.free, h.Index)
	a.live--
	return true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.live
}

// Each calls fn for every live value in slot order. fn may remove the
// current value. v is invalidated by an Insert on the same arena.
func (a *Arena[T]) Each(fn func(h Handle, v *T)) {
	for i := 0; i < len(a.slots); i++ {
		s := &a.slots[i]
		if !s.alive {
			continue
		}
		fn(Handle{Index: uint32(i), Gen: s.gen}, &s.val)
	}
}

// Clear removes every value. Outstanding handles become stale.
func (a *Arena[T]) Clear() {
	a.Each(func(h Handle, _ *T) { a.Remove(h) })
}
