// Package arena provides generation-checked object tables.
//
// An Arena hands out Handles instead of pointers. Removing an object bumps
// the generation of its slot, so every outstanding Handle to it becomes a
// lookup miss rather than a dangling reference. Freed slots are recycled.
package arena

import "sync"

// Handle identifies an object stored in an Arena.
// The zero value is never issued and always misses.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

// Index returns the slot index of the handle.
func (h Handle) Index() uint32 { return h.index }

// Generation returns the generation the handle was issued with.
func (h Handle) Generation() uint32 { return h.gen }

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values of type T addressed by Handle.
//
// Arena is safe for concurrent use.
type Arena[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	count int
}

// New creates an empty arena with room for capacity objects.
func New[T any](capacity int) *Arena[T] {
	return &Arena[T]{slots: make([]slot[T], 0, capacity)}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.count++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.live = true
		return Handle{index: idx, gen: s.gen}
	}

	a.slots = append(a.slots, slot[T]{value: v, gen: 1, live: true})
	// #nosec G115 -- arena size is bounded by available memory, well under uint32 max
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

// Get returns the value for h. The boolean is false when h was never
// issued by this arena or its object has been removed.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if s, ok := a.lookup(h); ok {
		return s.value, true
	}
	var zero T
	return zero, false
}

// Contains reports whether h refers to a live object.
func (a *Arena[T]) Contains(h Handle) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.lookup(h)
	return ok
}

// Remove deletes the object for h and returns it.
// Removing a stale handle is a no-op that returns false.
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero T
	s, ok := a.lookup(h)
	if !ok {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		// Wrapped: skip the reserved zero generation.
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.count--
	return v, true
}

// Len returns the number of live objects.
func (a *Arena[T]) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.count
}

// Each calls fn for every live object in slot order.
// fn must not call back into the arena.
func (a *Arena[T]) Each(fn func(Handle, T)) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			// #nosec G115 -- see Insert
			fn(Handle{index: uint32(i), gen: s.gen}, s.value)
		}
	}
}

func (a *Arena[T]) lookup(h Handle) (*slot[T], bool) {
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return s, true
}
