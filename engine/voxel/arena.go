package voxel

// Handle is a generation-checked reference into an Arena.
// The zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) IsZero() bool {
	return h.gen == 0
}

type arenaSlot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values in reusable slots. Removing a value bumps the slot's
// generation, so every handle issued for it stops resolving.
type Arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	count int
}

func (a *Arena[T]) Insert(value T) Handle {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{})
	}
	slot := &a.slots[index]
	slot.gen++
	slot.value = value
	slot.live = true
	a.count++
	return Handle{index: index, gen: slot.gen}
}

func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return zero, false
	}
	slot := &a.slots[h.index]
	if !slot.live || slot.gen != h.gen {
		return zero, false
	}
	return slot.value, true
}

func (a *Arena[T]) Remove(h Handle) bool {
	if _, ok := a.Get(h); !ok {
		return false
	}
	slot := &a.slots[h.index]
	var zero T
	slot.value = zero
	slot.live = false
	a.free = append(a.free, h.index)
	a.count--
	return true
}

func (a *Arena[T]) Len() int {
	return a.count
}

func (a *Arena[T]) Each(fn func(h Handle, value T)) {
	for i := range a.slots {
		slot := &a.slots[i]
		if slot.live {
			fn(Handle{index: uint32(i), gen: slot.gen}, slot.value)
		}
	}
}
