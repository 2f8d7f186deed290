package engine

// MaxHandles bounds the number of slots per arena. Slot numbers stay below
// 1<<31 so that they fit in a boundary token next to the direction bit.
const MaxHandles = 1<<31 - 1

type slot[T any] struct {
	gen   uint32
	used  bool
	value T
}

// arena stores values in reusable slots. Every slot carries a generation
// that starts at 1 and advances on removal, so keys of removed values never
// match again until the counter wraps.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
	limit int
}

func newArena[T any]() arena[T] {
	return arena[T]{limit: MaxHandles}
}

// insert stores v and returns its slot and generation. It reports false
// when the arena is full.
func (a *arena[T]) insert(v T) (uint32, uint32, bool) {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if len(a.slots) >= a.limit {
			return 0, 0, false
		}
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{gen: 1})
	}

	s := &a.slots[idx]
	s.used = true
	s.value = v
	a.live++
	return idx, s.gen, true
}

func (a *arena[T]) get(idx, gen uint32) (T, bool) {
	var zero T
	if gen == 0 || int(idx) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[idx]
	if !s.used || s.gen != gen {
		return zero, false
	}
	return s.value, true
}

// remove frees the slot and advances its generation.
func (a *arena[T]) remove(idx, gen uint32) (T, bool) {
	v, ok := a.get(idx, gen)
	if !ok {
		return v, false
	}

	s := &a.slots[idx]
	var zero T
	s.value = zero
	s.used = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, idx)
	a.live--
	return v, true
}

// keys returns the slot and generation of every live value in slot order.
func (a *arena[T]) keys() [][2]uint32 {
	out := make([][2]uint32, 0, a.live)
	for i := range a.slots {
		if a.slots[i].used {
			out = append(out, [2]uint32{uint32(i), a.slots[i].gen})
		}
	}
	return out
}

func (a *arena[T]) len() int { return a.live }
