package render

// Ring is a fixed-capacity buffer that discards the oldest element when a new
// element is appended past capacity. It is not safe for concurrent use: rings
// are owned by State and only ever touched from the main loop.
type Ring[T any] struct {
	items    []T
	capacity int
	head     int // next write position
	size     int // current number of items
}

// NewRing creates a ring with the given capacity (clamped to at least 1).
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends an item, evicting the oldest when full.
func (r *Ring[T]) Add(item T) {
	r.items[r.head] = item
	r.head = (r.head + 1) % r.capacity
	if r.size < r.capacity {
		r.size++
	}
}

// All returns the contents in chronological order (oldest to newest).
// The returned slice is a copy and safe to modify.
func (r *Ring[T]) All() []T {
	if r.size == 0 {
		return nil
	}

	result := make([]T, r.size)
	if r.size < r.capacity {
		copy(result, r.items[:r.size])
	} else {
		// Wrapped: head points at the oldest item.
		n := copy(result, r.items[r.head:])
		copy(result[n:], r.items[:r.head])
	}
	return result
}

// Size returns the current number of items.
func (r *Ring[T]) Size() int {
	return r.size
}

// Capacity returns the maximum capacity.
func (r *Ring[T]) Capacity() int {
	return r.capacity
}

// Resize reallocates the ring at a new capacity, preserving the most recent
// entries (oldest dropped first when shrinking). A no-op when the capacity
// already matches.
func (r *Ring[T]) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	if capacity == r.capacity {
		return
	}

	kept := r.All()
	if len(kept) > capacity {
		kept = kept[len(kept)-capacity:]
	}

	r.items = make([]T, capacity)
	r.capacity = capacity
	r.head = copy(r.items, kept) % capacity
	r.size = len(kept)
}
