package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_AddAndAll(t *testing.T) {
	r := NewRing[int](3)
	assert.Equal(t, 0, r.Size())
	assert.Nil(t, r.All())

	r.Add(1)
	r.Add(2)
	assert.Equal(t, []int{1, 2}, r.All())

	r.Add(3)
	assert.Equal(t, []int{1, 2, 3}, r.All())

	// Overflow evicts the oldest.
	r.Add(4)
	assert.Equal(t, []int{2, 3, 4}, r.All())
	assert.Equal(t, 3, r.Size())

	r.Add(5)
	r.Add(6)
	r.Add(7)
	assert.Equal(t, []int{5, 6, 7}, r.All())
}

func TestRing_CapacityClamped(t *testing.T) {
	r := NewRing[string](0)
	assert.Equal(t, 1, r.Capacity())

	r.Add("a")
	r.Add("b")
	assert.Equal(t, []string{"b"}, r.All())
}

func TestRing_ResizeGrow(t *testing.T) {
	r := NewRing[int](2)
	r.Add(1)
	r.Add(2)
	r.Add(3) // evicts 1

	r.Resize(5)
	assert.Equal(t, 5, r.Capacity())
	assert.Equal(t, []int{2, 3}, r.All())

	r.Add(4)
	r.Add(5)
	r.Add(6)
	assert.Equal(t, []int{2, 3, 4, 5, 6}, r.All())
}

func TestRing_ResizeShrinkKeepsMostRecent(t *testing.T) {
	r := NewRing[int](5)
	for i := 1; i <= 5; i++ {
		r.Add(i)
	}

	r.Resize(3)
	assert.Equal(t, 3, r.Capacity())
	assert.Equal(t, []int{3, 4, 5}, r.All())

	// Full after shrink: next add evicts the oldest retained entry.
	r.Add(6)
	assert.Equal(t, []int{4, 5, 6}, r.All())
}

func TestRing_ResizeSameCapacityIsNoop(t *testing.T) {
	r := NewRing[int](3)
	r.Add(1)
	r.Resize(3)
	assert.Equal(t, []int{1}, r.All())
	assert.Equal(t, 3, r.Capacity())
}

func TestRing_ResizeWrappedBuffer(t *testing.T) {
	r := NewRing[int](3)
	for i := 1; i <= 7; i++ {
		r.Add(i) // ends holding 5,6,7 with head wrapped
	}

	r.Resize(2)
	assert.Equal(t, []int{6, 7}, r.All())

	r.Add(8)
	assert.Equal(t, []int{7, 8}, r.All())
}
