package skvec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditAcceptEditReject(t *testing.T) {
	v := FromSlice([]int{1, 2, 3})

	v.Set(0, 10)
	v.Accept()
	assert.Equal(t, []int{10, 2, 3}, v.Slice())

	v.Set(1, 20)
	v.Reject()
	assert.Equal(t, []int{10, 2, 3}, v.Slice())
}

func TestRoundTripReject(t *testing.T) {
	v := FromSlice([]string{"a", "b", "c", "d"})
	before := append([]string(nil), v.Slice()...)

	v.Set(0, "x")
	v.Set(2, "y")
	v.Set(2, "z") // overwrite while dirty, should not leak the first edit
	v.Reject()

	assert.Equal(t, before, v.Slice())
	for i := 0; i < v.Len(); i++ {
		assert.False(t, v.IsDirty(i))
	}
}

func TestRoundTripAccept(t *testing.T) {
	v := FromSlice([]int{1, 2, 3, 4})

	v.Set(1, 99)
	v.Set(3, 77)
	v.Accept()

	assert.Equal(t, []int{1, 99, 3, 77}, v.Slice())
}

func TestElementScopedCommit(t *testing.T) {
	v := FromSlice([]int{1, 2, 3})

	v.Set(0, 10)
	v.Set(1, 20)

	v.AcceptElement(0)
	v.RejectElement(1)

	assert.Equal(t, 10, v.Index(0))
	assert.Equal(t, 2, v.Index(1))
	assert.False(t, v.IsDirty(0))
	assert.False(t, v.IsDirty(1))
}

func TestUnset(t *testing.T) {
	v := FromSlice([]int{5, 6})
	v.Set(0, 50)
	require.True(t, v.IsDirty(0))

	v.Unset(0)
	assert.Equal(t, 5, v.Index(0))
	assert.False(t, v.IsDirty(0))

	// Unsetting a clean index is a no-op, not a panic.
	v.Unset(1)
	assert.Equal(t, 6, v.Index(1))
}

func TestPushAndRepeat(t *testing.T) {
	v := Repeat(0.0, 3)
	assert.Equal(t, []float64{0, 0, 0}, v.Slice())

	v.Push(9.0)
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, 9.0, v.Last())
}

func TestForEach(t *testing.T) {
	v := FromSlice([]int{1, 2, 3})
	v.Set(1, 200)

	seen := map[int]int{}
	v.ForEach(func(i int, value int) {
		seen[i] = value
	})

	assert.Equal(t, map[int]int{0: 1, 1: 200, 2: 3}, seen)
}
