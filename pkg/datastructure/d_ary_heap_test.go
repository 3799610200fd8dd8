package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHeap(t *testing.T) {
	for _, d := range []int{2, 4} {
		h := NewdAryHeap[int](d)
		ranks := []float64{5, 3, 9, 1, 7, 3, 0.5, 8}
		for i, r := range ranks {
			h.Insert(NewPriorityQueueNode(r, i))
		}
		require.Equal(t, len(ranks), h.Size())

		got := make([]int, 0, len(ranks))
		for !h.IsEmpty() {
			n, err := h.ExtractMin()
			require.NoError(t, err)
			got = append(got, n.GetItem())
		}
		// rank 3 appears twice, the first inserted (item 1) comes out first
		assert.Equal(t, []int{6, 3, 1, 5, 0, 4, 7, 2}, got)

		_, err := h.ExtractMin()
		assert.ErrorIs(t, err, ErrHeapEmpty)
	}
}

func TestMinHeapDecreaseKeyKeepsInsertionOrder(t *testing.T) {
	h := NewFourAryHeap[string]()
	a := NewPriorityQueueNode(10.0, "a")
	b := NewPriorityQueueNode(4.0, "b")
	c := NewPriorityQueueNode(12.0, "c")
	h.Insert(a)
	h.Insert(b)
	h.Insert(c)

	// c drops to the same rank as b; b was inserted first so it still wins the tie
	require.NoError(t, h.DecreaseKey(c, 4.0))
	// a drops below both
	require.NoError(t, h.DecreaseKey(a, 1.0))

	assert.ErrorIs(t, h.DecreaseKey(b, 100), ErrInvalidDecrease)

	order := []string{}
	for !h.IsEmpty() {
		n, _ := h.ExtractMin()
		order = append(order, n.GetItem())
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)

	assert.False(t, h.Contains(a))
	assert.ErrorIs(t, h.DecreaseKey(a, 0), ErrInvalidDecrease)
}
