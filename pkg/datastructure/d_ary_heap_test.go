package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestMinHeapExtractsInRankOrder(t *testing.T) {
	for _, d := range []int{2, 4, 8} {
		h := NewdAryHeap[int](d)
		rng := rand.New(rand.NewSource(uint64(d)))
		ranks := make([]float64, 200)
		for i := range ranks {
			ranks[i] = float64(rng.Intn(50))
			h.Insert(NewPriorityQueueNode(ranks[i], i))
		}

		prev := -1.0
		for !h.IsEmpty() {
			n, err := h.ExtractMin()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n.GetRank(), prev)
			assert.Equal(t, -1, n.GetPos())
			prev = n.GetRank()
		}
	}
}

func TestMinHeapTieBreakIsInsertionOrder(t *testing.T) {
	h := NewFourAryHeap[string]()
	for _, s := range []string{"a", "b", "c", "d", "e", "f"} {
		h.Insert(NewPriorityQueueNode(1.0, s))
	}

	got := make([]string, 0, 6)
	for !h.IsEmpty() {
		n, _ := h.ExtractMin()
		got = append(got, n.GetItem())
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, got)
}

func TestMinHeapDecreaseKey(t *testing.T) {
	h := NewBinaryHeap[int]()
	nodes := make([]*PriorityQueueNode[int], 5)
	for i := range nodes {
		nodes[i] = NewPriorityQueueNode(float64(10+i), i)
		h.Insert(nodes[i])
	}

	require.NoError(t, h.DecreaseKey(nodes[4], 1))
	assert.Equal(t, 1.0, h.GetMinrank())

	// a decreased node ties behind nodes that already had the rank
	require.NoError(t, h.DecreaseKey(nodes[3], 10))
	n, err := h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, 4, n.GetItem())
	n, _ = h.ExtractMin()
	assert.Equal(t, 0, n.GetItem())
	n, _ = h.ExtractMin()
	assert.Equal(t, 3, n.GetItem())

	assert.ErrorIs(t, h.DecreaseKey(nodes[1], 100), ErrInvalidDecrease)
	assert.ErrorIs(t, h.DecreaseKey(nodes[4], 0), ErrInvalidDecrease)
}

func TestMinHeapPreallocate(t *testing.T) {
	h := NewFourAryHeap[int]()
	h.Preallocate(64)
	assert.Equal(t, 64, cap(h.heap))
	assert.True(t, h.IsEmpty())

	for i := 0; i < 10; i++ {
		h.Insert(NewPriorityQueueNode(float64(10-i), i))
	}
	assert.Equal(t, 64, cap(h.heap))
	n, err := h.ExtractMin()
	require.NoError(t, err)
	assert.Equal(t, 9, n.GetItem())
}

func TestMinHeapEmpty(t *testing.T) {
	h := NewBinaryHeap[int]()
	_, err := h.ExtractMin()
	assert.ErrorIs(t, err, ErrHeapEmpty)
	_, err = h.GetMin()
	assert.ErrorIs(t, err, ErrHeapEmpty)

	h.Insert(NewPriorityQueueNode(3.0, 1))
	h.Clear()
	assert.True(t, h.IsEmpty())
}
