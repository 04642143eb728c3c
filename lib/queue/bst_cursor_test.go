package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func walkPriorities(c *Cursor[int64, int]) []int64 {
	res := make([]int64, 0, 16)
	for {
		_, priority, ok := c.Next()
		if !ok {
			return res
		}
		res = append(res, priority)
	}
}

func TestCursor_BeginAndNext(t *testing.T) {
	pqInt := NewBSTPriorityQueue[int64, int]()
	for _, priority := range []int64{6, 4, 8, 10, 3, 5, 5, 1} {
		pqInt.Push(1, priority)
	}
	require.Equal(t, int64(8), pqInt.Len())
	require.Equal(t, []int64{1, 3, 4, 5, 5, 6, 8, 10}, walkPriorities(pqInt.Begin()))

	pqInt2 := NewBSTPriorityQueue[int64, int]()
	pushAll(pqInt2, drainScenario...)
	require.Equal(t, int64(14), pqInt2.Len())
	require.Equal(t,
		[]int64{250, 250, 500, 500, 750, 750, 1000, 1000, 1250, 1250, 1500, 1500, 1750, 1750},
		walkPriorities(pqInt2.Begin()),
	)
}

func TestCursor_ChainOrder(t *testing.T) {
	pq := NewBSTPriorityQueue[int64, int]()
	pushAll(pq, drainScenario...)

	c := pq.Begin()
	expected := []int{4, 11, 2, 9, 5, 12, 1, 8, 6, 13, 3, 10, 7, 14}
	for i, value := range expected {
		val, _, ok := c.Next()
		require.True(t, ok, "next", i)
		require.Equal(t, value, val)
	}
	_, _, ok := c.Next()
	require.False(t, ok)
	// exhausted is terminal
	_, _, ok = c.Next()
	require.False(t, ok)
	require.False(t, c.Valid())
}

func TestCursor_Restart(t *testing.T) {
	pq := NewBSTPriorityQueue[int64, int]()
	pushAll(pq, pqPair{2, 2}, pqPair{1, 1})

	c := pq.Begin()
	_, _, _ = c.Next()
	require.Equal(t, []int64{1, 2}, walkPriorities(pq.Begin()))

	// A mutation is visible to the next traversal.
	pq.Push(0, 0)
	_, _, err := pq.Pop()
	require.NoError(t, err)
	pq.Push(3, 3)
	require.Equal(t, []int64{1, 2, 3}, walkPriorities(pq.Begin()))

	// Two cursors walk independently.
	c1, c2 := pq.Begin(), pq.Begin()
	_, p1, _ := c1.Next()
	_, p2, _ := c1.Next()
	_, p3, _ := c2.Next()
	require.Equal(t, []int64{1, 2, 1}, []int64{p1, p2, p3})
}

func TestCursor_WithoutBegin(t *testing.T) {
	var c Cursor[int64, int]
	require.False(t, c.Valid())
	val, priority, ok := c.Next()
	require.False(t, ok)
	require.Equal(t, 0, val)
	require.Equal(t, int64(0), priority)

	var nilCursor *Cursor[int64, int]
	_, _, ok = nilCursor.Next()
	require.False(t, ok)

	_, _, ok = NewBSTPriorityQueue[int64, int]().Begin().Next()
	require.False(t, ok)
}

func TestCursor_StaleAfterMutation(t *testing.T) {
	pq := NewBSTPriorityQueue[int64, int]()
	pushAll(pq, pqPair{1, 1}, pqPair{2, 2}, pqPair{3, 3})

	c := pq.Begin()
	_, _, ok := c.Next()
	require.True(t, ok)
	pq.Push(4, 4)
	_, _, ok = c.Next()
	require.False(t, ok)

	c = pq.Begin()
	pq.Clear()
	_, _, ok = c.Next()
	require.False(t, ok)
}

func TestCursor_VisitsLen(t *testing.T) {
	pq := NewBSTPriorityQueue[int64, int]()
	for i := 0; i < 300; i++ {
		pq.Push(i, int64((i*37)%23))
	}
	seen := make(map[int]struct{}, pq.Len())
	prev := int64(-1)
	for priority, val := range pq.All() {
		require.GreaterOrEqual(t, priority, prev)
		prev = priority
		_, dup := seen[val]
		require.False(t, dup)
		seen[val] = struct{}{}
	}
	require.Len(t, seen, int(pq.Len()))
}
