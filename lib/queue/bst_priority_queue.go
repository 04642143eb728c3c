package queue

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/benz9527/xpq/lib/infra"
)

const nilIdx int32 = -1

// bstNode is a tree-structural node. The first pushed value of its
// priority sits at vals[0] and every later value of the same priority
// is chained after it, in push order.
type bstNode[P infra.Signed, E comparable] struct {
	parent   int32
	left     int32
	right    int32
	priority P
	vals     []E
}

func (node *bstNode[P, E]) hasChain() bool {
	return len(node.vals) > 1
}

// BSTPriorityQueue is an unbalanced binary search tree keyed by priority.
// Nodes live in an arena and link to each other by index, freed slots are
// recycled through a free list.
//
// The queue is not goroutine safe.
type BSTPriorityQueue[P infra.Signed, E comparable] struct {
	nodes    []bstNode[P, E]
	free     []int32
	root     int32
	count    int64
	stamp    uint64 // bumped by every mutation, cursors compare against it
	capacity int
	cmp      infra.PriorityComparator[P]
	isDesc   bool
	stats    *bstStats
}

func (q *BSTPriorityQueue[P, E]) keyCompare(p1, p2 P) int64 {
	res := q.cmp(p1, p2)
	if q.isDesc {
		return -res
	}
	return res
}

func (q *BSTPriorityQueue[P, E]) alloc(val E, priority P, parent int32) int32 {
	node := bstNode[P, E]{
		parent:   parent,
		left:     nilIdx,
		right:    nilIdx,
		priority: priority,
		vals:     []E{val},
	}
	if n := len(q.free); n > 0 {
		idx := q.free[n-1]
		q.free = q.free[:n-1]
		q.nodes[idx] = node
		return idx
	}
	q.nodes = append(q.nodes, node)
	return int32(len(q.nodes) - 1)
}

func (q *BSTPriorityQueue[P, E]) release(idx int32) {
	q.nodes[idx] = bstNode[P, E]{parent: nilIdx, left: nilIdx, right: nilIdx}
	q.free = append(q.free, idx)
}

func (q *BSTPriorityQueue[P, E]) minimum(idx int32) int32 {
	for idx != nilIdx && q.nodes[idx].left != nilIdx {
		idx = q.nodes[idx].left
	}
	return idx
}

// The succ node of the current node is its next node in sorted order.
func (q *BSTPriorityQueue[P, E]) succ(idx int32) int32 {
	if idx == nilIdx {
		return nilIdx
	}
	if r := q.nodes[idx].right; r != nilIdx {
		return q.minimum(r)
	}
	x, aux := idx, q.nodes[idx].parent
	// Backtrack to the first ancestor reached from its left child.
	for aux != nilIdx && x == q.nodes[aux].right {
		x = aux
		aux = q.nodes[aux].parent
	}
	return aux
}

// transplant links child into the slot held by idx.
func (q *BSTPriorityQueue[P, E]) transplant(idx, child int32) {
	p := q.nodes[idx].parent
	switch {
	case p == nilIdx:
		q.root = child
	case q.nodes[p].left == idx:
		q.nodes[p].left = child
	default:
		q.nodes[p].right = child
	}
	if child != nilIdx {
		q.nodes[child].parent = p
	}
}

func (q *BSTPriorityQueue[P, E]) Len() int64 {
	return q.count
}

// Push never fails. A priority already present in the tree joins the
// chain of its node, otherwise a new leaf is linked where the descent
// fell off the tree.
func (q *BSTPriorityQueue[P, E]) Push(val E, priority P) {
	q.count++
	q.stamp++

	if q.root == nilIdx {
		q.root = q.alloc(val, priority, nilIdx)
		q.stats.RecordPush(0, 1)
		return
	}

	var (
		x, y  = q.root, nilIdx
		res   int64
		depth int64
	)
	for x != nilIdx {
		y = x
		res = q.keyCompare(priority, q.nodes[x].priority)
		if /* equal */ res == 0 {
			q.nodes[x].vals = append(q.nodes[x].vals, val)
			q.stats.RecordPush(depth, int64(len(q.nodes[x].vals)))
			return
		} else /* less */ if res < 0 {
			x = q.nodes[x].left
		} else /* greater */ {
			x = q.nodes[x].right
		}
		depth++
	}

	// alloc may grow the arena, so link by index afterwards.
	z := q.alloc(val, priority, y)
	if res < 0 {
		q.nodes[y].left = z
	} else {
		q.nodes[y].right = z
	}
	q.stats.RecordPush(depth, 1)
}

// Pop removes and returns the earliest pushed value of the minimum
// priority. ErrEmptyQueue is returned without touching the queue when
// it holds nothing.
func (q *BSTPriorityQueue[P, E]) Pop() (val E, priority P, err error) {
	if q.count <= 0 || q.root == nilIdx {
		q.stats.IncreaseEmptyAccessCount()
		return val, priority, ErrEmptyQueue
	}

	x := q.minimum(q.root)
	node := &q.nodes[x]
	val, priority = node.vals[0], node.priority
	if node.hasChain() {
		// The next chained value takes over the head position, so the
		// node keeps its parent and right subtree.
		n := len(node.vals)
		copy(node.vals, node.vals[1:])
		var zero E
		node.vals[n-1] = zero
		node.vals = node.vals[:n-1]
	} else {
		// The minimum has no left child, promote its right subtree.
		q.transplant(x, node.right)
		q.release(x)
	}

	q.count--
	q.stamp++
	q.stats.RecordPop()
	return val, priority, nil
}

func (q *BSTPriorityQueue[P, E]) Peek() (val E, priority P, err error) {
	if q.count <= 0 || q.root == nilIdx {
		q.stats.IncreaseEmptyAccessCount()
		return val, priority, ErrEmptyQueue
	}
	node := &q.nodes[q.minimum(q.root)]
	return node.vals[0], node.priority, nil
}

// Clear drops every node. Outstanding cursors become exhausted.
func (q *BSTPriorityQueue[P, E]) Clear() {
	q.stats.RecordClear(q.count)
	clear(q.nodes)
	q.nodes = q.nodes[:0]
	q.free = q.free[:0]
	q.root = nilIdx
	q.count = 0
	q.stamp++
}

// preorder visits every tree-structural node before its children,
// left subtree first.
func (q *BSTPriorityQueue[P, E]) preorder(action func(node *bstNode[P, E]) bool) {
	if q.root == nilIdx {
		return
	}
	stack := make([]int32, 0, 16)
	stack = append(stack, q.root)
	for n := len(stack); n > 0; n = len(stack) {
		idx := stack[n-1]
		stack = stack[:n-1]
		node := &q.nodes[idx]
		if !action(node) {
			return
		}
		if node.right != nilIdx {
			stack = append(stack, node.right)
		}
		if node.left != nilIdx {
			stack = append(stack, node.left)
		}
	}
}

// Assign turns q into an independent copy of other. Replaying the
// pre-order of other (every node's values, then its children) rebuilds
// the very same shape because Push is deterministic.
func (q *BSTPriorityQueue[P, E]) Assign(other *BSTPriorityQueue[P, E]) {
	if q == other {
		return
	}
	q.Clear()
	if other == nil {
		return
	}
	q.cmp, q.isDesc = other.cmp, other.isDesc
	other.preorder(func(node *bstNode[P, E]) bool {
		for _, val := range node.vals {
			q.Push(val, node.priority)
		}
		return true
	})
}

func (q *BSTPriorityQueue[P, E]) Clone() *BSTPriorityQueue[P, E] {
	c := &BSTPriorityQueue[P, E]{
		nodes:    make([]bstNode[P, E], 0, max(q.capacity, len(q.nodes)-len(q.free))),
		root:     nilIdx,
		capacity: q.capacity,
		cmp:      q.cmp,
		isDesc:   q.isDesc,
		stats:    q.stats,
	}
	c.Assign(q)
	return c
}

// Equal reports structural equality: both trees have the same shape and
// every pair of corresponding nodes holds the same priority and the same
// values in the same order. Queues holding the same pairs but built in a
// different push order may differ.
func (q *BSTPriorityQueue[P, E]) Equal(other *BSTPriorityQueue[P, E]) bool {
	if q == other {
		return true
	}
	if other == nil {
		return q.count == 0
	}
	if q.count != other.count {
		return false
	}

	type pair struct{ x, y int32 }
	stack := make([]pair, 0, 16)
	stack = append(stack, pair{q.root, other.root})
	for n := len(stack); n > 0; n = len(stack) {
		aux := stack[n-1]
		stack = stack[:n-1]
		if aux.x == nilIdx && aux.y == nilIdx {
			continue
		} else if aux.x == nilIdx || aux.y == nilIdx {
			return false
		}
		l, r := &q.nodes[aux.x], &other.nodes[aux.y]
		if l.priority != r.priority || !slices.Equal(l.vals, r.vals) {
			return false
		}
		stack = append(stack, pair{l.left, r.left}, pair{l.right, r.right})
	}
	return true
}

// Height is the number of tree-structural nodes on the longest
// root-to-leaf path. Chains add no height.
func (q *BSTPriorityQueue[P, E]) Height() int {
	if q.root == nilIdx {
		return 0
	}
	type level struct {
		idx   int32
		depth int
	}
	height := 0
	stack := []level{{q.root, 1}}
	for n := len(stack); n > 0; n = len(stack) {
		aux := stack[n-1]
		stack = stack[:n-1]
		height = max(height, aux.depth)
		node := &q.nodes[aux.idx]
		if node.left != nilIdx {
			stack = append(stack, level{node.left, aux.depth + 1})
		}
		if node.right != nilIdx {
			stack = append(stack, level{node.right, aux.depth + 1})
		}
	}
	return height
}

func (q *BSTPriorityQueue[P, E]) Begin() *Cursor[P, E] {
	return &Cursor[P, E]{
		queue: q,
		node:  q.minimum(q.root),
		stamp: q.stamp,
	}
}

// All yields every (priority, value) pair in ascending order without
// removing anything.
func (q *BSTPriorityQueue[P, E]) All() iter.Seq2[P, E] {
	return func(yield func(P, E) bool) {
		for c := q.Begin(); ; {
			val, priority, ok := c.Next()
			if !ok || !yield(priority, val) {
				return
			}
		}
	}
}

// Drain pops until the queue is empty or the consumer stops.
func (q *BSTPriorityQueue[P, E]) Drain() iter.Seq2[P, E] {
	return func(yield func(P, E) bool) {
		for q.count > 0 {
			val, priority, err := q.Pop()
			if err != nil || !yield(priority, val) {
				return
			}
		}
	}
}

// String renders one "<priority> value: <value>" line per stored value,
// in traversal order. An empty queue renders as "".
func (q *BSTPriorityQueue[P, E]) String() string {
	builder := strings.Builder{}
	for priority, val := range q.All() {
		_, _ = builder.WriteString(strconv.FormatInt(int64(priority), 10))
		_, _ = builder.WriteString(" value: ")
		_, _ = fmt.Fprint(&builder, val)
		_ = builder.WriteByte('\n')
	}
	return builder.String()
}

type BSTPriorityQueueOption[P infra.Signed, E comparable] func(*BSTPriorityQueue[P, E])

// WithBSTPriorityQueueCapacity preallocates the node arena.
func WithBSTPriorityQueueCapacity[P infra.Signed, E comparable](capacity int) BSTPriorityQueueOption[P, E] {
	return func(q *BSTPriorityQueue[P, E]) {
		if capacity <= 0 {
			capacity = 64
		}
		q.capacity = capacity
	}
}

// WithBSTPriorityQueueDesc pops the greatest priority first.
func WithBSTPriorityQueueDesc[P infra.Signed, E comparable]() BSTPriorityQueueOption[P, E] {
	return func(q *BSTPriorityQueue[P, E]) {
		q.isDesc = true
	}
}

// WithBSTPriorityQueueStats records queue metrics through the global
// OpenTelemetry meter provider.
func WithBSTPriorityQueueStats[P infra.Signed, E comparable](name string) BSTPriorityQueueOption[P, E] {
	return func(q *BSTPriorityQueue[P, E]) {
		q.stats = newBSTStats(name)
	}
}

func NewBSTPriorityQueue[P infra.Signed, E comparable](opts ...BSTPriorityQueueOption[P, E]) *BSTPriorityQueue[P, E] {
	q := &BSTPriorityQueue[P, E]{
		root: nilIdx,
		cmp:  infra.AscPriorityComparator[P],
	}
	for _, o := range opts {
		if o != nil {
			o(q)
		}
	}
	if q.capacity <= 0 {
		q.capacity = 64
	}
	q.nodes = make([]bstNode[P, E], 0, q.capacity)
	return q
}
