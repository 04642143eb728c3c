package queue

import "github.com/benz9527/xpq/lib/infra"

// Cursor walks a BSTPriorityQueue in ascending priority order, chained
// values of one priority in push order.
//
// A Cursor is only valid until its queue is mutated. A zero Cursor, a
// nil *Cursor and a Cursor that outlived a mutation all behave as an
// exhausted one. Restart with BSTPriorityQueue.Begin.
type Cursor[P infra.Signed, E comparable] struct {
	queue *BSTPriorityQueue[P, E]
	node  int32
	off   int // position in the node's chain, 0 is the head value
	stamp uint64
}

func (c *Cursor[P, E]) Valid() bool {
	return c != nil && c.queue != nil && c.node != nilIdx && c.stamp == c.queue.stamp
}

// Next returns the value under the cursor and moves to the next one.
// ok is false once every value has been returned.
func (c *Cursor[P, E]) Next() (val E, priority P, ok bool) {
	if !c.Valid() {
		if c != nil {
			c.node = nilIdx
		}
		return val, priority, false
	}

	node := &c.queue.nodes[c.node]
	val, priority = node.vals[c.off], node.priority
	if c.off+1 < len(node.vals) {
		c.off++
		return val, priority, true
	}
	// Chain exhausted, continue with the in-order successor.
	c.off = 0
	c.node = c.queue.succ(c.node)
	return val, priority, true
}
