package queue

import (
	"errors"
	"iter"

	"github.com/benz9527/xpq/lib/infra"
)

var ErrEmptyQueue = errors.New("[bstpq] empty queue")

// PriorityQueue is the minimum-first queue contract.
// Values sharing a priority are popped in the order they were pushed.
type PriorityQueue[P infra.Signed, E comparable] interface {
	Len() int64
	Push(val E, priority P)
	Pop() (E, P, error)
	Peek() (E, P, error)
	Clear()
}

// OrderedWalker exposes the ascending traversal of a queue without
// removing anything from it.
type OrderedWalker[P infra.Signed, E comparable] interface {
	Begin() *Cursor[P, E]
	All() iter.Seq2[P, E]
}

var (
	_ PriorityQueue[int64, string] = (*BSTPriorityQueue[int64, string])(nil)
	_ OrderedWalker[int64, string] = (*BSTPriorityQueue[int64, string])(nil)
)
