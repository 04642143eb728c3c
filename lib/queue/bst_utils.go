package queue

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/benz9527/xpq/lib/infra"
)

// bst rule validation utilities.

// BSTViolationValidate walks the tree in order and reports every broken
// rule at once:
//  v1. Priorities strictly increase along the in-order walk, so no two
//     tree-structural nodes share a priority.
//  v2. Each child links back to its parent and the root has no parent.
//  v3. No node holds an empty chain.
//  v4. The counted values equal Len() and the reachable nodes equal the
//     live arena slots.
func BSTViolationValidate[P infra.Signed, E comparable](q *BSTPriorityQueue[P, E]) error {
	if q == nil {
		return nil
	}

	var merr error
	if q.root == nilIdx {
		if q.count != 0 {
			merr = multierr.Append(merr, fmt.Errorf("[bstpq] empty tree with len %d", q.count))
		}
		return merr
	}
	if /* v2 */ q.nodes[q.root].parent != nilIdx {
		merr = multierr.Append(merr, fmt.Errorf("[bstpq] root %d has parent %d", q.root, q.nodes[q.root].parent))
	}

	var (
		values, reachable int64
		prev              *bstNode[P, E]
		aux               = q.root
	)
	stack := make([]int32, 0, 16)
	for ; aux != nilIdx; aux = q.nodes[aux].left {
		stack = append(stack, aux)
	}
	for n := len(stack); n > 0; n = len(stack) {
		aux = stack[n-1]
		stack = stack[:n-1]
		node := &q.nodes[aux]
		reachable++
		values += int64(len(node.vals))

		if /* v1 */ prev != nil && q.keyCompare(prev.priority, node.priority) >= 0 {
			merr = multierr.Append(merr, fmt.Errorf("[bstpq] priority %d is not ordered after %d", node.priority, prev.priority))
		}
		for _, child := range [2]int32{node.left, node.right} {
			if /* v2 */ child != nilIdx && q.nodes[child].parent != aux {
				merr = multierr.Append(merr, fmt.Errorf("[bstpq] node %d does not link back to parent %d", child, aux))
			}
		}
		if /* v3 */ len(node.vals) == 0 {
			merr = multierr.Append(merr, fmt.Errorf("[bstpq] node %d (priority %d) holds no value", aux, node.priority))
		}
		prev = node

		for aux = node.right; aux != nilIdx; aux = q.nodes[aux].left {
			stack = append(stack, aux)
		}
	}

	if /* v4 */ values != q.count {
		merr = multierr.Append(merr, fmt.Errorf("[bstpq] len %d, but %d values stored", q.count, values))
	}
	if live := int64(len(q.nodes) - len(q.free)); reachable != live {
		merr = multierr.Append(merr, fmt.Errorf("[bstpq] %d nodes reachable, but %d arena slots in use", reachable, live))
	}
	return merr
}
