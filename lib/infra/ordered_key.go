package infra

// Signed is a constraint that permits any signed integer type.
// Queue priorities are signed so that callers may use negative
// values as "more urgent than the default".
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// PriorityComparator
// Assume i is the new priority.
//  1. i == j, return 0, the value joins the chain of j.
//  2. i > j, return 1, turn to right part.
//  3. i < j, return -1, turn to left part.
type PriorityComparator[P Signed] func(i, j P) int64

func AscPriorityComparator[P Signed](i, j P) int64 {
	if i == j {
		return 0
	} else if i < j {
		return -1
	}
	return 1
}
