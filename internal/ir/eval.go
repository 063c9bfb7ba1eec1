package ir

import "fmt"

// FilterOp reports whether op is one of the six filter opcodes.
func FilterOp(op Opcode) bool {
	switch op {
	case OpFilterGT, OpFilterLT, OpFilterEQ, OpFilterBetween, OpFilterEven, OpFilterOdd:
		return true
	default:
		return false
	}
}

// AggOp reports whether op is one of the four aggregation opcodes.
func AggOp(op Opcode) bool {
	switch op {
	case OpAggSum, OpAggMax, OpAggMin, OpAggCount:
		return true
	default:
		return false
	}
}

// Filter applies a filter opcode to src, preserving element order. For
// OpFilterBetween, arg and arg2 are the inclusive bounds; the other
// comparison filters use arg alone and the parity filters use neither.
// Both the optimizer's constant folder and the execution engine evaluate
// filters through this function, so compile-time and run-time results
// cannot drift apart.
func Filter(op Opcode, src List, arg, arg2 int64) List {
	out := make(List, 0, len(src))
	for _, n := range src {
		var keep bool
		switch op {
		case OpFilterGT:
			keep = n > arg
		case OpFilterLT:
			keep = n < arg
		case OpFilterEQ:
			keep = n == arg
		case OpFilterBetween:
			keep = n >= arg && n <= arg2
		case OpFilterEven:
			keep = n%2 == 0
		case OpFilterOdd:
			keep = n%2 != 0
		default:
			panic(fmt.Sprintf("ir: %s is not a filter opcode", op))
		}
		if keep {
			out = append(out, n)
		}
	}
	return out
}

// Reduce applies an aggregation opcode to src. The sum and count of an
// empty list are 0; max and min of an empty list have no value, reported
// as ok == false for the caller to turn into its own error.
func Reduce(op Opcode, src List) (n int64, ok bool) {
	switch op {
	case OpAggSum:
		var sum int64
		for _, v := range src {
			sum += v
		}
		return sum, true

	case OpAggCount:
		return int64(len(src)), true

	case OpAggMax:
		if len(src) == 0 {
			return 0, false
		}
		max := src[0]
		for _, v := range src[1:] {
			if v > max {
				max = v
			}
		}
		return max, true

	case OpAggMin:
		if len(src) == 0 {
			return 0, false
		}
		min := src[0]
		for _, v := range src[1:] {
			if v < min {
				min = v
			}
		}
		return min, true

	default:
		panic(fmt.Sprintf("ir: %s is not an aggregation opcode", op))
	}
}
