package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcode identifies an instruction. The set is closed: switches over Opcode
// are expected to be exhaustive and treat the default arm as a programming
// error, never as a fallback behavior.
type Opcode int

const (
	// OpInvalid is the zero value. It never appears in a generated program.
	OpInvalid Opcode = iota

	// OpList binds a literal integer list to Result.
	OpList
	// OpConst binds a literal integer to Result. Constant folding emits it
	// when an aggregation is computed at compile time.
	OpConst

	// OpFilterGT binds the elements of Src strictly greater than Arg.
	OpFilterGT
	// OpFilterLT binds the elements of Src strictly less than Arg.
	OpFilterLT
	// OpFilterEQ binds the elements of Src equal to Arg.
	OpFilterEQ
	// OpFilterBetween binds the elements of Src in [Arg, Arg2], both ends
	// inclusive.
	OpFilterBetween
	// OpFilterEven binds the even elements of Src.
	OpFilterEven
	// OpFilterOdd binds the odd elements of Src.
	OpFilterOdd

	// OpAggSum binds the sum of Src. The sum of an empty list is 0.
	OpAggSum
	// OpAggMax binds the maximum of Src. An empty source is a runtime error.
	OpAggMax
	// OpAggMin binds the minimum of Src. An empty source is a runtime error.
	OpAggMin
	// OpAggCount binds the length of Src.
	OpAggCount

	// OpAssign copies the binding named Src to Result.
	OpAssign
	// OpPrint appends the binding named Src to the program output.
	// It defines no binding.
	OpPrint
)

var opcodeNames = [...]string{
	OpInvalid:       "INVALID",
	OpList:          "LIST",
	OpConst:         "CONST",
	OpFilterGT:      "FILTER_GT",
	OpFilterLT:      "FILTER_LT",
	OpFilterEQ:      "FILTER_EQ",
	OpFilterBetween: "FILTER_BETWEEN",
	OpFilterEven:    "FILTER_EVEN",
	OpFilterOdd:     "FILTER_ODD",
	OpAggSum:        "AGG_SUM",
	OpAggMax:        "AGG_MAX",
	OpAggMin:        "AGG_MIN",
	OpAggCount:      "AGG_COUNT",
	OpAssign:        "ASSIGN",
	OpPrint:         "PRINT",
}

// String returns the wire name of the opcode, e.g. "FILTER_GT".
func (op Opcode) String() string {
	if op < 0 || int(op) >= len(opcodeNames) {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeNames[op]
}

// Valid reports whether op is a member of the closed set.
func (op Opcode) Valid() bool {
	return op > OpInvalid && int(op) < len(opcodeNames)
}

// ParseOpcode maps a wire name back to its Opcode. Used when loading stored
// programs and by harness assertions.
func ParseOpcode(s string) (Opcode, error) {
	for op, name := range opcodeNames {
		if Opcode(op) != OpInvalid && name == s {
			return Opcode(op), nil
		}
	}
	return OpInvalid, fmt.Errorf("unknown opcode %q", s)
}

// Instruction is a single three-address operation.
//
// Operand use by opcode:
//   - OpList: Values, Result
//   - OpConst: Arg, Result
//   - OpFilterGT, OpFilterLT, OpFilterEQ: Src, Arg, Result
//   - OpFilterBetween: Src, Arg (lower), Arg2 (upper), Result
//   - OpFilterEven, OpFilterOdd, aggregations, OpAssign: Src, Result
//   - OpPrint: Src only
//
// Unused fields hold their zero value.
type Instruction struct {
	Op     Opcode `json:"op"`
	Src    string `json:"src,omitempty"`
	Values List   `json:"values,omitempty"`
	Arg    int64  `json:"arg,omitempty"`
	Arg2   int64  `json:"arg2,omitempty"`
	Result string `json:"result,omitempty"`
}

// String renders the instruction in the form "OPCODE operands -> result",
// e.g. "FILTER_GT nums 5 -> _t1". The rendering is stable and used by dumps
// and golden files.
func (in Instruction) String() string {
	switch in.Op {
	case OpList:
		return fmt.Sprintf("%s %s -> %s", in.Op, in.Values, in.Result)
	case OpConst:
		return fmt.Sprintf("%s %d -> %s", in.Op, in.Arg, in.Result)
	case OpFilterGT, OpFilterLT, OpFilterEQ:
		return fmt.Sprintf("%s %s %d -> %s", in.Op, in.Src, in.Arg, in.Result)
	case OpFilterBetween:
		return fmt.Sprintf("%s %s %d..%d -> %s", in.Op, in.Src, in.Arg, in.Arg2, in.Result)
	case OpFilterEven, OpFilterOdd, OpAggSum, OpAggMax, OpAggMin, OpAggCount, OpAssign:
		return fmt.Sprintf("%s %s -> %s", in.Op, in.Src, in.Result)
	case OpPrint:
		return fmt.Sprintf("%s %s", in.Op, in.Src)
	default:
		return in.Op.String()
	}
}

// Reads returns the binding name the instruction reads, or "" for literal
// producers (OpList, OpConst), which read nothing.
func (in Instruction) Reads() string {
	return in.Src
}

// Program is an ordered instruction sequence. Execution is strictly
// front-to-back; there is no control transfer of any kind.
type Program []Instruction

// String renders the numbered listing used by dumps and golden files:
//
//	00: LIST [1, 2, 3] -> nums
//	01: FILTER_GT nums 2 -> _t1
func (p Program) String() string {
	var b strings.Builder
	for i, in := range p {
		fmt.Fprintf(&b, "%02d: %s\n", i, in)
	}
	return b.String()
}

// Clone returns a deep copy, literal lists included, so optimizer passes can
// rewrite freely without aliasing their input.
func (p Program) Clone() Program {
	out := make(Program, len(p))
	for i, in := range p {
		in.Values = in.Values.Clone()
		out[i] = in
	}
	return out
}

// TempPrefix prefixes compiler-generated temporary names. User identifiers
// cannot collide with it because source identifiers never start with '_'.
const TempPrefix = "_t"

// Temp returns the name of temporary n, e.g. Temp(1) == "_t1".
func Temp(n int) string {
	return TempPrefix + strconv.Itoa(n)
}

// IsTemp reports whether name is a compiler-generated temporary.
func IsTemp(name string) bool {
	return strings.HasPrefix(name, TempPrefix)
}
