package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpList, "LIST"},
		{OpConst, "CONST"},
		{OpFilterGT, "FILTER_GT"},
		{OpFilterLT, "FILTER_LT"},
		{OpFilterEQ, "FILTER_EQ"},
		{OpFilterBetween, "FILTER_BETWEEN"},
		{OpFilterEven, "FILTER_EVEN"},
		{OpFilterOdd, "FILTER_ODD"},
		{OpAggSum, "AGG_SUM"},
		{OpAggMax, "AGG_MAX"},
		{OpAggMin, "AGG_MIN"},
		{OpAggCount, "AGG_COUNT"},
		{OpAssign, "ASSIGN"},
		{OpPrint, "PRINT"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
			assert.True(t, tt.op.Valid())
		})
	}

	assert.False(t, OpInvalid.Valid())
	assert.Equal(t, "Opcode(99)", Opcode(99).String())
}

func TestParseOpcode(t *testing.T) {
	for op := OpList; op <= OpPrint; op++ {
		parsed, err := ParseOpcode(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, parsed)
	}

	_, err := ParseOpcode("JUMP")
	assert.Error(t, err)

	_, err = ParseOpcode("INVALID")
	assert.Error(t, err, "the zero opcode has no wire name")
}

func TestInstructionString(t *testing.T) {
	tests := []struct {
		name string
		in   Instruction
		want string
	}{
		{
			"list",
			Instruction{Op: OpList, Values: List{1, 2, 3}, Result: "nums"},
			"LIST [1, 2, 3] -> nums",
		},
		{
			"const",
			Instruction{Op: OpConst, Arg: 35, Result: "_t1"},
			"CONST 35 -> _t1",
		},
		{
			"filter gt",
			Instruction{Op: OpFilterGT, Src: "nums", Arg: 5, Result: "_t1"},
			"FILTER_GT nums 5 -> _t1",
		},
		{
			"filter between",
			Instruction{Op: OpFilterBetween, Src: "nums", Arg: 2, Arg2: 8, Result: "_t2"},
			"FILTER_BETWEEN nums 2..8 -> _t2",
		},
		{
			"filter even",
			Instruction{Op: OpFilterEven, Src: "nums", Result: "_t1"},
			"FILTER_EVEN nums -> _t1",
		},
		{
			"agg sum",
			Instruction{Op: OpAggSum, Src: "nums", Result: "_t1"},
			"AGG_SUM nums -> _t1",
		},
		{
			"assign",
			Instruction{Op: OpAssign, Src: "_t1", Result: "big"},
			"ASSIGN _t1 -> big",
		},
		{
			"print",
			Instruction{Op: OpPrint, Src: "big"},
			"PRINT big",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestProgramString(t *testing.T) {
	p := Program{
		{Op: OpList, Values: List{1, 2}, Result: "xs"},
		{Op: OpAggCount, Src: "xs", Result: "_t1"},
		{Op: OpAssign, Src: "_t1", Result: "n"},
		{Op: OpPrint, Src: "n"},
	}

	want := "00: LIST [1, 2] -> xs\n" +
		"01: AGG_COUNT xs -> _t1\n" +
		"02: ASSIGN _t1 -> n\n" +
		"03: PRINT n\n"
	assert.Equal(t, want, p.String())
}

func TestProgramClone(t *testing.T) {
	p := Program{{Op: OpList, Values: List{1, 2}, Result: "xs"}}
	c := p.Clone()

	c[0].Values[0] = 99
	c[0].Result = "ys"

	assert.Equal(t, int64(1), p[0].Values[0], "clone must deep-copy literal lists")
	assert.Equal(t, "xs", p[0].Result)
}

func TestTempNames(t *testing.T) {
	assert.Equal(t, "_t1", Temp(1))
	assert.Equal(t, "_t12", Temp(12))
	assert.True(t, IsTemp("_t1"))
	assert.True(t, IsTemp("_t99"))
	assert.False(t, IsTemp("nums"))
	assert.False(t, IsTemp("t1"))
}

func TestInstructionReads(t *testing.T) {
	assert.Equal(t, "", Instruction{Op: OpList, Values: List{1}, Result: "xs"}.Reads())
	assert.Equal(t, "", Instruction{Op: OpConst, Arg: 1, Result: "n"}.Reads())
	assert.Equal(t, "xs", Instruction{Op: OpFilterOdd, Src: "xs", Result: "_t1"}.Reads())
	assert.Equal(t, "n", Instruction{Op: OpPrint, Src: "n"}.Reads())
}
