package store

import (
	"fmt"

	"github.com/roach88/minq/internal/ir"
)

// marshalValue encodes a runtime value into its canonical TEXT column
// form. The canonical encoding is the same byte form StepID hashes, so a
// stored value can be verified against its step ID without re-encoding
// ambiguity.
func marshalValue(v ir.Value) string {
	return string(ir.MarshalValue(v))
}

// unmarshalValue decodes a value TEXT column.
func unmarshalValue(data string) (ir.Value, error) {
	v, err := ir.UnmarshalValue([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("decode stored value: %w", err)
	}
	return v, nil
}

// marshalInstruction flattens an instruction into its column values
// (op, src, vals, arg, arg2, result).
func marshalInstruction(in ir.Instruction) (op, src, vals string, arg, arg2 int64, result string) {
	return in.Op.String(), in.Src, marshalValue(in.Values), in.Arg, in.Arg2, in.Result
}

// scanInstruction rebuilds an instruction from its column values.
func scanInstruction(op, src, vals string, arg, arg2 int64, result string) (ir.Instruction, error) {
	opcode, err := ir.ParseOpcode(op)
	if err != nil {
		return ir.Instruction{}, fmt.Errorf("scan instruction: %w", err)
	}

	v, err := unmarshalValue(vals)
	if err != nil {
		return ir.Instruction{}, fmt.Errorf("scan instruction values: %w", err)
	}
	list, ok := v.(ir.List)
	if !ok {
		return ir.Instruction{}, fmt.Errorf("scan instruction values: not a list: %q", vals)
	}
	if len(list) == 0 {
		list = nil // canonical "[]" round-trips to the zero field
	}

	return ir.Instruction{Op: opcode, Src: src, Values: list, Arg: arg, Arg2: arg2, Result: result}, nil
}
