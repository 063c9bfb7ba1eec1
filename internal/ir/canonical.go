package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Canonical encoding is the deterministic serialization used for hashing and
// for value columns in the trace store. It is a restricted JSON form:
//
//   - integers render in base 10 with no exponent and no fraction
//   - lists render as JSON arrays with no interior whitespace
//   - strings are NFC normalized and encoded without HTML escaping
//   - floats and null do not exist in the value model
//
// The same value always encodes to the same bytes, so content-addressed IDs
// and golden traces are stable across processes and platforms.

// MarshalValue encodes a runtime value in canonical form:
// Int(35) -> "35", List{1,2} -> "[1,2]".
func MarshalValue(v Value) []byte {
	switch val := v.(type) {
	case Int:
		return strconv.AppendInt(nil, int64(val), 10)
	case List:
		return appendCanonicalList(nil, val)
	default:
		// Value is sealed; a third implementation is a programming error.
		panic(fmt.Sprintf("ir: cannot canonically encode %T", v))
	}
}

// UnmarshalValue decodes a canonical value encoding. It rejects floats,
// null, strings, and objects: only the two runtime kinds round-trip.
func UnmarshalValue(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty value encoding")
	}
	if trimmed[0] == '[' {
		var elems []json.Number
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return nil, fmt.Errorf("decode list value: %w", err)
		}
		list := make(List, len(elems))
		for i, e := range elems {
			n, err := strconv.ParseInt(e.String(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("decode list element %d: %w", i, err)
			}
			list[i] = n
		}
		return list, nil
	}
	n, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode int value: %w", err)
	}
	return Int(n), nil
}

func appendCanonicalList(dst []byte, v List) []byte {
	dst = append(dst, '[')
	for i, n := range v {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = strconv.AppendInt(dst, n, 10)
	}
	return append(dst, ']')
}

// appendCanonicalString appends a JSON string with NFC normalization and no
// HTML escaping. Binding names reaching this are plain identifiers, but the
// encoding does not rely on that.
func appendCanonicalString(dst []byte, s string) []byte {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		// Strings always encode; an error here is a programming error.
		panic(fmt.Sprintf("ir: encode string: %v", err))
	}
	out := buf.Bytes()
	// json.Encoder appends a trailing newline.
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return append(dst, out...)
}

// appendCanonicalInstruction appends the canonical encoding of an
// instruction: a fixed-position JSON array
//
//	["FILTER_BETWEEN","nums",[],2,8,"_t1"]
//
// Fixed positions make key ordering a non-issue; unused operands contribute
// their zero value so every instruction encodes to the same shape.
func appendCanonicalInstruction(dst []byte, in Instruction) []byte {
	dst = append(dst, '[')
	dst = appendCanonicalString(dst, in.Op.String())
	dst = append(dst, ',')
	dst = appendCanonicalString(dst, in.Src)
	dst = append(dst, ',')
	dst = appendCanonicalList(dst, in.Values)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, in.Arg, 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, in.Arg2, 10)
	dst = append(dst, ',')
	dst = appendCanonicalString(dst, in.Result)
	return append(dst, ']')
}

// MarshalCanonicalProgram encodes a whole program as a JSON array of
// canonical instruction arrays. This is the byte form ProgramHash hashes.
func MarshalCanonicalProgram(p Program) []byte {
	dst := []byte{'['}
	for i, in := range p {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = appendCanonicalInstruction(dst, in)
	}
	return append(dst, ']')
}
