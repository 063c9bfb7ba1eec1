package ir

import (
	"slices"
	"strconv"
	"strings"
)

// Value is a sealed interface over the two runtime kinds.
// Only Int and List implement it. There is no float kind.
type Value interface {
	value() // sealed
	String() string
}

// Int is an integer runtime value. Always int64.
type Int int64

func (Int) value() {}

// String renders the bare number, e.g. "35".
func (v Int) String() string {
	return strconv.FormatInt(int64(v), 10)
}

// List is an integer-list runtime value.
type List []int64

func (List) value() {}

// String renders the list as "[1, 2, 3]". An empty list renders as "[]".
func (v List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, n := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatInt(n, 10))
	}
	b.WriteByte(']')
	return b.String()
}

// Clone returns an independent copy. Bindings always hold their own copy so
// a later rebind cannot alias an earlier one.
func (v List) Clone() List {
	return slices.Clone(v)
}

// Equal reports whether two values have the same kind and contents.
// A nil list and an empty list compare equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		return ok && slices.Equal(av, bv)
	default:
		return false
	}
}

// KindOf names a value's runtime kind for diagnostics: "int" or "list<int>".
func KindOf(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case List:
		return "list<int>"
	default:
		return "unknown"
	}
}
