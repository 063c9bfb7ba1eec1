package sema

import (
	"fmt"
	"strings"

	"github.com/roach88/minq/internal/ast"
)

// SizeUnknown marks a list symbol whose length is not statically derivable.
const SizeUnknown = -1

// Symbol describes one declared name in the global namespace.
type Symbol struct {
	Name string
	Kind ast.Type // TypeInt or TypeList
	// Elem is the element kind: TypeInt for lists, TypeInvalid for ints.
	Elem ast.Type
	// Size is the statically known list length, or SizeUnknown. It is
	// meaningless for int symbols.
	Size int
}

// String renders the symbol for table dumps, e.g. "nums: list<int> size=6".
func (s *Symbol) String() string {
	if s.Kind == ast.TypeList && s.Size != SizeUnknown {
		return fmt.Sprintf("%s: %s size=%d", s.Name, s.Kind, s.Size)
	}
	return fmt.Sprintf("%s: %s", s.Name, s.Kind)
}

// Table is the single global namespace. Declarations are permanent for the
// run: there is no removal and no shadowing. Insertion order is preserved so
// dumps are deterministic.
//
// Table is an explicit object, not package state, so concurrent pipelines
// never share a namespace by accident.
type Table struct {
	symbols map[string]*Symbol
	order   []string
}

// NewTable creates an empty namespace.
func NewTable() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// Declare registers name with the given shape, or updates it when the name
// already holds the same kind (a same-kind redeclaration refreshes size and
// element kind). A conflicting kind fails with CodeRedeclaration; the caller
// attaches statement context.
func (t *Table) Declare(name string, kind ast.Type, elem ast.Type, size int) error {
	if existing, ok := t.symbols[name]; ok {
		if existing.Kind != kind {
			return &Error{
				Code:    CodeRedeclaration,
				Message: fmt.Sprintf("cannot redeclare %q as %s (declared %s)", name, kind, existing.Kind),
			}
		}
		existing.Elem = elem
		existing.Size = size
		return nil
	}

	t.symbols[name] = &Symbol{Name: name, Kind: kind, Elem: elem, Size: size}
	t.order = append(t.order, name)
	return nil
}

// Lookup returns the symbol for name, or fails with CodeUndeclared.
func (t *Table) Lookup(name string) (*Symbol, error) {
	sym, ok := t.symbols[name]
	if !ok {
		return nil, &Error{
			Code:    CodeUndeclared,
			Message: fmt.Sprintf("undeclared name %q", name),
		}
	}
	return sym, nil
}

// Names returns all declared names in declaration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of declared names.
func (t *Table) Len() int {
	return len(t.order)
}

// String renders the table one symbol per line, in declaration order.
func (t *Table) String() string {
	var b strings.Builder
	for _, name := range t.order {
		b.WriteString(t.symbols[name].String())
		b.WriteByte('\n')
	}
	return b.String()
}
