package engine

import "github.com/roach88/minq/internal/ir"

// Environment is the mutable name → value state of one execution. It is an
// explicit object created per run, empty at start and discarded after the
// final instruction; runs never share bindings.
//
// Lookups of unbound names fail with a defined E301 error, never a silent
// zero value, and binding an unknown name is only possible through Bind.
// There is no implicit creation on read.
type Environment struct {
	bindings map[string]ir.Value
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Environment {
	return &Environment{bindings: make(map[string]ir.Value)}
}

// Bind sets name to v, overwriting any previous binding. Temporaries are
// bound exactly once per run; source variables may be rebound by ASSIGN.
func (e *Environment) Bind(name string, v ir.Value) {
	e.bindings[name] = v
}

// Lookup returns the value bound to name, or an E301 error.
func (e *Environment) Lookup(name string) (ir.Value, error) {
	v, ok := e.bindings[name]
	if !ok {
		return nil, NewUndefinedNameError(name)
	}
	return v, nil
}

// LookupList returns the list bound to name; an int binding is an E303
// error, a missing one an E301.
func (e *Environment) LookupList(name string) (ir.List, error) {
	v, err := e.Lookup(name)
	if err != nil {
		return nil, err
	}
	list, ok := v.(ir.List)
	if !ok {
		return nil, NewKindMismatchError(name, ir.KindOf(v))
	}
	return list, nil
}

// Len returns the number of live bindings.
func (e *Environment) Len() int {
	return len(e.bindings)
}
