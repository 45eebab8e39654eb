package lang

import (
	"maps"
	"slices"
)

// Environment is a scope of variable bindings chained to an optional parent.
//
// Lookups walk from the innermost scope outward and the first match wins.
// An Environment is not safe for concurrent use.
type Environment struct {
	vars   map[string]Value
	parent *Environment
}

// NewEnvironment returns an empty scope enclosed by parent, which may be nil.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{vars: make(map[string]Value), parent: parent}
}

// Parent returns the enclosing scope, or nil for the global scope.
func (e *Environment) Parent() *Environment { return e.parent }

// Define binds name in this scope, replacing any binding of the same name
// in this scope only.
func (e *Environment) Define(name string, v Value) {
	e.vars[name] = v
}

// Get returns the value bound to name in the nearest enclosing scope.
func (e *Environment) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}

	return Null, false
}

// Assign replaces the nearest existing binding of name and reports whether
// one was found. It never creates a binding.
func (e *Environment) Assign(name string, v Value) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v

			return true
		}
	}

	return false
}

// Local reports whether name is bound in this scope, ignoring parents.
func (e *Environment) Local(name string) bool {
	_, ok := e.vars[name]

	return ok
}

// Names returns the sorted names bound in this scope.
func (e *Environment) Names() []string {
	return slices.Sorted(maps.Keys(e.vars))
}
