package runtime

import "github.com/qewer33/queitite/internal/token"

// Environment is a lexical scope frame: a name-to-Value map with a
// nullable parent link, forming the lexical chain functions close
// over (§4.2). Unlike the teacher's case-insensitive ident.Map
// (an Object-Pascal convention), Queitite is case-sensitive, so
// lookup is a plain map[string]Value.
type Environment struct {
	store map[string]Value
	outer *Environment
}

// NewEnvironment creates a root frame with no parent. The native
// registry is built as one such frame (see internal/natives).
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// NewEnclosedEnvironment creates a child frame of outer, as happens at
// every call boundary and block entry.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]Value), outer: outer}
}

// Define unconditionally inserts name into this frame, shadowing any
// outer binding of the same name.
func (e *Environment) Define(name string, value Value) {
	e.store[name] = value
}

// Get returns the value from the closest binding in the lexical
// chain, or Err{Name} if name is unbound anywhere.
func (e *Environment) Get(name string, cursor token.Cursor) (Value, *RuntimeEvent) {
	for f := e; f != nil; f = f.outer {
		if v, ok := f.store[name]; ok {
			return v, nil
		}
	}
	return nil, NewErr(NameErr, cursor, "undefined name '%s'", name)
}

// Has reports whether name is bound anywhere in the lexical chain.
func (e *Environment) Has(name string) bool {
	for f := e; f != nil; f = f.outer {
		if _, ok := f.store[name]; ok {
			return true
		}
	}
	return false
}

// Assign mutates the closest existing binding of name, or returns
// Err{Name} if none exists in the lexical chain.
func (e *Environment) Assign(name string, value Value, cursor token.Cursor) *RuntimeEvent {
	for f := e; f != nil; f = f.outer {
		if _, ok := f.store[name]; ok {
			f.store[name] = value
			return nil
		}
	}
	return NewErr(NameErr, cursor, "undefined name '%s'", name)
}

// DefineOrAssign implements plain `name = expr` statement semantics: if
// name is already bound somewhere in the lexical chain, mutate that
// binding in place (ordinary assignment); otherwise define it fresh in
// this frame (variable definition). This never fails.
func (e *Environment) DefineOrAssign(name string, value Value) {
	for f := e; f != nil; f = f.outer {
		if _, ok := f.store[name]; ok {
			f.store[name] = value
			return
		}
	}
	e.store[name] = value
}

// Outer returns the parent frame, or nil at the root.
func (e *Environment) Outer() *Environment { return e.outer }
