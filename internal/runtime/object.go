package runtime

import "github.com/qewer33/queitite/internal/token"

// Obj is a user-defined type OR a native module: a name plus a flat
// method table, immutable once constructed (§4.4, §4.6). Unlike the
// teacher's ObjectInstance (inheritance, refcounting, properties, a
// metaclass hierarchy — all in service of DWScript's static OOP, out
// of scope here), Queitite objects carry nothing beyond name and
// methods. The method table holds Callable rather than a closed
// UserFunction type so the same Obj shape serves both user-defined
// classes (§4.4, methods are *UserFunction so `init` can be bound to
// a fresh Instance) and native modules (§4.6, methods are
// *NativeMethod carrying a shared data cell).
type Obj struct {
	Name    string
	Methods map[string]Callable
}

func NewObj(name string, methods map[string]Callable) *Obj {
	return &Obj{Name: name, Methods: methods}
}

func (o *Obj) Type() string   { return "Obj" }
func (o *Obj) String() string { return o.Name }
func (o *Obj) value()         {}

// FindMethod looks up a method by name on this object's method table.
func (o *Obj) FindMethod(name string) (Callable, bool) {
	m, ok := o.Methods[name]
	return m, ok
}

// Arity reports the constructor arity: the `init` method's arity if
// present, otherwise 0 (§4.3 "Object (as constructor)").
func (o *Obj) Arity() int {
	if init, ok := o.Methods["init"]; ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance, binding and invoking `init` with args
// if present (its return value is discarded), matching object.rs's
// Callable impl for Object. The evaluator calls it for any *Obj callee:
// a native object has no `init`, so calling one yields a field-less
// Instance whose methods are the native ones; an `init` that is not a
// *UserFunction is reported as Err{Native}.
func (o *Obj) Call(ev Evaluator, args []Value, cursor token.Cursor) (Value, *RuntimeEvent) {
	inst := &Instance{Class: o, Fields: make(map[string]Value)}
	if init, ok := o.FindMethod("init"); ok {
		fn, ok := init.(*UserFunction)
		if !ok {
			return nil, NewErr(NativeErr, cursor, "init is not a user function")
		}
		bound := fn.Bind(inst)
		if _, event := ev.CallFunction(bound, args, cursor); event != nil && event.Kind != EventReturn {
			return nil, event
		}
	}
	return inst, nil
}

// Instance is a runtime object: a mutable field map plus a reference
// to its defining Obj (§4.4).
type Instance struct {
	Class  *Obj
	Fields map[string]Value
}

func (i *Instance) Type() string   { return "ObjInstance" }
func (i *Instance) String() string { return i.Class.Name }
func (i *Instance) value()         {}

// Get resolves a property access: a field hit returns the stored
// value; a method hit returns a fresh BoundMethod capturing the
// instance; otherwise Err{Name} "undefined property".
func (i *Instance) Get(name string, cursor token.Cursor) (Value, *RuntimeEvent) {
	if v, ok := i.Fields[name]; ok {
		return v, nil
	}
	if m, ok := i.Class.FindMethod(name); ok {
		if fn, ok := m.(*UserFunction); ok {
			return CallableValue{Callable: fn.Bind(i)}, nil
		}
		return CallableValue{Callable: m}, nil
	}
	return nil, NewErr(NameErr, cursor, "undefined property '%s'", name)
}

// Set inserts or updates a field unconditionally.
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}
