package runtime

import "github.com/qewer33/queitite/internal/token"

// Callable is the shared contract for invokable values (§4.3): user
// functions, bound methods, native functions, and native
// methods-with-data. An *Obj acting as a constructor is not a Callable
// (its Name is a field); the evaluator dispatches on *Obj directly. An
// interface with one Call method (plus Name/Arity) stands in for the
// spec's "tagged variant...when variants grow" guidance.
type Callable interface {
	Name() string
	Arity() int
	Call(ev Evaluator, args []Value, cursor token.Cursor) (Value, *RuntimeEvent)
}

// Evaluator is the narrow slice of the evaluator a Callable needs to
// invoke user-defined function bodies (calling back into the tree
// walker for UserFunction/BoundMethod/Object bodies). Defined here,
// implemented by internal/evaluator.Evaluator, to avoid an import
// cycle between runtime and evaluator.
type Evaluator interface {
	CallFunction(fn *UserFunction, args []Value, cursor token.Cursor) (Value, *RuntimeEvent)
}

// UserFunction is a script-defined function: parameters, body, and the
// environment it closed over at definition time.
type UserFunction struct {
	FnName  string
	Params  []string
	Body    any // *ast.BlockStmt, typed as `any` to avoid an ast<->runtime import cycle
	Closure *Environment
	This    *Instance // non-nil for a bound method's implicit receiver
}

func (f *UserFunction) Name() string { return f.FnName }
func (f *UserFunction) Arity() int   { return len(f.Params) }
func (f *UserFunction) Call(ev Evaluator, args []Value, cursor token.Cursor) (Value, *RuntimeEvent) {
	return ev.CallFunction(f, args, cursor)
}

// Bind returns a bound method: a copy of f whose This is set to the
// given Instance, exposed inside the body as the implicit `this`
// binding (§4.3).
func (f *UserFunction) Bind(this *Instance) *UserFunction {
	bound := *f
	bound.This = this
	return &bound
}

// NativeFnImpl is an opaque native function with fixed arity and
// direct access to args and the call-site cursor.
type NativeFnImpl struct {
	FnName  string
	FnArity int
	Fn      func(args []Value, cursor token.Cursor) (Value, *RuntimeEvent)
}

func (f *NativeFnImpl) Name() string { return f.FnName }
func (f *NativeFnImpl) Arity() int   { return f.FnArity }
func (f *NativeFnImpl) Call(_ Evaluator, args []Value, cursor token.Cursor) (Value, *RuntimeEvent) {
	return f.Fn(args, cursor)
}

// NativeMethod is like NativeFnImpl but may carry a shared mutable
// data cell that survives across calls, enabling stateful widgets
// (Tui/P5/TextInput) per §4.6.
type NativeMethod struct {
	FnName  string
	FnArity int
	Data    any // the native object's private state cell, or nil
	Fn      func(data any, args []Value, cursor token.Cursor) (Value, *RuntimeEvent)
}

func (m *NativeMethod) Name() string { return m.FnName }
func (m *NativeMethod) Arity() int   { return m.FnArity }
func (m *NativeMethod) Call(_ Evaluator, args []Value, cursor token.Cursor) (Value, *RuntimeEvent) {
	return m.Fn(m.Data, args, cursor)
}
