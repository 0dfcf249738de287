// Package natives builds the root environment the evaluator starts
// from: the builtin globals (print, println, read, err) and builtin
// objects (Sys, Rand, Math, Term, Tui, P5), grounded on
// original_source/src/evaluator/natives.rs's registry shape.
package natives

import (
	"bufio"
	"io"
	"strings"

	"github.com/qewer33/queitite/internal/platform"
	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// Registry builds the root Environment pre-populated with every
// native global and native object. stdout/stdin back print/println/
// read; term is the Terminal collaborator backing Term/Tui/P5.
func Registry(stdout io.Writer, stdin io.Reader, term platform.Terminal) *runtime.Environment {
	env := runtime.NewEnvironment()

	reader := bufio.NewReader(stdin)

	env.Define("print", runtime.CallableValue{Callable: &runtime.NativeFnImpl{
		FnName: "print", FnArity: 1,
		Fn: func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if _, err := io.WriteString(stdout, args[0].String()); err != nil {
				return nil, runtime.NewErr(runtime.IOErr, cursor, "%v", err)
			}
			return runtime.NullValue, nil
		},
	}})

	env.Define("println", runtime.CallableValue{Callable: &runtime.NativeFnImpl{
		FnName: "println", FnArity: 1,
		Fn: func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if _, err := io.WriteString(stdout, args[0].String()+"\n"); err != nil {
				return nil, runtime.NewErr(runtime.IOErr, cursor, "%v", err)
			}
			return runtime.NullValue, nil
		},
	}})

	env.Define("read", runtime.CallableValue{Callable: &runtime.NativeFnImpl{
		FnName: "read", FnArity: 0,
		Fn: func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			if f, ok := stdout.(interface{ Sync() error }); ok {
				_ = f.Sync()
			}
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return nil, runtime.NewErr(runtime.IOErr, cursor, "%v", err)
			}
			return runtime.NewStr(strings.TrimRight(line, "\r\n")), nil
		},
	}})

	env.Define("err", runtime.CallableValue{Callable: &runtime.NativeFnImpl{
		FnName: "err", FnArity: 2,
		Fn: func(args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
			kindStr, ok := args[0].(*runtime.Str)
			if !ok {
				return nil, runtime.NewErr(runtime.ValueErr, cursor, "invalid error kind")
			}
			kind, ok := runtime.ParseErrKind(kindStr.Buf)
			if !ok {
				return nil, runtime.NewErr(runtime.ValueErr, cursor, "invalid error kind")
			}
			msg, ok := args[1].(*runtime.Str)
			if !ok {
				return nil, runtime.NewErr(runtime.ValueErr, cursor, "invalid error kind")
			}
			return nil, runtime.NewErr(kind, cursor, "%s", msg.Buf)
		},
	}})

	env.Define("Sys", nativeSys())
	env.Define("Rand", nativeRand())
	env.Define("Math", nativeMath())
	env.Define("Term", nativeTerm(term))
	session := newTuiSession(term)
	env.Define("Tui", nativeTui(session))
	env.Define("P5", nativeP5(session))

	return env
}
