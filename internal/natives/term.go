package natives

import (
	"github.com/qewer33/queitite/internal/platform"
	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// nativeTerm builds the Term object: width(), height(), is_tty(),
// clear(). Not present in original_source (only referenced by name in
// natives.rs's registry); designed by analogy with the teacher's
// pkg/platform.Console interface-by-collaborator pattern, backed here
// by platform.Terminal (x/term + go-isatty), per SPEC_FULL.md §4.6.1.
func nativeTerm(term platform.Terminal) *runtime.Obj {
	methods := map[string]runtime.Callable{
		"width": &runtime.NativeMethod{
			FnName: "term_width", FnArity: 0,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				return runtime.Num(term.Cols()), nil
			},
		},
		"height": &runtime.NativeMethod{
			FnName: "term_height", FnArity: 0,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				return runtime.Num(term.Rows()), nil
			},
		},
		"is_tty": &runtime.NativeMethod{
			FnName: "term_is_tty", FnArity: 0,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				return runtime.Bool(term.IsTTY()), nil
			},
		},
		"clear": &runtime.NativeMethod{
			FnName: "term_clear", FnArity: 0,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				term.Clear()
				return runtime.NullValue, nil
			},
		},
	}
	return runtime.NewObj("Term", methods)
}
