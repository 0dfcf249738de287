package natives

import (
	"math"

	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// nativeMath builds the Math object: sin(x), cos(x). The reference
// source (original_source/src/evaluator/natives/math.rs) names this
// object "Rand" — a copy/paste typo, since native_rand() one file
// over separately and correctly claims "Rand" for the RNG object.
// This port uses the correct name "Math" (see DESIGN.md).
func nativeMath() *runtime.Obj {
	methods := map[string]runtime.Callable{
		"sin": &runtime.NativeMethod{
			FnName: "sin", FnArity: 1,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				x, ok := args[0].(runtime.Num)
				if !ok {
					return runtime.NullValue, nil
				}
				return runtime.Num(math.Sin(float64(x))), nil
			},
		},
		"cos": &runtime.NativeMethod{
			FnName: "cos", FnArity: 1,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				x, ok := args[0].(runtime.Num)
				if !ok {
					return runtime.NullValue, nil
				}
				return runtime.Num(math.Cos(float64(x))), nil
			},
		},
	}
	return runtime.NewObj("Math", methods)
}
