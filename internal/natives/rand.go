package natives

import (
	"math/rand/v2"

	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// nativeRand builds the Rand object: num() in [0, 1), backed by the
// standard library's `math/rand/v2` — no third-party RNG appears
// anywhere in the example pack, so there is nothing to wire here
// instead (see DESIGN.md).
func nativeRand() *runtime.Obj {
	methods := map[string]runtime.Callable{
		"num": &runtime.NativeMethod{
			FnName: "rand_num", FnArity: 0,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				return runtime.Num(rand.Float64()), nil
			},
		},
	}
	return runtime.NewObj("Rand", methods)
}
