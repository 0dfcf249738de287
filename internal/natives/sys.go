package natives

import (
	"time"

	"github.com/qewer33/queitite/internal/runtime"
	"github.com/qewer33/queitite/internal/token"
)

// nativeSys builds the Sys object: clock() and sleep(ms), grounded on
// original_source/src/evaluator/natives/sys.rs's FnSysClock/FnSysSleep.
func nativeSys() *runtime.Obj {
	methods := map[string]runtime.Callable{
		"clock": &runtime.NativeMethod{
			FnName: "sys_clock", FnArity: 0,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				return runtime.Num(float64(time.Now().UnixMilli())), nil
			},
		},
		"sleep": &runtime.NativeMethod{
			FnName: "sys_sleep", FnArity: 1,
			Fn: func(_ any, args []runtime.Value, cursor token.Cursor) (runtime.Value, *runtime.RuntimeEvent) {
				ms, ok := args[0].(runtime.Num)
				if !ok {
					return nil, runtime.NewErr(runtime.TypeErr, cursor, "expected Num, found %s", args[0].Type())
				}
				time.Sleep(time.Duration(float64(ms)) * time.Millisecond)
				return runtime.NullValue, nil
			},
		},
	}
	return runtime.NewObj("Sys", methods)
}
