package interpreter

import (
	"time"

	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) defineBuiltins() {
	i.DefineNative("clock", 0, nativeClock)
}

// nativeClock returns seconds since the Unix epoch with sub-second precision.
func nativeClock(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
	return runtime.NumberValue{Val: float64(time.Now().UnixNano()) / float64(time.Second)}, nil
}
