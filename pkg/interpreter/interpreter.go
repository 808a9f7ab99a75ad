package interpreter

import (
	"errors"
	"io"
	"os"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested user-function calls.
const DefaultMaxCallDepth = 1024

// Interpreter evaluates parsed programs. Globals persist across Interpret
// calls. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	global *runtime.Environment
	env    *runtime.Environment
	stdout io.Writer

	maxCallDepth int
	callDepth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout redirects `print` output.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.stdout = w
		}
	}
}

// WithMaxCallDepth sets the call depth guard. Zero disables it.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth >= 0 {
			i.maxCallDepth = depth
		}
	}
}

// WithNatives defines extra host functions in the global scope.
func WithNatives(natives ...*runtime.NativeFunctionValue) Option {
	return func(i *Interpreter) {
		for _, native := range natives {
			if native != nil {
				i.global.Define(native.Name, native)
			}
		}
	}
}

// New returns an interpreter whose global environment holds the builtin
// natives.
func New(opts ...Option) *Interpreter {
	global := runtime.NewEnvironment(nil)
	i := &Interpreter{
		global:       global,
		env:          global,
		stdout:       os.Stdout,
		maxCallDepth: DefaultMaxCallDepth,
	}
	i.defineBuiltins()
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// DefineNative registers a host function under name. A negative arity
// accepts any number of arguments.
func (i *Interpreter) DefineNative(name string, arity int, impl runtime.NativeFunc) {
	i.global.Define(name, runtime.NewNativeFunction(name, arity, impl))
}

// Interpret executes top-level statements in order. The first runtime error
// is reported, stops execution, and is returned as a *RuntimeError.
func (i *Interpreter) Interpret(program ast.Program, reporter *diagnostics.Reporter) error {
	i.env = i.global
	i.callDepth = 0
	for _, stmt := range program {
		if _, err := i.execute(stmt); err != nil {
			rerr := asRuntimeError(err)
			reporter.Runtime(rerr.Token.Line, rerr.Message)
			return rerr
		}
	}
	return nil
}

// ExecuteBlock runs stmts with env as the current scope and restores the
// previous scope afterwards, however the block exits.
func (i *Interpreter) ExecuteBlock(stmts []ast.Statement, env *runtime.Environment) (runtime.Outcome, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range stmts {
		outcome, err := i.execute(stmt)
		if err != nil {
			return runtime.Outcome{}, err
		}
		if !outcome.IsNormal() {
			return outcome, nil
		}
	}
	return runtime.Normal(), nil
}

func asRuntimeError(err error) *RuntimeError {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr
	}
	return &RuntimeError{Message: err.Error(), Cause: err}
}
