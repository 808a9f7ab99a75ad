package runtime

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
)

// ArityError reports a call with the wrong number of arguments.
type ArityError struct {
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("Expected %d arguments but got %d.", e.Expected, e.Got)
}

// CallContext is the slice of the interpreter a callable needs to run a body.
type CallContext interface {
	ExecuteBlock(stmts []ast.Statement, env *Environment) (Outcome, error)
}

// Callable is implemented by every value that can appear before `(`.
type Callable interface {
	Value
	Arity() int
	Call(ctx CallContext, args []Value) (Value, error)
	String() string
}

// CheckArity returns an *ArityError when got does not match c's arity.
// Negative arities accept any number of arguments.
func CheckArity(c Callable, got int) error {
	if want := c.Arity(); want >= 0 && want != got {
		return &ArityError{Expected: want, Got: got}
	}
	return nil
}

//-----------------------------------------------------------------------------
// User-defined functions
//-----------------------------------------------------------------------------

// FunctionValue is a declared function closed over the environment in which
// its declaration executed.
type FunctionValue struct {
	Declaration *ast.FunctionStatement
	Closure     *Environment
}

func NewFunctionValue(decl *ast.FunctionStatement, closure *Environment) *FunctionValue {
	return &FunctionValue{Declaration: decl, Closure: closure}
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) Arity() int { return len(v.Declaration.Params) }

func (v *FunctionValue) Name() string { return v.Declaration.Name.Lexeme }

func (v *FunctionValue) String() string { return "<fn " + v.Name() + ">" }

// Call binds args in a fresh child of the closure and runs the body. A
// return outcome is absorbed here; falling off the end yields nil.
func (v *FunctionValue) Call(ctx CallContext, args []Value) (Value, error) {
	if err := CheckArity(v, len(args)); err != nil {
		return nil, err
	}
	env := v.Closure.Extend()
	for i, param := range v.Declaration.Params {
		env.Define(param.Lexeme, args[i])
	}
	outcome, err := ctx.ExecuteBlock(v.Declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if outcome.Kind == OutcomeReturn && outcome.Value != nil {
		return outcome.Value, nil
	}
	return NilValue{}, nil
}

//-----------------------------------------------------------------------------
// Host functions
//-----------------------------------------------------------------------------

// NativeCallContext provides hooks for native functions.
type NativeCallContext struct {
	Caller CallContext
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue wraps a Go function. Arity -1 means variadic.
type NativeFunctionValue struct {
	Name     string
	ArityVal int
	Impl     NativeFunc
}

func NewNativeFunction(name string, arity int, impl NativeFunc) *NativeFunctionValue {
	return &NativeFunctionValue{Name: name, ArityVal: arity, Impl: impl}
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v *NativeFunctionValue) Arity() int { return v.ArityVal }

func (v *NativeFunctionValue) String() string { return "<native fn " + v.Name + ">" }

func (v *NativeFunctionValue) Call(ctx CallContext, args []Value) (Value, error) {
	if err := CheckArity(v, len(args)); err != nil {
		return nil, err
	}
	if v.Impl == nil {
		return NilValue{}, nil
	}
	result, err := v.Impl(&NativeCallContext{Caller: ctx}, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return NilValue{}, nil
	}
	return result, nil
}
