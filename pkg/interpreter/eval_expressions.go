package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluate(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return runtime.FromLiteral(n.Value), nil
	case *ast.Grouping:
		return i.evaluate(n.Expression)
	case *ast.Variable:
		val, err := i.env.Get(n.Name.Lexeme)
		if err != nil {
			return nil, wrapAt(n.Name, err)
		}
		return val, nil
	case *ast.Assign:
		val, err := i.evaluate(n.Value)
		if err != nil {
			return nil, err
		}
		if err := i.env.Assign(n.Name.Lexeme, val); err != nil {
			return nil, wrapAt(n.Name, err)
		}
		return val, nil
	case *ast.Unary:
		return i.evaluateUnary(n)
	case *ast.Binary:
		return i.evaluateBinary(n)
	case *ast.Logical:
		return i.evaluateLogical(n)
	case *ast.Call:
		return i.evaluateCall(n)
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateUnary(expr *ast.Unary) (runtime.Value, error) {
	right, err := i.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(right)}, nil
	case token.Minus:
		num, ok := right.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	default:
		return nil, runtimeError(expr.Operator, "Unsupported unary operator %s.", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinary(expr *ast.Binary) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(expr.Right)
	if err != nil {
		return nil, err
	}
	op := expr.Operator

	switch op.Kind {
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.ValuesEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.ValuesEqual(left, right)}, nil
	case token.Plus:
		if l, ok := left.(runtime.NumberValue); ok {
			if r, ok := right.(runtime.NumberValue); ok {
				return runtime.NumberValue{Val: l.Val + r.Val}, nil
			}
		}
		if l, ok := left.(runtime.StringValue); ok {
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: l.Val + r.Val}, nil
			}
		}
		return nil, runtimeError(op, "Operands must be two numbers or two strings.")
	}

	l, r, err := numberOperands(op, left, right)
	if err != nil {
		return nil, err
	}
	switch op.Kind {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Slash:
		// IEEE semantics: x/0 is ±Inf and 0/0 is NaN.
		return runtime.NumberValue{Val: l / r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, runtimeError(op, "Unsupported binary operator %s.", op.Lexeme)
	}
}

func numberOperands(op token.Token, left, right runtime.Value) (float64, float64, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, runtimeError(op, "Operands must be numbers.")
	}
	return l.Val, r.Val, nil
}

// evaluateLogical short-circuits and yields the operand that decided the
// result, not a coerced boolean.
func (i *Interpreter) evaluateLogical(expr *ast.Logical) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Kind == token.Or {
		if runtime.IsTruthy(left) {
			return left, nil
		}
	} else if !runtime.IsTruthy(left) {
		return left, nil
	}
	return i.evaluate(expr.Right)
}

func (i *Interpreter) evaluateCall(call *ast.Call) (runtime.Value, error) {
	callee, err := i.evaluate(call.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, runtimeError(call.Paren, "Can only call functions and classes.")
	}
	if err := runtime.CheckArity(fn, len(args)); err != nil {
		return nil, wrapAt(call.Paren, err)
	}

	if _, user := fn.(*runtime.FunctionValue); user {
		if i.maxCallDepth > 0 && i.callDepth >= i.maxCallDepth {
			return nil, runtimeError(call.Paren, "Stack overflow.")
		}
		i.callDepth++
		defer func() { i.callDepth-- }()
	}

	result, err := fn.Call(i, args)
	if err != nil {
		return nil, wrapAt(call.Paren, err)
	}
	return result, nil
}
