package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) execute(node ast.Statement) (runtime.Outcome, error) {
	switch n := node.(type) {
	case *ast.ExpressionStatement:
		if _, err := i.evaluate(n.Expression); err != nil {
			return runtime.Outcome{}, err
		}
		return runtime.Normal(), nil
	case *ast.PrintStatement:
		return i.executePrint(n)
	case *ast.VarStatement:
		return i.executeVar(n)
	case *ast.BlockStatement:
		return i.ExecuteBlock(n.Statements, i.env.Extend())
	case *ast.IfStatement:
		return i.executeIf(n)
	case *ast.WhileStatement:
		return i.executeWhile(n)
	case *ast.FunctionStatement:
		i.env.Define(n.Name.Lexeme, runtime.NewFunctionValue(n, i.env))
		return runtime.Normal(), nil
	case *ast.ReturnStatement:
		return i.executeReturn(n)
	default:
		return runtime.Outcome{}, fmt.Errorf("unsupported statement type: %s", node.NodeType())
	}
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement) (runtime.Outcome, error) {
	val, err := i.evaluate(stmt.Expression)
	if err != nil {
		return runtime.Outcome{}, err
	}
	if _, err := fmt.Fprintln(i.stdout, runtime.Stringify(val)); err != nil {
		return runtime.Outcome{}, fmt.Errorf("print: %w", err)
	}
	return runtime.Normal(), nil
}

func (i *Interpreter) executeVar(stmt *ast.VarStatement) (runtime.Outcome, error) {
	var value runtime.Value = runtime.NilValue{}
	if stmt.Initializer != nil {
		val, err := i.evaluate(stmt.Initializer)
		if err != nil {
			return runtime.Outcome{}, err
		}
		value = val
	}
	i.env.Define(stmt.Name.Lexeme, value)
	return runtime.Normal(), nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement) (runtime.Outcome, error) {
	cond, err := i.evaluate(stmt.Condition)
	if err != nil {
		return runtime.Outcome{}, err
	}
	if runtime.IsTruthy(cond) {
		return i.execute(stmt.Then)
	}
	if stmt.Else != nil {
		return i.execute(stmt.Else)
	}
	return runtime.Normal(), nil
}

func (i *Interpreter) executeWhile(loop *ast.WhileStatement) (runtime.Outcome, error) {
	for {
		cond, err := i.evaluate(loop.Condition)
		if err != nil {
			return runtime.Outcome{}, err
		}
		if !runtime.IsTruthy(cond) {
			return runtime.Normal(), nil
		}
		outcome, err := i.execute(loop.Body)
		if err != nil {
			return runtime.Outcome{}, err
		}
		switch outcome.Kind {
		case runtime.OutcomeBreak:
			return runtime.Normal(), nil
		case runtime.OutcomeContinue, runtime.OutcomeNormal:
			continue
		default:
			return outcome, nil
		}
	}
}

func (i *Interpreter) executeReturn(stmt *ast.ReturnStatement) (runtime.Outcome, error) {
	var value runtime.Value = runtime.NilValue{}
	if stmt.Value != nil {
		val, err := i.evaluate(stmt.Value)
		if err != nil {
			return runtime.Outcome{}, err
		}
		value = val
	}
	return runtime.Return(value), nil
}
