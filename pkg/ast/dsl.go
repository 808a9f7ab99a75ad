package ast

import "lox/interpreter-go/pkg/token"

// Builders for constructing trees by hand, mostly in tests. Synthesized
// tokens carry line 1.

func ident(name string) token.Token {
	return token.New(token.Identifier, name, nil, 1)
}

func operator(lexeme string) token.Token {
	kind, ok := operatorKinds[lexeme]
	if !ok {
		kind = token.LookupIdentifier(lexeme)
	}
	return token.New(kind, lexeme, nil, 1)
}

var operatorKinds = map[string]token.Kind{
	"-":  token.Minus,
	"+":  token.Plus,
	"/":  token.Slash,
	"*":  token.Star,
	"!":  token.Bang,
	"!=": token.BangEqual,
	"==": token.EqualEqual,
	">":  token.Greater,
	">=": token.GreaterEqual,
	"<":  token.Less,
	"<=": token.LessEqual,
}

// Literal helpers.

func Num(value float64) *Literal {
	return NewLiteral(value)
}

func Str(value string) *Literal {
	return NewLiteral(value)
}

func Bool(value bool) *Literal {
	return NewLiteral(value)
}

func Nil() *Literal {
	return NewLiteral(nil)
}

func ID(name string) *Variable {
	return NewVariable(ident(name))
}

// Operators. op is the source lexeme, e.g. "+" or "and".

func Bin(left Expression, op string, right Expression) *Binary {
	return NewBinary(left, operator(op), right)
}

func Un(op string, right Expression) *Unary {
	return NewUnary(operator(op), right)
}

func And(left, right Expression) *Logical {
	return NewLogical(left, operator("and"), right)
}

func Or(left, right Expression) *Logical {
	return NewLogical(left, operator("or"), right)
}

func Group(inner Expression) *Grouping {
	return NewGrouping(inner)
}

func Set(name string, value Expression) *Assign {
	return NewAssign(ident(name), value)
}

func CallExpr(callee Expression, args ...Expression) *Call {
	return NewCall(callee, token.New(token.RightParen, ")", nil, 1), args)
}

// Statements.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func PrintStmt(expr Expression) *PrintStatement {
	return NewPrintStatement(expr)
}

func Var(name string, initializer Expression) *VarStatement {
	return NewVarStatement(ident(name), initializer)
}

func Block(statements ...Statement) *BlockStatement {
	return NewBlockStatement(statements)
}

func If(condition Expression, then, els Statement) *IfStatement {
	return NewIfStatement(condition, then, els)
}

func While(condition Expression, body Statement) *WhileStatement {
	return NewWhileStatement(condition, body)
}

func Fun(name string, params []string, body ...Statement) *FunctionStatement {
	toks := make([]token.Token, len(params))
	for i, p := range params {
		toks[i] = ident(p)
	}
	return NewFunctionStatement(ident(name), toks, body)
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(token.New(token.Return, "return", nil, 1), value)
}

func Prog(statements ...Statement) Program {
	return Program(statements)
}
