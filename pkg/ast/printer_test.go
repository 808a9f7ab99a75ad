package ast

import (
	"math"
	"testing"

	"lox/interpreter-go/pkg/token"
)

func tok(kind token.Kind, lexeme string) token.Token {
	return token.New(kind, lexeme, nil, 1)
}

func TestPrintExpression(t *testing.T) {
	expr := NewBinary(
		NewUnary(tok(token.Minus, "-"), NewLiteral(123.0)),
		tok(token.Star, "*"),
		NewGrouping(NewLiteral(45.67)),
	)
	if got, want := Print(expr), "(* (- 123) (group 45.67))"; got != want {
		t.Fatalf("Print = %q, want %q", got, want)
	}
}

func TestPrintStatements(t *testing.T) {
	name := tok(token.Identifier, "add")
	a := tok(token.Identifier, "a")
	b := tok(token.Identifier, "b")
	fn := NewFunctionStatement(name, []token.Token{a, b}, []Statement{
		NewReturnStatement(tok(token.Return, "return"), NewBinary(NewVariable(a), tok(token.Plus, "+"), NewVariable(b))),
	})
	call := NewPrintStatement(NewCall(NewVariable(name), tok(token.RightParen, ")"), []Expression{NewLiteral(2.0), NewLiteral("x")}))
	program := Program{
		fn,
		call,
		NewVarStatement(tok(token.Identifier, "z"), nil),
		NewIfStatement(NewLiteral(true), NewBlockStatement(nil), NewExpressionStatement(NewAssign(tok(token.Identifier, "z"), NewLiteral(nil)))),
		NewWhileStatement(NewLogical(NewLiteral(false), tok(token.Or, "or"), NewLiteral(true)), NewBlockStatement(nil)),
	}
	want := "(fun add (a b) (return (+ a b)))\n" +
		"(print (call add 2 \"x\"))\n" +
		"(var z)\n" +
		"(if true (block) (; (= z nil)))\n" +
		"(while (or false true) (block))"
	if got := PrintProgram(program); got != want {
		t.Fatalf("PrintProgram =\n%s\nwant\n%s", got, want)
	}
}

func TestFormatNumber(t *testing.T) {
	tenth, fifth := 0.1, 0.2
	cases := map[float64]string{
		7:             "7",
		2.5:           "2.5",
		-3:            "-3",
		tenth + fifth: "0.30000000000000004",
		1e21:          "1e+21",
		1234567890:    "1234567890",
		math.Inf(1):   "inf",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatNumber(math.NaN()); got != "nan" {
		t.Fatalf("FormatNumber(NaN) = %q", got)
	}
}

func TestNodeTypes(t *testing.T) {
	var stmt Statement = NewPrintStatement(NewLiteral(1.0))
	if stmt.NodeType() != NodePrintStatement {
		t.Fatalf("unexpected node type %s", stmt.NodeType())
	}
	var expr Expression = NewCall(NewVariable(tok(token.Identifier, "f")), tok(token.RightParen, ")"), nil)
	if expr.NodeType() != NodeCall {
		t.Fatalf("unexpected node type %s", expr.NodeType())
	}
}
