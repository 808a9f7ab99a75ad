package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Print renders a node in a parenthesized prefix form, e.g. `(+ 1 (* 2 3))`.
// It exists for debugging and for tests that compare tree shapes.
func Print(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

// PrintProgram renders each top-level statement on its own line.
func PrintProgram(program Program) string {
	lines := make([]string, 0, len(program))
	for _, stmt := range program {
		lines = append(lines, Print(stmt))
	}
	return strings.Join(lines, "\n")
}

// FormatNumber renders a number the way the language prints it: integral
// values without a fractional part, everything else in shortest form.
func FormatNumber(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	}
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatLiteral renders a literal payload as source-like text.
func FormatLiteral(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return FormatNumber(v)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *Binary:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Logical:
		parenthesize(b, n.Operator.Lexeme, n.Left, n.Right)
	case *Grouping:
		parenthesize(b, "group", n.Expression)
	case *Literal:
		if s, ok := n.Value.(string); ok {
			b.WriteString(strconv.Quote(s))
			return
		}
		b.WriteString(FormatLiteral(n.Value))
	case *Unary:
		parenthesize(b, n.Operator.Lexeme, n.Right)
	case *Variable:
		b.WriteString(n.Name.Lexeme)
	case *Assign:
		parenthesize(b, "= "+n.Name.Lexeme, n.Value)
	case *Call:
		nodes := make([]Node, 0, len(n.Arguments)+1)
		nodes = append(nodes, n.Callee)
		for _, arg := range n.Arguments {
			nodes = append(nodes, arg)
		}
		parenthesize(b, "call", nodes...)
	case *ExpressionStatement:
		parenthesize(b, ";", n.Expression)
	case *PrintStatement:
		parenthesize(b, "print", n.Expression)
	case *VarStatement:
		if n.Initializer == nil {
			parenthesize(b, "var "+n.Name.Lexeme)
			return
		}
		parenthesize(b, "var "+n.Name.Lexeme, n.Initializer)
	case *BlockStatement:
		parenthesize(b, "block", statementNodes(n.Statements)...)
	case *IfStatement:
		if n.Else == nil {
			parenthesize(b, "if", n.Condition, n.Then)
			return
		}
		parenthesize(b, "if", n.Condition, n.Then, n.Else)
	case *WhileStatement:
		parenthesize(b, "while", n.Condition, n.Body)
	case *FunctionStatement:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Lexeme
		}
		head := fmt.Sprintf("fun %s (%s)", n.Name.Lexeme, strings.Join(params, " "))
		parenthesize(b, head, statementNodes(n.Body)...)
	case *ReturnStatement:
		if n.Value == nil {
			parenthesize(b, "return")
			return
		}
		parenthesize(b, "return", n.Value)
	default:
		fmt.Fprintf(b, "<%s>", node.NodeType())
	}
}

func parenthesize(b *strings.Builder, name string, nodes ...Node) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, node := range nodes {
		b.WriteByte(' ')
		writeNode(b, node)
	}
	b.WriteByte(')')
}

func statementNodes(stmts []Statement) []Node {
	out := make([]Node, len(stmts))
	for i, stmt := range stmts {
		out[i] = stmt
	}
	return out
}
