package parser

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/scanner"
)

func parseSource(t *testing.T, source string) (ast.Program, *diagnostics.Reporter) {
	t.Helper()
	reporter := diagnostics.NewReporter(io.Discard)
	tokens := scanner.Scan(source, reporter)
	return Parse(tokens, reporter), reporter
}

func mustParse(t *testing.T, source string) ast.Program {
	t.Helper()
	program, reporter := parseSource(t, source)
	if reporter.HadError() {
		t.Fatalf("unexpected diagnostics for %q: %v", source, reporter.Messages())
	}
	return program
}

func TestParseShapes(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{"precedence", "1 + 2 * 3;", "(; (+ 1 (* 2 3)))"},
		{"left associative", "1 - 2 - 3;", "(; (- (- 1 2) 3))"},
		{"grouping", "(1 + 2) * 3;", "(; (* (group (+ 1 2)) 3))"},
		{"unary", "!-x;", "(; (! (- x)))"},
		{"comparison over equality", "1 < 2 == true;", "(; (== (< 1 2) true))"},
		{"logical", "a or b and c;", "(; (or a (and b c)))"},
		{"assignment right associative", "a = b = 1;", "(; (= a (= b 1)))"},
		{"call chain", "f(1)(2, 3);", "(; (call (call f 1) 2 3))"},
		{"print string", `print "hi";`, `(print "hi")`},
		{"var without initializer", "var a;", "(var a)"},
		{"var with initializer", "var a = nil;", "(var a nil)"},
		{"if else", "if (a) print 1; else print 2;", "(if a (print 1) (print 2))"},
		{"while", "while (x) x = x - 1;", "(while x (; (= x (- x 1))))"},
		{"block", "{ var a = 1; print a; }", "(block (var a 1) (print a))"},
		{"function", "fun add(a, b) { return a + b; }", "(fun add (a b) (return (+ a b)))"},
		{"bare return", "fun f() { return; }", "(fun f () (return))"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			program := mustParse(t, tc.source)
			if got := ast.PrintProgram(program); got != tc.want {
				t.Fatalf("parse %q = %s, want %s", tc.source, got, tc.want)
			}
		})
	}
}

func TestForDesugarsToWhile(t *testing.T) {
	program := mustParse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	want := "(block (var i 0) (while (< i 3) (block (print i) (; (= i (+ i 1))))))"
	if got := ast.PrintProgram(program); got != want {
		t.Fatalf("for desugaring = %s, want %s", got, want)
	}

	program = mustParse(t, "for (;;) print 1;")
	if got, want := ast.PrintProgram(program), "(while true (print 1))"; got != want {
		t.Fatalf("empty for clauses = %s, want %s", got, want)
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	program, reporter := parseSource(t, "a + b = c;\nprint 1;")
	msgs := reporter.Messages()
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at '=': Invalid assignment target." {
		t.Fatalf("unexpected diagnostics %v", msgs)
	}
	if got, want := ast.PrintProgram(program), "(print 1)"; got != want {
		t.Fatalf("program after recovery = %s, want %s", got, want)
	}
}

func TestRecoveryReportsOneErrorPerStatement(t *testing.T) {
	source := "var = 1;\nprint 2;\nvar b = 3;"
	program, reporter := parseSource(t, source)
	msgs := reporter.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected one diagnostic, got %v", msgs)
	}
	if msgs[0] != "[line 1] Error at '=': Expect variable name." {
		t.Fatalf("unexpected diagnostic %q", msgs[0])
	}
	if got, want := ast.PrintProgram(program), "(print 2)\n(var b 3)"; got != want {
		t.Fatalf("recovered program = %s, want %s", got, want)
	}
}

func TestRecoveryInsideBlockKeepsSiblings(t *testing.T) {
	program, reporter := parseSource(t, "{ print ; print 1; }")
	if reporter.Count(diagnostics.KindParse) != 1 {
		t.Fatalf("expected one parse error, got %v", reporter.Messages())
	}
	if got, want := ast.PrintProgram(program), "(block (print 1))"; got != want {
		t.Fatalf("block after recovery = %s, want %s", got, want)
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"print 1", "[line 1] Error at end: Expect ';' after value."},
		{"(1 + 2;", "[line 1] Error at ';': Expect ')' after expression."},
		{"1 +;", "[line 1] Error at ';': Expect expression."},
		{"f(1;", "[line 1] Error at ';': Expect ')' after arguments."},
		{"fun (a) {}", "[line 1] Error at '(': Expect function name."},
		{"fun f(1) {}", "[line 1] Error at '1': Expect parameter name."},
		{"fun f() print 1;", "[line 1] Error at 'print': Expect '{' before function body."},
		{"{ print 1;", "[line 1] Error at end: Expect '}' after block."},
		{"if 1) print 1;", "[line 1] Error at '1': Expect '(' after 'if'."},
		{"while (true print 1;", "[line 1] Error at 'print': Expect ')' after condition."},
		{"return 1;", "[line 1] Error at 'return': Can't return from top-level code."},
	}
	for _, tc := range cases {
		_, reporter := parseSource(t, tc.source)
		msgs := reporter.Messages()
		if len(msgs) == 0 || msgs[0] != tc.want {
			t.Fatalf("parse %q diagnostics = %v, want first %q", tc.source, msgs, tc.want)
		}
	}
}

func TestTopLevelReturnStillParses(t *testing.T) {
	program, reporter := parseSource(t, "return 1;\nprint 2;")
	if reporter.Count(diagnostics.KindParse) != 1 {
		t.Fatalf("expected one diagnostic, got %v", reporter.Messages())
	}
	if len(program) != 2 {
		t.Fatalf("expected both statements to be kept, got %s", ast.PrintProgram(program))
	}
}

func TestArgumentLimit(t *testing.T) {
	args := make([]string, 256)
	for i := range args {
		args[i] = fmt.Sprint(i)
	}
	source := "f(" + strings.Join(args, ", ") + ");"
	program, reporter := parseSource(t, source)
	msgs := reporter.Messages()
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at '255': Can't have more than 255 arguments." {
		t.Fatalf("unexpected diagnostics %v", msgs)
	}
	if len(program) != 1 {
		t.Fatalf("call with too many arguments should still parse")
	}

	_, reporter = parseSource(t, "f("+strings.Join(args[:255], ", ")+");")
	if reporter.HadError() {
		t.Fatalf("255 arguments should be accepted: %v", reporter.Messages())
	}
}

func TestParameterLimit(t *testing.T) {
	params := make([]string, 256)
	for i := range params {
		params[i] = fmt.Sprintf("p%d", i)
	}
	_, reporter := parseSource(t, "fun f("+strings.Join(params, ", ")+") {}")
	msgs := reporter.Messages()
	if len(msgs) != 1 || msgs[0] != "[line 1] Error at 'p255': Can't have more than 255 parameters." {
		t.Fatalf("unexpected diagnostics %v", msgs)
	}
}

func TestParseExpression(t *testing.T) {
	reporter := diagnostics.NewReporter(io.Discard)
	p := New(scanner.Scan("-1 * (2 + x)", reporter), reporter)
	expr, err := p.ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if got, want := ast.Print(expr), "(* (- 1) (group (+ 2 x)))"; got != want {
		t.Fatalf("expression = %s, want %s", got, want)
	}

	reporter = diagnostics.NewReporter(io.Discard)
	_, err = New(scanner.Scan("1 2", reporter), reporter).ParseExpression()
	if err == nil || !reporter.HadError() {
		t.Fatalf("expected trailing token error")
	}
}

func TestNewSuppliesEOF(t *testing.T) {
	program := Parse(nil, diagnostics.NewReporter(io.Discard))
	if len(program) != 0 {
		t.Fatalf("expected empty program, got %d statements", len(program))
	}
}
