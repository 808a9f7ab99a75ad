package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/scanner"
)

// runSource scans, parses and, when that succeeded, interprets source.
func runSource(t *testing.T, source string) (stdout string, reporter *diagnostics.Reporter) {
	t.Helper()
	var out bytes.Buffer
	reporter = diagnostics.NewReporter(nil)
	program := parser.Parse(scanner.Scan(source, reporter), reporter)
	if reporter.HadError() {
		return "", reporter
	}
	_ = New(WithStdout(&out)).Interpret(program, reporter)
	return out.String(), reporter
}

func TestProgramEvaluation(t *testing.T) {
	cases := []struct {
		name    string
		source  string
		stdout  string
		runtime string
	}{
		{name: "empty program", source: "", stdout: ""},
		{name: "precedence", source: "print 1 + 2 * 3;", stdout: "7\n"},
		{name: "grouping", source: "print (1 + 2) * 3;\nprint 2 * (3 + 4);\nprint 2 * 3 + 4 * 2 + 6;", stdout: "9\n14\n20\n"},
		{name: "fractions", source: "print 1 / 4;\nprint 0.1 + 0.2;", stdout: "0.25\n0.30000000000000004\n"},
		{name: "strings", source: `print "a" + "b";`, stdout: "ab\n"},
		{name: "shadowing", source: "var a = 1; { var a = 2; print a; } print a;", stdout: "2\n1\n"},
		{name: "uninitialized var is nil", source: "var a; print a;", stdout: "nil\n"},
		{name: "assignment is an expression", source: "var a; var b; a = b = 3; print a; print b;", stdout: "3\n3\n"},
		{name: "function", source: "fun add(a, b) { return a + b; } print add(2, 3);", stdout: "5\n"},
		{name: "short circuit", source: "print false and (1 / 0);\nprint true or undefined;", stdout: "false\ntrue\n"},
		{name: "logical yields operand", source: `print nil or "default"; print 1 and 2;`, stdout: "default\n2\n"},
		{
			name:   "for loop",
			source: "for (var i = 0; i < 3; i = i + 1) print i;",
			stdout: "0\n1\n2\n",
		},
		{
			name:   "fibonacci",
			source: "fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); }\nprint fib(15);",
			stdout: "610\n",
		},
		{
			name: "closures see later assignments",
			source: `var x = "before";
fun show() { print x; }
x = "after";
show();`,
			stdout: "after\n",
		},
		{
			name: "closure looks up names through its declaring scope",
			source: `var a = "global";
{
  fun showA() { print a; }
  showA();
  var a = "block";
  showA();
}`,
			stdout: "global\nblock\n",
		},
		{name: "function value prints", source: "fun f() {} print f; print clock;", stdout: "<fn f>\n<native fn clock>\n"},
		{name: "runtime type error", source: `print "a" - 1;`, stdout: "", runtime: "Operands must be numbers.\n[line 1]"},
		{name: "arity error", source: "fun add(a, b) { print \"ran\"; }\nadd(1);", stdout: "", runtime: "Expected 2 arguments but got 1.\n[line 2]"},
		{name: "output before runtime error", source: "print 1;\nprint -\"x\";\nprint 2;", stdout: "1\n", runtime: "Operand must be a number.\n[line 2]"},
		{name: "undefined variable", source: "print y;", runtime: "Undefined variable 'y'.\n[line 1]"},
		{name: "call non-callable", source: `"str"();`, runtime: "Can only call functions and classes.\n[line 1]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stdout, reporter := runSource(t, tc.source)
			if reporter.HadError() {
				t.Fatalf("unexpected compile diagnostics: %v", reporter.Messages())
			}
			if stdout != tc.stdout {
				t.Fatalf("stdout = %q, want %q", stdout, tc.stdout)
			}
			if tc.runtime == "" {
				if reporter.HadRuntimeError() {
					t.Fatalf("unexpected runtime error: %s", reporter.Summary())
				}
				return
			}
			if got := reporter.Summary(); got != tc.runtime {
				t.Fatalf("runtime diagnostic = %q, want %q", got, tc.runtime)
			}
		})
	}
}

func TestParseErrorPreventsExecution(t *testing.T) {
	stdout, reporter := runSource(t, "print 1;\nprint (2;\nprint 3;")
	if stdout != "" {
		t.Fatalf("nothing should run after a parse error, got %q", stdout)
	}
	if got := reporter.Count(diagnostics.KindParse); got != 1 {
		t.Fatalf("expected exactly one parse error, got %v", reporter.Messages())
	}
	if msg := reporter.Messages()[0]; !strings.HasPrefix(msg, "[line 2] Error at ';'") {
		t.Fatalf("unexpected diagnostic %q", msg)
	}
}

func TestDeepRecursionWithinLimit(t *testing.T) {
	stdout, reporter := runSource(t, "fun down(n) { if (n == 0) return 0; return down(n - 1); } print down(500);")
	if reporter.HadRuntimeError() {
		t.Fatalf("unexpected runtime error: %s", reporter.Summary())
	}
	if stdout != "0\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestUnboundedRecursionReportsStackOverflow(t *testing.T) {
	_, reporter := runSource(t, "fun f() { f(); } f();")
	if got, want := reporter.Summary(), "Stack overflow.\n[line 1]"; got != want {
		t.Fatalf("diagnostic = %q, want %q", got, want)
	}
}
