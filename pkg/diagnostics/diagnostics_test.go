package diagnostics

import (
	"bytes"
	"testing"

	"lox/interpreter-go/pkg/token"
)

func TestReporterFormatsCompileErrors(t *testing.T) {
	var sink bytes.Buffer
	r := NewReporter(&sink)

	r.Lexical(2, "Unexpected character.")
	r.ErrorAt(token.New(token.Identifier, "foo", nil, 3), "Expect ';' after expression.")
	r.ErrorAt(token.New(token.EOF, "", nil, 4), "Expect expression.")

	want := "[line 2] Error: Unexpected character.\n" +
		"[line 3] Error at 'foo': Expect ';' after expression.\n" +
		"[line 4] Error at end: Expect expression.\n"
	if sink.String() != want {
		t.Fatalf("sink = %q, want %q", sink.String(), want)
	}
	if !r.HadError() {
		t.Fatalf("expected HadError")
	}
	if r.HadRuntimeError() {
		t.Fatalf("unexpected HadRuntimeError")
	}
	if r.Count(KindParse) != 2 || r.Count(KindLexical) != 1 {
		t.Fatalf("unexpected counts: parse=%d lexical=%d", r.Count(KindParse), r.Count(KindLexical))
	}
}

func TestReporterRuntimeFlag(t *testing.T) {
	r := NewReporter(nil)
	r.Runtime(7, "Operands must be numbers.")
	if r.HadError() {
		t.Fatalf("runtime errors must not set HadError")
	}
	if !r.HadRuntimeError() {
		t.Fatalf("expected HadRuntimeError")
	}
	if got := r.Summary(); got != "Operands must be numbers.\n[line 7]" {
		t.Fatalf("summary = %q", got)
	}

	r.Reset()
	if r.HadRuntimeError() || len(r.Diagnostics()) != 0 {
		t.Fatalf("reset did not clear state")
	}
}

func TestReportClassifiesByWhere(t *testing.T) {
	r := NewReporter(nil)
	r.Report(1, "", "Unterminated string.")
	r.Report(1, "at 'x'", "Invalid assignment target.")
	diags := r.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if diags[0].Kind != KindLexical || diags[1].Kind != KindParse {
		t.Fatalf("unexpected kinds %s, %s", diags[0].Kind, diags[1].Kind)
	}
}

func TestNilReporterIsInert(t *testing.T) {
	var r *Reporter
	r.Lexical(1, "ignored")
	if r.HadError() || r.HadRuntimeError() || r.Diagnostics() != nil {
		t.Fatalf("nil reporter should report nothing")
	}
}
