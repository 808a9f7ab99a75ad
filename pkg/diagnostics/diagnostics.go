package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"lox/interpreter-go/pkg/token"
)

// Kind classifies a diagnostic by the stage that produced it.
type Kind int

const (
	KindLexical Kind = iota
	KindParse
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindParse:
		return "parse"
	case KindRuntime:
		return "runtime"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind    Kind
	Line    int
	Where   string
	Message string
}

// String renders the diagnostic the way the CLI prints it.
func (d Diagnostic) String() string {
	if d.Kind == KindRuntime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	where := ""
	if d.Where != "" {
		where = " " + d.Where
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, where, d.Message)
}

// Reporter accumulates diagnostics for one scan/parse/interpret cycle and
// exposes the compile-time and runtime error flags the host inspects.
// When a sink is configured every diagnostic is also written to it as it
// arrives.
type Reporter struct {
	sink            io.Writer
	entries         []Diagnostic
	hadError        bool
	hadRuntimeError bool
}

// NewReporter creates a reporter. sink may be nil.
func NewReporter(sink io.Writer) *Reporter {
	return &Reporter{sink: sink}
}

// Report records a compile-time error at line. where is either empty,
// "at end", or "at 'lexeme'".
func (r *Reporter) Report(line int, where, message string) {
	kind := KindParse
	if where == "" {
		kind = KindLexical
	}
	r.add(Diagnostic{Kind: kind, Line: line, Where: where, Message: message})
}

// Lexical records a scanner error.
func (r *Reporter) Lexical(line int, message string) {
	r.add(Diagnostic{Kind: KindLexical, Line: line, Message: message})
}

// ErrorAt records a parse error positioned at tok.
func (r *Reporter) ErrorAt(tok token.Token, message string) {
	where := "at '" + tok.Lexeme + "'"
	if tok.Kind == token.EOF {
		where = "at end"
	}
	r.add(Diagnostic{Kind: KindParse, Line: tok.Line, Where: where, Message: message})
}

// Runtime records an error raised while executing.
func (r *Reporter) Runtime(line int, message string) {
	r.add(Diagnostic{Kind: KindRuntime, Line: line, Message: message})
}

func (r *Reporter) add(d Diagnostic) {
	if r == nil {
		return
	}
	r.entries = append(r.entries, d)
	if d.Kind == KindRuntime {
		r.hadRuntimeError = true
	} else {
		r.hadError = true
	}
	if r.sink != nil {
		fmt.Fprintln(r.sink, d.String())
	}
}

// HadError reports whether a lexical or parse error was recorded.
func (r *Reporter) HadError() bool {
	return r != nil && r.hadError
}

// HadRuntimeError reports whether a runtime error was recorded.
func (r *Reporter) HadRuntimeError() bool {
	return r != nil && r.hadRuntimeError
}

// Diagnostics returns a copy of everything recorded so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	if r == nil || len(r.entries) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of diagnostics of the given kind.
func (r *Reporter) Count(kind Kind) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, d := range r.entries {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Reset clears recorded diagnostics and both flags.
func (r *Reporter) Reset() {
	if r == nil {
		return
	}
	r.entries = nil
	r.hadError = false
	r.hadRuntimeError = false
}

// Messages renders every diagnostic, one per entry.
func (r *Reporter) Messages() []string {
	diags := r.Diagnostics()
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.String())
	}
	return out
}

// Summary joins all rendered diagnostics with newlines.
func (r *Reporter) Summary() string {
	return strings.Join(r.Messages(), "\n")
}
