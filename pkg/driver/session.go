package driver

import (
	"errors"
	"io"

	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/interpreter"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/scanner"
)

// Exit codes follow the sysexits convention.
const (
	ExitOK           = 0
	ExitUsage        = 64
	ExitCompileError = 65
	ExitRuntimeError = 70
	ExitIOError      = 74
)

// SessionOptions configures NewSession.
type SessionOptions struct {
	Stdout io.Writer
	// Diagnostics receives each diagnostic as it is reported. May be nil.
	Diagnostics io.Writer
	// MaxCallDepth of zero keeps the interpreter default; negative disables
	// the guard.
	MaxCallDepth int
	Natives      []*runtime.NativeFunctionValue
}

// Session is a persistent interpreter. Globals defined by one Run are
// visible to the next.
type Session struct {
	interp *interpreter.Interpreter
	sink   io.Writer
}

// Result is the outcome of one Run.
type Result struct {
	Name            string
	Diagnostics     []diagnostics.Diagnostic
	HadError        bool
	HadRuntimeError bool
	// RuntimeError is the error that stopped execution, if any.
	RuntimeError *interpreter.RuntimeError
}

// ExitCode maps the result onto the CLI's exit status.
func (r Result) ExitCode() int {
	switch {
	case r.HadError:
		return ExitCompileError
	case r.HadRuntimeError:
		return ExitRuntimeError
	default:
		return ExitOK
	}
}

// OK reports whether the run finished without diagnostics.
func (r Result) OK() bool {
	return !r.HadError && !r.HadRuntimeError
}

func NewSession(opts SessionOptions) *Session {
	interpOpts := []interpreter.Option{interpreter.WithNatives(opts.Natives...)}
	if opts.Stdout != nil {
		interpOpts = append(interpOpts, interpreter.WithStdout(opts.Stdout))
	}
	switch {
	case opts.MaxCallDepth > 0:
		interpOpts = append(interpOpts, interpreter.WithMaxCallDepth(opts.MaxCallDepth))
	case opts.MaxCallDepth < 0:
		interpOpts = append(interpOpts, interpreter.WithMaxCallDepth(0))
	}
	return &Session{
		interp: interpreter.New(interpOpts...),
		sink:   opts.Diagnostics,
	}
}

// Interpreter exposes the underlying interpreter, e.g. to define natives.
func (s *Session) Interpreter() *interpreter.Interpreter {
	return s.interp
}

// Globals lists the names defined in the global scope, sorted.
func (s *Session) Globals() []string {
	return s.interp.GlobalEnvironment().Keys()
}

// Run scans and parses source and, if neither reported an error, executes
// it. Diagnostics are fresh for every call.
func (s *Session) Run(name, source string) Result {
	reporter := diagnostics.NewReporter(s.sink)
	tokens := scanner.Scan(source, reporter)
	program := parser.Parse(tokens, reporter)
	res := Result{Name: name}
	if !reporter.HadError() {
		if err := s.interp.Interpret(program, reporter); err != nil {
			errors.As(err, &res.RuntimeError)
		}
	}
	res.Diagnostics = reporter.Diagnostics()
	res.HadError = reporter.HadError()
	res.HadRuntimeError = reporter.HadRuntimeError()
	return res
}

// RunFiles executes files in order and stops at the first file that reports
// a diagnostic. The returned error is only for I/O failures.
func (s *Session) RunFiles(files []SourceFile) (Result, error) {
	var last Result
	for _, file := range files {
		source, err := file.Read()
		if err != nil {
			return Result{Name: file.Name}, err
		}
		last = s.Run(file.Name, source)
		if !last.OK() {
			return last, nil
		}
	}
	return last, nil
}
