package interpreter

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/token"
)

// RuntimeError is an evaluation failure attributed to a source token.
type RuntimeError struct {
	Token   token.Token
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func (e *RuntimeError) Unwrap() error {
	return e.Cause
}

func runtimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// wrapAt attributes a lower-level error to tok unless it already carries a
// position.
func wrapAt(tok token.Token, err error) error {
	if err == nil {
		return nil
	}
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return err
	}
	return &RuntimeError{Token: tok, Message: err.Error(), Cause: err}
}
