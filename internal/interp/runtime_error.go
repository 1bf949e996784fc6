package interp

import (
	"fmt"

	"github.com/wfl-lang/wfl/internal/errors"
	"github.com/wfl-lang/wfl/internal/lexer"
)

// RuntimeError is a runtime failure (spec §7 "Runtime errors"): division by
// zero, index out of bounds, wrong-type value at a coerceable site,
// unhandled I/O failure, pattern step-limit exceeded, cancellation, or
// execution-timeout exceeded. It implements error so it can propagate
// through ordinary Go call stacks and be recovered at a `try` boundary,
// and it carries the WFL error Kind/message split a `try ... when error`
// handler binds to its error variable.
type RuntimeError struct {
	Kind    string
	Message string
	Pos     lexer.Position
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Text renders the error the way a `try` handler's bound error variable
// displays it: kind and message, not a Go-style stack trace.
func (e *RuntimeError) Text() Text {
	return Text(e.Error())
}

func newRuntimeError(pos lexer.Position, kind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

const (
	ErrDivisionByZero  = "DivisionByZero"
	ErrIndexOutOfRange = "IndexOutOfRange"
	ErrTypeError       = "TypeError"
	ErrUndefinedName   = "UndefinedName"
	ErrArity           = "ArityError"
	ErrIO              = "IOError"
	ErrNetwork         = "NetworkError"
	ErrPatternDepth    = "PatternStepLimitExceeded"
	ErrCancelled       = "Cancelled"
	ErrTimeout         = "ExecutionTimeoutExceeded"
)

// DiagnosticCode maps the runtime error's Kind to the Reporter's stable
// diagnostic code namespace, so an uncaught RuntimeError gets the same
// caret-annotated rendering as a lexer/parser/semantic/type diagnostic
// instead of a bare Go-style error line.
func (e *RuntimeError) DiagnosticCode() string {
	if e.Kind == ErrPatternDepth {
		return errors.CodePatternRuntimeDepth
	}
	return errors.CodeRuntimePanic
}
