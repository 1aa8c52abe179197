package formula

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrEmptyInput is returned by Normalize when the input has no visible characters.
var ErrEmptyInput = errors.New("empty input")

// ErrSyntax is matched by every *SyntaxError.
var ErrSyntax = errors.New("syntax error")

// ErrEvaluation is wrapped by every error returned from Expression.Eval.
var ErrEvaluation = errors.New("evaluation failed")

// Evaluation failures. None of them produces a value; the caller decides
// whether the whole computation is lost.
var (
	ErrDivisionByZero = errors.Wrap(ErrEvaluation, "division by zero")
	ErrDomain         = errors.Wrap(ErrEvaluation, "result is not a real number")
	ErrOverflow       = errors.Wrap(ErrEvaluation, "result is infinite")
)

// SyntaxError describes why a text could not be parsed. Pos is the byte
// offset in the parsed text where the problem was detected.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func syntaxErrorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
