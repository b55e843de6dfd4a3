package compiler

import (
	"errors"
	"fmt"
)

// ErrReused is returned when Compile is called twice on one Translator.
var ErrReused = errors.New("translator already compiled its class")

func where(lexeme string, atEnd bool) string {
	if atEnd {
		return " at end"
	}
	return fmt.Sprintf(" at '%s'", lexeme)
}

// SyntaxError reports the first token that did not fit the grammar.
type SyntaxError struct {
	Line   int
	Lexeme string
	AtEnd  bool
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, where(e.Lexeme, e.AtEnd), e.Msg)
}

// ResolveError reports a reference to a name declared in neither scope.
type ResolveError struct {
	Line int
	Name string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %v", e.Line, where(e.Name, false), e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// bailout carries the first error up the recursive descent to Compile.
type bailout struct {
	err error
}
