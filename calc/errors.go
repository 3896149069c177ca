package calc

import (
	"errors"
	"fmt"
)

// ErrIncomplete reports that the input is a valid prefix of an
// expression but ends before the expression does, e.g. "5 m +".
// Callers that evaluate while the user is still typing treat it as
// "wait for more input" rather than as a failure.
var ErrIncomplete = errors.New("incomplete expression")

// IsIncomplete reports whether err indicates a valid but unfinished
// expression.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}

// PosError is implemented by errors that carry a source position,
// counted in runes from the start of the input, starting at 1.
type PosError interface {
	error
	Pos() int
}

// LexError indicates a character sequence that does not form a token.
type LexError struct {
	// Text is the partial token scanned up to and including the
	// offending rune.
	Text string
	// Col is the rune position at which the token started.
	Col int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("column %d: invalid token %q", e.Col, e.Text)
}

func (e *LexError) Pos() int { return e.Col }

// ParseError indicates a token in a position the grammar does not
// allow.
type ParseError struct {
	// Expected describes what the parser was looking for.
	Expected string
	// Got is the text of the offending token.
	Got string
	// Col is the rune position of the offending token.
	Col int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %d: expected %s, got %q", e.Col, e.Expected, e.Got)
}

func (e *ParseError) Pos() int { return e.Col }

// UnknownUnitError indicates an identifier that resolves to no
// registered unit, with or without an SI prefix.
type UnknownUnitError struct {
	Symbol string
	Col    int
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("column %d: unknown unit %q", e.Col, e.Symbol)
}

func (e *UnknownUnitError) Pos() int { return e.Col }

// IncompatibleDimensionsError indicates an addition, subtraction, or
// conversion across quantities whose dimension vectors differ.
type IncompatibleDimensionsError struct {
	Op          string
	Left, Right Dimension
}

func (e *IncompatibleDimensionsError) Error() string {
	return fmt.Sprintf("incompatible dimensions for %q: %s vs %s",
		e.Op, e.Left.describe(), e.Right.describe())
}

// DivisionByZeroError indicates a division whose right operand has a
// zero magnitude.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string { return "division by zero" }

// NonIntegerDimensionExponentError indicates a power that would give a
// base dimension a non-integer exponent, e.g. m^0.5.
type NonIntegerDimensionExponentError struct {
	Dim      Dimension
	Exponent string
}

func (e *NonIntegerDimensionExponentError) Error() string {
	return fmt.Sprintf("power %s of %s would have a non-integer dimension exponent",
		e.Exponent, e.Dim.describe())
}

// ExponentMustBeDimensionlessError indicates a power whose exponent
// carries a dimension, e.g. 2^(3 m).
type ExponentMustBeDimensionlessError struct {
	Dim Dimension
}

func (e *ExponentMustBeDimensionlessError) Error() string {
	return fmt.Sprintf("exponent must be dimensionless, got %s", e.Dim.describe())
}

// InvalidInstantOperationError indicates an operation that is not
// defined on absolute points in time, such as adding two of them.
type InvalidInstantOperationError struct {
	Op string
}

func (e *InvalidInstantOperationError) Error() string {
	return fmt.Sprintf("operation %q is not defined on an absolute date/time", e.Op)
}
