package fuzzy

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidShape    = errors.New("invalid membership function shape")
	ErrInvalidUniverse = errors.New("invalid universe")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrUnknownTerm     = errors.New("unknown term")
	ErrMissingInput    = errors.New("missing input")
	ErrUndefinedOutput = errors.New("undefined output")
)

type InvalidShapeError struct {
	Kind   ShapeKind
	Params []float64
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("%v: %v%v", ErrInvalidShape, e.Kind, e.Params)
}

func (e *InvalidShapeError) Unwrap() error { return ErrInvalidShape }

// DuplicateLabelError reports a term label registered twice on one variable.
// Label is empty when the variable name itself is duplicated.
type DuplicateLabelError struct {
	Variable string
	Label    string
}

func (e *DuplicateLabelError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("%v: variable %q", ErrDuplicateLabel, e.Variable)
	}
	return fmt.Sprintf("%v: %q on variable %q", ErrDuplicateLabel, e.Label, e.Variable)
}

func (e *DuplicateLabelError) Unwrap() error { return ErrDuplicateLabel }

type UnknownTermError struct {
	Variable string
	Label    string
}

func (e *UnknownTermError) Error() string {
	return fmt.Sprintf("%v: %s[%s]", ErrUnknownTerm, e.Variable, e.Label)
}

func (e *UnknownTermError) Unwrap() error { return ErrUnknownTerm }

type MissingInputError struct {
	Variable string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingInput, e.Variable)
}

func (e *MissingInputError) Unwrap() error { return ErrMissingInput }

type UndefinedOutputError struct {
	Variable string
}

func (e *UndefinedOutputError) Error() string {
	return fmt.Sprintf("%v: no rule fired for %q", ErrUndefinedOutput, e.Variable)
}

func (e *UndefinedOutputError) Unwrap() error { return ErrUndefinedOutput }
