package decl

import (
	"errors"
	"fmt"
)

// EvalErrorKind classifies evaluation failures.
type EvalErrorKind int

const (
	UnknownVariable EvalErrorKind = iota
	UnknownFunction
	UnknownOperator
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrUnknownFunction = errors.New("unknown function")
	ErrUnknownOperator = errors.New("unknown operator")
)

func (k EvalErrorKind) String() string {
	switch k {
	case UnknownVariable:
		return "UnknownVariable"
	case UnknownFunction:
		return "UnknownFunction"
	case UnknownOperator:
		return "UnknownOperator"
	default:
		return fmt.Sprintf("EvalErrorKind(%d)", int(k))
	}
}

func (k EvalErrorKind) sentinel() error {
	switch k {
	case UnknownVariable:
		return ErrUnknownVariable
	case UnknownFunction:
		return ErrUnknownFunction
	case UnknownOperator:
		return ErrUnknownOperator
	}
	return nil
}

// EvalError is returned by Evaluate. It unwraps to one of the ErrUnknown*
// sentinels so callers can use errors.Is on the kind alone.
type EvalError struct {
	Kind EvalErrorKind
	Name string // variable, function or operator that could not be resolved
	Pos  int
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.sentinel(), e.Name)
}

func (e *EvalError) Unwrap() error { return e.Kind.sentinel() }
