package growth

import (
	"errors"
	"fmt"
)

var (
	// ErrParameterBounds indicates a parameter value is outside its valid range.
	ErrParameterBounds = errors.New("growth: parameter out of valid bounds")

	// ErrDomain indicates the steady-state formula is undefined for the parameters.
	ErrDomain = errors.New("growth: steady state undefined")

	// ErrNumeric indicates a capital value could not be advanced to a finite result.
	ErrNumeric = errors.New("growth: non-finite capital")
)

// ParamError reports the offending field of a rejected Params.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g: %s", ErrParameterBounds, e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrParameterBounds
}

// DomainError reports why the steady state cannot be computed for the
// simulator's parameters.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDomain, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

// NumericError wraps a failed capital update. Period is the index of the
// capital value that could not be advanced, or -1 when the failure came from
// a direct call to Step outside a simulation.
type NumericError struct {
	Period  int
	Capital float64
	Reason  string
}

func (e *NumericError) Error() string {
	if e.Period < 0 {
		return fmt.Sprintf("%s: capital %g: %s", ErrNumeric, e.Capital, e.Reason)
	}
	return fmt.Sprintf("%s: period %d (capital %g): %s", ErrNumeric, e.Period, e.Capital, e.Reason)
}

func (e *NumericError) Unwrap() error {
	return ErrNumeric
}
