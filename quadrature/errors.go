package quadrature

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure is returned as *Error wrapping one of these.
var (
	// ErrNotConverged means the subdivision limit was reached with the error
	// estimate still above the requested tolerance.
	ErrNotConverged = errors.New("quadrature: tolerance not reached within subdivision limit")

	// ErrRoundoff means a subinterval became too small to bisect further.
	ErrRoundoff = errors.New("quadrature: subinterval too small to bisect")

	// ErrDivergent means the extrapolated and summed values disagree so far
	// that the integral is probably divergent or converges too slowly.
	ErrDivergent = errors.New("quadrature: integral is probably divergent")

	// ErrNonFinite means the integrand returned NaN or ±Inf.
	ErrNonFinite = errors.New("quadrature: integrand is not finite")

	// ErrInvalidBounds means a bound is NaN or infinite.
	ErrInvalidBounds = errors.New("quadrature: bounds must be finite")

	// ErrInvalidOptions means the tolerances cannot be met or the limit is < 1.
	ErrInvalidOptions = errors.New("quadrature: invalid options")
)

// Error reports a failed integration over [Lo, Hi] together with the best
// value and error estimate reached before giving up.
type Error struct {
	Op           string
	Lo, Hi       float64
	Value        float64
	AbsErr       float64
	Subintervals int
	Err          error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := fmt.Sprintf("%s [%g, %g]", e.Op, e.Lo, e.Hi)
	if e.Subintervals > 0 {
		base += fmt.Sprintf(" (value=%g abserr=%g subintervals=%d)", e.Value, e.AbsErr, e.Subintervals)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
