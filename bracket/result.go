package bracket

import (
	"fmt"
	"strings"

	"github.com/jcrpanta/density-areas/symbolic"
)

// Mode selects closed-form or numerical integration.
type Mode int

const (
	ModeExact Mode = iota
	ModeNumerical
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeNumerical:
		return "numerical"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "exact"/"symbolic" and "numerical"/"numeric".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "symbolic":
		return ModeExact, nil
	case "numerical", "numeric":
		return ModeNumerical, nil
	}
	return 0, fmt.Errorf("bracket: unknown mode %q", s)
}

// Result is either Exact or Numerical. Callers switch on the concrete type.
type Result interface {
	Mode() Mode
	String() string
	isResult()
}

// Exact is a closed-form bracket value. It may contain free parameters.
type Exact struct {
	Expr symbolic.Expr
}

func (Exact) Mode() Mode        { return ModeExact }
func (r Exact) String() string { return r.Expr.String() }
func (r Exact) LaTeX() string  { return r.Expr.LaTeX() }
func (Exact) isResult()        {}

// Float evaluates the expression when it has no free symbols.
func (r Exact) Float() (float64, bool) { return symbolic.Float(r.Expr) }

// Numerical is the quadrature value and its absolute error estimate, as
// produced by the integrator.
type Numerical struct {
	Value  float64
	AbsErr float64
}

func (Numerical) Mode() Mode        { return ModeNumerical }
func (r Numerical) String() string { return fmt.Sprintf("%.15g ± %.3g", r.Value, r.AbsErr) }
func (Numerical) isResult()        {}
