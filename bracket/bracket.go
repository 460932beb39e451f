// Package bracket evaluates the Poisson bracket of two linear functionals on
// densities over the unit square, the flat torus and the round sphere.
//
// For test functions f and h, conformal factor tau and density rho, the
// bracket is
//
//	N ∫∫ (∂f/∂c1·∂h/∂c2 − ∂h/∂c1·∂f/∂c2) · tau · rho · μ  dc1 dc2
//
// where (c1, c2), the domain, the measure density μ and the normalization N
// come from the Manifold. Exact mode integrates in closed form over c1 and
// then c2; numerical mode runs a double quadrature with c1 as the inner
// variable.
package bracket

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jcrpanta/density-areas/quadrature"
	"github.com/jcrpanta/density-areas/symbolic"
)

// ErrInvalidParam is returned when a parameter name is a coordinate.
var ErrInvalidParam = errors.New("bracket: invalid parameter")

// Observables holds the four user formulas.
type Observables struct {
	Tau string `json:"tau" yaml:"tau"`
	Rho string `json:"rho" yaml:"rho"`
	F   string `json:"f" yaml:"f"`
	H   string `json:"h" yaml:"h"`
}

// Swap exchanges the test functions.
func (o Observables) Swap() Observables {
	o.F, o.H = o.H, o.F
	return o
}

type settings struct {
	quad   []quadrature.Option
	params map[string]float64
}

// Option configures Evaluate.
type Option func(*settings)

// WithQuadrature passes tolerances and the subdivision limit to the
// numerical mode.
func WithQuadrature(opts ...quadrature.Option) Option {
	return func(s *settings) { s.quad = append(s.quad, opts...) }
}

// WithParams binds free symbols other than the coordinates to values
// before integration.
func WithParams(params map[string]float64) Option {
	return func(s *settings) {
		if s.params == nil {
			s.params = make(map[string]float64, len(params))
		}
		for k, v := range params {
			s.params[k] = v
		}
	}
}

// Evaluate computes the bracket of obs on m. Parse, integration and
// quadrature errors are returned unchanged; there is no fallback between
// modes.
func (m *Manifold) Evaluate(obs Observables, mode Mode, opts ...Option) (Result, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	parsed := make([]symbolic.Expr, 0, 4)
	for _, src := range []string{obs.Tau, obs.Rho, obs.F, obs.H} {
		e, err := symbolic.Parse(src)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, e)
	}
	integrand := m.Integrand(parsed[0], parsed[1], parsed[2], parsed[3])

	integrand, err := m.bind(integrand, s.params)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeExact:
		return m.exact(integrand)
	case ModeNumerical:
		return m.numerical(integrand, s.quad)
	}
	return nil, fmt.Errorf("bracket: unsupported mode %s", mode)
}

func (m *Manifold) bind(e symbolic.Expr, params map[string]float64) (symbolic.Expr, error) {
	if len(params) == 0 {
		return e, nil
	}
	names := make([]string, 0, len(params))
	for name := range params {
		if name == m.Coords[0] || name == m.Coords[1] {
			return nil, fmt.Errorf("%w: %q is a coordinate of %s", ErrInvalidParam, name, m.Name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e = symbolic.Sub(e, name, symbolic.NFloat(params[name]))
	}
	return e, nil
}

func (m *Manifold) exact(integrand symbolic.Expr) (Result, error) {
	inner, err := symbolic.DefiniteIntegral(integrand, m.Coords[0], m.Bounds[0].Lo, m.Bounds[0].Hi)
	if err != nil {
		return nil, err
	}
	outer, err := symbolic.DefiniteIntegral(inner, m.Coords[1], m.Bounds[1].Lo, m.Bounds[1].Hi)
	if err != nil {
		return nil, err
	}
	return Exact{Expr: symbolic.Canonicalize(symbolic.MulOf(m.Normalization, outer))}, nil
}

func (m *Manifold) numerical(integrand symbolic.Expr, opts []quadrature.Option) (Result, error) {
	fn, err := symbolic.Lambdify(symbolic.MulOf(m.Normalization, integrand), m.Coords[:])
	if err != nil {
		return nil, err
	}
	innerLo, innerHi, err := m.numericBounds(0)
	if err != nil {
		return nil, err
	}
	outerLo, outerHi, err := m.numericBounds(1)
	if err != nil {
		return nil, err
	}
	res, err := quadrature.Dblquad(func(c1, c2 float64) float64 { return fn(c1, c2) },
		outerLo, outerHi, quadrature.Const(innerLo), quadrature.Const(innerHi), opts...)
	if err != nil {
		return nil, err
	}
	return Numerical{Value: res.Value, AbsErr: res.AbsErr}, nil
}
