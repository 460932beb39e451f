// Package area computes the symplectic area of a flow-generated region of
// densities on the sphere:
//
//	A = 1/(4π) ∫_{I2} ∫_{I1} ∫_0^{2π} ∫_0^π Ω(θ, φ, s, t) dθ dφ ds dt
//
// Ω is an injectable Field. The integrals are evaluated innermost-first
// (θ, then φ, then s, then t) by adaptive quadrature; every inner integral
// is recomputed for each sample point of the level around it. Only the
// error estimate of the outermost t integral is reported.
package area

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jcrpanta/density-areas/quadrature"
	"github.com/jcrpanta/density-areas/symbolic"
)

// ErrInvalidParam is returned when a parameter name is one of Vars.
var ErrInvalidParam = errors.New("area: invalid parameter")

// Vars are the argument names of a field expression, in Field order.
var Vars = []string{"theta", "phi", "s", "t"}

// Field is the integrand Ω(θ, φ, s, t).
type Field func(theta, phi, s, t float64) float64

// Placeholder is sin(θ)·cos(φ). It stands in for the flow-generated region
// and integrates to zero over φ.
func Placeholder(theta, phi, s, t float64) float64 {
	return math.Sin(theta) * math.Cos(phi)
}

// Constant returns the field that is v everywhere.
func Constant(v float64) Field {
	return func(_, _, _, _ float64) float64 { return v }
}

// FieldFromExpr parses a formula over theta, phi, s and t and compiles it.
// Other identifiers must be bound through params.
func FieldFromExpr(src string, params map[string]float64) (Field, error) {
	e, err := symbolic.Parse(src)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(params))
	for name := range params {
		for _, v := range Vars {
			if name == v {
				return nil, fmt.Errorf("%w: %q is a field argument", ErrInvalidParam, name)
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e = symbolic.Sub(e, name, symbolic.NFloat(params[name]))
	}
	fn, err := symbolic.Lambdify(e, Vars)
	if err != nil {
		return nil, err
	}
	return func(theta, phi, s, t float64) float64 { return fn(theta, phi, s, t) }, nil
}

// Compute integrates field over θ∈[0,π], φ∈[0,2π], s∈i1 and t∈i2 and
// scales by 1/(4π). A nil field means Placeholder. The bounds are not
// checked against (0,π) and (0,2π). Any inner failure aborts the whole
// computation and is returned as the *quadrature.Error it produced.
func Compute(field Field, i1, i2 quadrature.Interval, opts ...quadrature.Option) (quadrature.Result, error) {
	if field == nil {
		field = Placeholder
	}
	inner := []quadrature.Interval{{Lo: 0, Hi: math.Pi}, {Lo: 0, Hi: 2 * math.Pi}, i1}
	evals := 0

	res, err := quadrature.QuadFunc(func(t float64) (float64, error) {
		r, err := quadrature.Nested(func(p []float64) float64 {
			return field(p[0], p[1], p[2], t)
		}, inner, opts...)
		evals += r.Evaluations
		if err != nil {
			return 0, err
		}
		return r.Value / (4 * math.Pi), nil
	}, i2.Lo, i2.Hi, opts...)
	res.Evaluations = evals
	return res, err
}
