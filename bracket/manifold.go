package bracket

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcrpanta/density-areas/symbolic"
)

// ErrUnknownManifold is returned by Lookup.
var ErrUnknownManifold = errors.New("bracket: unknown manifold")

// Bound is a symbolic integration range. Numerical mode evaluates the same
// expressions to floats, so both modes integrate over identical limits.
type Bound struct {
	Lo, Hi symbolic.Expr
}

// Manifold describes one base space: coordinate names in integration order
// (Coords[0] is integrated first and is the inner quadrature variable), the
// parameter domain, the measure density and the normalization constant.
type Manifold struct {
	Name          string
	Coords        [2]string
	Bounds        [2]Bound
	Measure       symbolic.Expr
	Normalization symbolic.Expr
}

var twoPi = symbolic.MulOf(symbolic.N(2), symbolic.Pi)

var (
	// Square is the open unit square with flat measure.
	Square = &Manifold{
		Name:          "square",
		Coords:        [2]string{"x1", "x2"},
		Bounds:        [2]Bound{{symbolic.N(0), symbolic.N(1)}, {symbolic.N(0), symbolic.N(1)}},
		Measure:       symbolic.N(1),
		Normalization: symbolic.N(1),
	}

	// Torus is [0,2π]² with flat measure normalized to total mass 1.
	Torus = &Manifold{
		Name:          "torus",
		Coords:        [2]string{"theta1", "theta2"},
		Bounds:        [2]Bound{{symbolic.N(0), twoPi}, {symbolic.N(0), twoPi}},
		Measure:       symbolic.N(1),
		Normalization: symbolic.MulOf(symbolic.F(1, 4), symbolic.PowOf(symbolic.Pi, symbolic.N(-2))),
	}

	// Sphere uses polar angle theta in [0,π] and azimuth phi in [0,2π] with
	// the area element sin(theta), normalized by 1/(4π).
	Sphere = &Manifold{
		Name:          "sphere",
		Coords:        [2]string{"theta", "phi"},
		Bounds:        [2]Bound{{symbolic.N(0), symbolic.Pi}, {symbolic.N(0), twoPi}},
		Measure:       symbolic.SinOf(symbolic.S("theta")),
		Normalization: symbolic.MulOf(symbolic.F(1, 4), symbolic.PowOf(symbolic.Pi, symbolic.N(-1))),
	}
)

// Manifolds lists the built-in descriptors.
func Manifolds() []*Manifold { return []*Manifold{Square, Torus, Sphere} }

// Lookup resolves a manifold by name; "plane" is accepted for the square.
func Lookup(name string) (*Manifold, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square", "plane":
		return Square, nil
	case "torus":
		return Torus, nil
	case "sphere":
		return Sphere, nil
	}
	return nil, fmt.Errorf("%w: %q (want square, torus or sphere)", ErrUnknownManifold, name)
}

// Integrand builds det J(f,h; c1,c2) * tau * rho * measure, where
// det J = ∂f/∂c1·∂h/∂c2 − ∂h/∂c1·∂f/∂c2.
func (m *Manifold) Integrand(tau, rho, f, h symbolic.Expr) symbolic.Expr {
	det := symbolic.Jacobian([]symbolic.Expr{f, h}, m.Coords[:]).Det()
	return symbolic.MulOf(det, tau, rho, m.Measure)
}

// numericBounds evaluates the symbolic bounds of coordinate i.
func (m *Manifold) numericBounds(i int) (lo, hi float64, err error) {
	lo, okLo := symbolic.Float(m.Bounds[i].Lo)
	hi, okHi := symbolic.Float(m.Bounds[i].Hi)
	if !okLo || !okHi {
		return 0, 0, fmt.Errorf("bracket: %s bounds for %s are not numeric: [%s, %s]",
			m.Name, m.Coords[i], m.Bounds[i].Lo, m.Bounds[i].Hi)
	}
	return lo, hi, nil
}

func (m *Manifold) String() string { return m.Name }
