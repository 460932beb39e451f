package bracket_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcrpanta/density-areas/bracket"
	"github.com/jcrpanta/density-areas/quadrature"
	"github.com/jcrpanta/density-areas/symbolic"
)

// cases holds one non-trivial set of observables per manifold; every
// integrand is a product of polynomials and sines/cosines of the
// coordinates, so exact mode has a closed form.
var cases = []struct {
	m   *bracket.Manifold
	obs bracket.Observables
}{
	{bracket.Square, bracket.Observables{Tau: "1 + x1", Rho: "x2 + 2", F: "x1^2*x2", H: "x1 + x2^3"}},
	{bracket.Torus, bracket.Observables{Tau: "1", Rho: "2 + cos(theta1)", F: "theta1 + sin(theta2)", H: "theta2*cos(theta1)"}},
	{bracket.Sphere, bracket.Observables{Tau: "1", Rho: "1 + cos(theta)", F: "cos(theta)", H: "phi + sin(phi)"}},
}

func exactFloat(t *testing.T, m *bracket.Manifold, obs bracket.Observables, opts ...bracket.Option) float64 {
	t.Helper()
	res, err := m.Evaluate(obs, bracket.ModeExact, opts...)
	require.NoError(t, err)
	ex, ok := res.(bracket.Exact)
	require.True(t, ok, "exact mode returned %T", res)
	v, ok := ex.Float()
	require.True(t, ok, "exact result %s has free symbols", ex)
	return v
}

func numerical(t *testing.T, m *bracket.Manifold, obs bracket.Observables, opts ...bracket.Option) bracket.Numerical {
	t.Helper()
	res, err := m.Evaluate(obs, bracket.ModeNumerical, opts...)
	require.NoError(t, err)
	num, ok := res.(bracket.Numerical)
	require.True(t, ok, "numerical mode returned %T", res)
	return num
}

func TestConcreteScenarios(t *testing.T) {
	scenarios := []struct {
		m    *bracket.Manifold
		f, h string
	}{
		{bracket.Square, "x1", "x2"},
		{bracket.Torus, "theta1", "theta2"},
		{bracket.Sphere, "theta", "phi"},
	}
	for _, sc := range scenarios {
		t.Run(sc.m.Name, func(t *testing.T) {
			obs := bracket.Observables{Tau: "1", Rho: "1", F: sc.f, H: sc.h}
			res, err := sc.m.Evaluate(obs, bracket.ModeExact)
			require.NoError(t, err)
			require.Equal(t, "1", res.String())

			num := numerical(t, sc.m, obs)
			require.InDelta(t, 1, num.Value, 1e-10)
			require.Less(t, num.AbsErr, 1e-8)
		})
	}
}

func TestSphere_MeasureBeforeNormalization(t *testing.T) {
	// -sin²θ(1+cosθ)(1+cosφ) integrates to -π², times 1/(4π).
	obs := cases[2].obs
	require.InDelta(t, -math.Pi/4, exactFloat(t, bracket.Sphere, obs), 1e-12)
	require.InDelta(t, -math.Pi/4, numerical(t, bracket.Sphere, obs).Value, 1e-9)
}

func TestAntisymmetry(t *testing.T) {
	for _, tc := range cases {
		t.Run(tc.m.Name, func(t *testing.T) {
			fh := exactFloat(t, tc.m, tc.obs)
			hf := exactFloat(t, tc.m, tc.obs.Swap())
			require.InDelta(t, -fh, hf, 1e-12)

			nfh := numerical(t, tc.m, tc.obs)
			nhf := numerical(t, tc.m, tc.obs.Swap())
			require.InDelta(t, -nfh.Value, nhf.Value, 1e-12)
		})
	}
}

func TestAntisymmetry_ExactIsSymbolic(t *testing.T) {
	obs := bracket.Observables{Tau: "k", Rho: "1", F: "x1^2", H: "x1*x2"}
	fh, err := bracket.Square.Evaluate(obs, bracket.ModeExact)
	require.NoError(t, err)
	hf, err := bracket.Square.Evaluate(obs.Swap(), bracket.ModeExact)
	require.NoError(t, err)
	sum := symbolic.AddOf(fh.(bracket.Exact).Expr, hf.(bracket.Exact).Expr)
	require.True(t, symbolic.IsZero(sum), "%s + %s should vanish", fh, hf)
	require.Equal(t, "2/3*k", fh.String())
}

func TestBilinearity(t *testing.T) {
	const h = "x2^2 + x1"
	base := bracket.Observables{Tau: "1", Rho: "1 + x1*x2", H: h}

	f1, f2 := base, base
	f1.F = "x1*x2"
	f2.F = "x1^2"
	combo := base
	combo.F = "3*(x1*x2) - 2*(x1^2)"

	want := 3*exactFloat(t, bracket.Square, f1) - 2*exactFloat(t, bracket.Square, f2)
	require.InDelta(t, want, exactFloat(t, bracket.Square, combo), 1e-12)

	n1 := numerical(t, bracket.Square, f1)
	n2 := numerical(t, bracket.Square, f2)
	nc := numerical(t, bracket.Square, combo)
	require.InDelta(t, 3*n1.Value-2*n2.Value, nc.Value, 3*n1.AbsErr+2*n2.AbsErr+nc.AbsErr+1e-12)
}

func TestSelfBracketVanishes(t *testing.T) {
	for _, tc := range cases {
		t.Run(tc.m.Name, func(t *testing.T) {
			obs := tc.obs
			obs.H = obs.F
			res, err := tc.m.Evaluate(obs, bracket.ModeExact)
			require.NoError(t, err)
			require.Equal(t, "0", res.String())
		})
	}
}

func TestModeAgreement(t *testing.T) {
	obs := bracket.Observables{Tau: "1", Rho: "1", F: "x1^2*x2 + x2", H: "x1*x2^3"}
	exact := exactFloat(t, bracket.Square, obs)
	num := numerical(t, bracket.Square, obs)
	require.LessOrEqual(t, math.Abs(exact-num.Value), num.AbsErr+1e-12)
}

func TestModeAgreement_AllManifolds(t *testing.T) {
	for _, tc := range cases {
		t.Run(tc.m.Name, func(t *testing.T) {
			exact := exactFloat(t, tc.m, tc.obs)
			num := numerical(t, tc.m, tc.obs)
			require.InDelta(t, exact, num.Value, 1e-8)
		})
	}
}

func TestSphere_BoundOrder(t *testing.T) {
	obs := bracket.Observables{Tau: "1", Rho: "1", F: "theta", H: "phi"}
	canonical := numerical(t, bracket.Sphere, obs)
	require.InDelta(t, 1, canonical.Value, 1e-10)

	swapped := *bracket.Sphere
	swapped.Bounds = [2]bracket.Bound{bracket.Sphere.Bounds[1], bracket.Sphere.Bounds[0]}
	wrong := numerical(t, &swapped, obs)
	require.InDelta(t, 0, wrong.Value, 1e-10)
}

func TestParseErrorPropagates(t *testing.T) {
	_, err := bracket.Square.Evaluate(bracket.Observables{Tau: "1", Rho: "1", F: "x1 +", H: "x2"}, bracket.ModeNumerical)
	require.ErrorIs(t, err, symbolic.ErrParse)
	var pe *symbolic.ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "x1 +", pe.Input)

	_, err = bracket.Square.Evaluate(bracket.Observables{Tau: "1", Rho: "1", F: "x1\xff", H: "x2"}, bracket.ModeExact)
	require.ErrorIs(t, err, symbolic.ErrParse)
}

func TestEndpointSingularity(t *testing.T) {
	// The integrand x2/(2*sqrt(x1)) is unbounded at x1 = 0 but integrable.
	obs := bracket.Observables{Tau: "1", Rho: "1", F: "sqrt(x1)*x2", H: "x2"}
	res, err := bracket.Square.Evaluate(obs, bracket.ModeExact)
	require.NoError(t, err)
	require.Equal(t, "1/2", res.String())

	num := numerical(t, bracket.Square, obs)
	require.InDelta(t, 0.5, num.Value, 1e-10)
	require.Less(t, num.AbsErr, 1e-8)
}

func TestExactHasNoNumericFallback(t *testing.T) {
	obs := bracket.Observables{Tau: "1", Rho: "1", F: "exp(x1^2)", H: "x2"}
	_, err := bracket.Square.Evaluate(obs, bracket.ModeExact)
	require.ErrorIs(t, err, symbolic.ErrIntegrationUnsupported)

	num := numerical(t, bracket.Square, obs)
	require.InDelta(t, math.E-1, num.Value, 1e-10)
}

func TestParams(t *testing.T) {
	obs := bracket.Observables{Tau: "k", Rho: "1", F: "x1", H: "x2"}

	_, err := bracket.Square.Evaluate(obs, bracket.ModeNumerical)
	require.ErrorIs(t, err, symbolic.ErrUnboundSymbol)

	res, err := bracket.Square.Evaluate(obs, bracket.ModeExact)
	require.NoError(t, err)
	require.Equal(t, "k", res.String())

	num := numerical(t, bracket.Square, obs, bracket.WithParams(map[string]float64{"k": 2.5}))
	require.InDelta(t, 2.5, num.Value, 1e-12)
	require.InDelta(t, 2.5, exactFloat(t, bracket.Square, obs, bracket.WithParams(map[string]float64{"k": 2.5})), 1e-15)

	_, err = bracket.Square.Evaluate(obs, bracket.ModeExact, bracket.WithParams(map[string]float64{"x1": 1}))
	require.ErrorIs(t, err, bracket.ErrInvalidParam)
}

func TestQuadratureErrorPropagates(t *testing.T) {
	obs := bracket.Observables{Tau: "sin(200*x1)", Rho: "1", F: "x1", H: "x2"}
	_, err := bracket.Square.Evaluate(obs, bracket.ModeNumerical, bracket.WithQuadrature(quadrature.WithLimit(1)))
	require.ErrorIs(t, err, quadrature.ErrNotConverged)
	var qe *quadrature.Error
	require.True(t, errors.As(err, &qe))
}

func TestLookup(t *testing.T) {
	for name, want := range map[string]*bracket.Manifold{
		"square": bracket.Square,
		"plane":  bracket.Square,
		"Torus":  bracket.Torus,
		"sphere": bracket.Sphere,
	} {
		got, err := bracket.Lookup(name)
		require.NoError(t, err)
		require.Same(t, want, got)
	}
	_, err := bracket.Lookup("klein")
	require.ErrorIs(t, err, bracket.ErrUnknownManifold)
}

func TestParseMode(t *testing.T) {
	m, err := bracket.ParseMode("numerical")
	require.NoError(t, err)
	require.Equal(t, bracket.ModeNumerical, m)
	m, err = bracket.ParseMode("")
	require.NoError(t, err)
	require.Equal(t, bracket.ModeExact, m)
	_, err = bracket.ParseMode("fuzzy")
	require.Error(t, err)
}
