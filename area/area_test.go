package area_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcrpanta/density-areas/area"
	"github.com/jcrpanta/density-areas/quadrature"
	"github.com/jcrpanta/density-areas/symbolic"
)

var (
	halfTurn = quadrature.Interval{Lo: 0, Hi: math.Pi}
	fullTurn = quadrature.Interval{Lo: 0, Hi: 2 * math.Pi}
)

func TestCompute_ConstantField(t *testing.T) {
	// The box has volume π·2π·π·2π, so the unit field gives π³ after 1/(4π).
	res, err := area.Compute(area.Constant(1), halfTurn, fullTurn)
	require.NoError(t, err)
	require.InDelta(t, math.Pow(math.Pi, 3), res.Value, 1e-9)
	require.Less(t, res.AbsErr, 1e-8)
	require.Equal(t, 21*21*21*21, res.Evaluations)

	unit, err := area.Compute(area.Constant(1/math.Pow(math.Pi, 3)), halfTurn, fullTurn)
	require.NoError(t, err)
	require.InDelta(t, 1, unit.Value, 1e-12)
}

func TestCompute_PlaceholderVanishes(t *testing.T) {
	res, err := area.Compute(area.Placeholder, quadrature.Interval{Lo: 0.5, Hi: 2}, quadrature.Interval{Lo: 1, Hi: 4})
	require.NoError(t, err)
	require.InDelta(t, 0, res.Value, 1e-10)

	implicit, err := area.Compute(nil, quadrature.Interval{Lo: 0.5, Hi: 2}, quadrature.Interval{Lo: 1, Hi: 4})
	require.NoError(t, err)
	require.Equal(t, res.Value, implicit.Value)
}

func TestCompute_SeparableField(t *testing.T) {
	// ∫sinθ = 2, ∫dφ = 2π, ∫s ds over [0.5,1.5] = 1, ∫t dt over [1,3] = 4.
	field := func(theta, phi, s, tt float64) float64 { return math.Sin(theta) * s * tt }
	res, err := area.Compute(field, quadrature.Interval{Lo: 0.5, Hi: 1.5}, quadrature.Interval{Lo: 1, Hi: 3})
	require.NoError(t, err)
	require.InDelta(t, 4, res.Value, 1e-10)
}

func TestCompute_NestingOrder(t *testing.T) {
	// Only θ runs over [0,π]; a field odd about θ=π/2 must vanish.
	field := func(theta, phi, s, tt float64) float64 { return math.Cos(theta) * (1 + s*tt) }
	res, err := area.Compute(field, quadrature.Interval{Lo: 0.1, Hi: 3}, quadrature.Interval{Lo: 0.1, Hi: 6})
	require.NoError(t, err)
	require.InDelta(t, 0, res.Value, 1e-10)

	// ∫0^π cos(θ/2) = 2; over [0,2π] it would be 0.
	field = func(theta, phi, s, tt float64) float64 { return math.Cos(theta / 2) }
	res, err = area.Compute(field, quadrature.Interval{Lo: 0, Hi: 1}, quadrature.Interval{Lo: 0, Hi: 1})
	require.NoError(t, err)
	require.InDelta(t, 2*2*math.Pi/(4*math.Pi), res.Value, 1e-10)
}

func TestCompute_InnerFailureAborts(t *testing.T) {
	// sin(80θ) alone cancels exactly on the symmetric nodes of [0, π].
	field := func(theta, phi, s, tt float64) float64 { return theta * math.Sin(80*theta) }
	_, err := area.Compute(field, halfTurn, fullTurn, quadrature.WithLimit(1))
	require.ErrorIs(t, err, quadrature.ErrNotConverged)
	var qe *quadrature.Error
	require.True(t, errors.As(err, &qe))
	require.Equal(t, 0.0, qe.Lo)
	require.Equal(t, math.Pi, qe.Hi)

	nan := func(theta, phi, s, tt float64) float64 { return math.Log(s - 1) }
	_, err = area.Compute(nan, quadrature.Interval{Lo: 0, Hi: 2}, fullTurn)
	require.ErrorIs(t, err, quadrature.ErrNonFinite)
}

func TestFieldFromExpr(t *testing.T) {
	field, err := area.FieldFromExpr("sin(theta)*s*t", nil)
	require.NoError(t, err)
	res, err := area.Compute(field, quadrature.Interval{Lo: 0.5, Hi: 1.5}, quadrature.Interval{Lo: 1, Hi: 3})
	require.NoError(t, err)
	require.InDelta(t, 4, res.Value, 1e-10)

	_, err = area.FieldFromExpr("k*sin(theta)", nil)
	require.ErrorIs(t, err, symbolic.ErrUnboundSymbol)

	scaled, err := area.FieldFromExpr("k*sin(theta)*cos(phi)", map[string]float64{"k": 3})
	require.NoError(t, err)
	require.InDelta(t, 3*math.Sin(1)*math.Cos(2), scaled(1, 2, 0, 0), 1e-15)

	_, err = area.FieldFromExpr("theta +", nil)
	require.ErrorIs(t, err, symbolic.ErrParse)

	_, err = area.FieldFromExpr("s", map[string]float64{"s": 1})
	require.ErrorIs(t, err, area.ErrInvalidParam)
}
