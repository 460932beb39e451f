package quadrature_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcrpanta/density-areas/quadrature"
)

func TestDblquad_Rectangle(t *testing.T) {
	// ∫0^π ∫0^2π sin(y) dx dy with y inner: 2 * 2π.
	res, err := quadrature.Dblquad(func(y, x float64) float64 { return math.Sin(y) },
		0, 2*math.Pi, quadrature.Const(0), quadrature.Const(math.Pi))
	require.NoError(t, err)
	require.InDelta(t, 4*math.Pi, res.Value, 1e-10)
	require.Equal(t, 21*21, res.Evaluations)
}

func TestDblquad_InnerOrderMatters(t *testing.T) {
	f := func(y, x float64) float64 { return math.Sin(y) }
	canonical, err := quadrature.Dblquad(f, 0, 2*math.Pi, quadrature.Const(0), quadrature.Const(math.Pi))
	require.NoError(t, err)
	swapped, err := quadrature.Dblquad(f, 0, math.Pi, quadrature.Const(0), quadrature.Const(2*math.Pi))
	require.NoError(t, err)
	require.InDelta(t, 0, swapped.Value, 1e-10)
	require.NotEqual(t, math.Round(canonical.Value), math.Round(swapped.Value))
}

func TestDblquad_VariableInnerBounds(t *testing.T) {
	// ∫0^1 ∫0^x x*y dy dx = 1/8
	res, err := quadrature.Dblquad(func(y, x float64) float64 { return x * y },
		0, 1, quadrature.Const(0), func(x float64) float64 { return x })
	require.NoError(t, err)
	require.InDelta(t, 0.125, res.Value, 1e-12)
}

func TestNested_Cube(t *testing.T) {
	bounds := []quadrature.Interval{{Lo: 0, Hi: 1}, {Lo: 0, Hi: 2}, {Lo: -1, Hi: 1}}
	res, err := quadrature.Nested(func(p []float64) float64 {
		return p[0] * p[1] * p[2] * p[2]
	}, bounds)
	require.NoError(t, err)
	// (1/2) * 2 * (2/3)
	require.InDelta(t, 2.0/3, res.Value, 1e-12)
	require.Equal(t, 21*21*21, res.Evaluations)
}

func TestNested_PassesPointInBoundsOrder(t *testing.T) {
	var seen []float64
	_, err := quadrature.Nested(func(p []float64) float64 {
		if seen == nil {
			seen = append([]float64(nil), p...)
		}
		return 1
	}, []quadrature.Interval{{Lo: 10, Hi: 11}, {Lo: -5, Hi: -4}})
	require.NoError(t, err)
	require.Len(t, seen, 2)
	require.True(t, seen[0] >= 10 && seen[0] <= 11, "inner coordinate %v", seen[0])
	require.True(t, seen[1] >= -5 && seen[1] <= -4, "outer coordinate %v", seen[1])
}

func TestNested_InnerFailurePropagatesUnchanged(t *testing.T) {
	bounds := []quadrature.Interval{{Lo: 0, Hi: 10}, {Lo: 0, Hi: 1}}
	_, err := quadrature.Nested(func(p []float64) float64 {
		return math.Sin(50 * p[0])
	}, bounds, quadrature.WithLimit(1))
	require.ErrorIs(t, err, quadrature.ErrNotConverged)

	var qe *quadrature.Error
	require.True(t, errors.As(err, &qe))
	require.Equal(t, 0.0, qe.Lo)
	require.Equal(t, 10.0, qe.Hi)
}

func TestNested_NonFiniteLeaf(t *testing.T) {
	_, err := quadrature.Nested(func(p []float64) float64 {
		return math.Log(p[0] - p[1])
	}, []quadrature.Interval{{Lo: 0, Hi: 1}, {Lo: 0, Hi: 1}})
	require.ErrorIs(t, err, quadrature.ErrNonFinite)
}

func TestNested_NoBounds(t *testing.T) {
	_, err := quadrature.Nested(func([]float64) float64 { return 1 }, nil)
	require.ErrorIs(t, err, quadrature.ErrInvalidBounds)
}
