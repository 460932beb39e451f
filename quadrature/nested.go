package quadrature

import "fmt"

// Dblquad integrates f(y, x) for x over [a, b] and y over [gfun(x), hfun(x)].
// y is the inner variable. An inner failure aborts the whole integral and
// is returned unchanged; the reported AbsErr is the outer estimate only.
func Dblquad(f func(y, x float64) float64, a, b float64, gfun, hfun func(x float64) float64, opts ...Option) (Result, error) {
	o := gatherOptions(opts)
	evals := 0
	outer := func(x float64) (float64, error) {
		inner := func(y float64) (float64, error) {
			evals++
			return finiteValue(f(y, x), y)
		}
		r, err := adapt("dblquad", inner, gfun(x), hfun(x), o)
		if err != nil {
			return 0, err
		}
		return r.Value, nil
	}
	res, err := adapt("dblquad", outer, a, b, o)
	res.Evaluations = evals
	return res, err
}

// Const returns a bound function for Dblquad that ignores x.
func Const(v float64) func(float64) float64 {
	return func(float64) float64 { return v }
}

// Nested integrates f over the box described by bounds, one dimension at a
// time. bounds[0] is the innermost variable. f receives the current point,
// indexed like bounds, and must not retain the slice.
func Nested(f func(x []float64) float64, bounds []Interval, opts ...Option) (Result, error) {
	if len(bounds) == 0 {
		return Result{}, &Error{Op: "nested", Err: fmt.Errorf("%w: no dimensions", ErrInvalidBounds)}
	}
	o := gatherOptions(opts)
	point := make([]float64, len(bounds))
	evals := 0

	var level func(i int) (Result, error)
	level = func(i int) (Result, error) {
		g := func(v float64) (float64, error) {
			point[i] = v
			if i == 0 {
				evals++
				return finiteValue(f(point), v)
			}
			r, err := level(i - 1)
			if err != nil {
				return 0, err
			}
			return r.Value, nil
		}
		return adapt("nested", g, bounds[i].Lo, bounds[i].Hi, o)
	}

	res, err := level(len(bounds) - 1)
	res.Evaluations = evals
	return res, err
}
