package quadrature

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Result is a converged integral.
type Result struct {
	Value        float64 `json:"value"`
	AbsErr       float64 `json:"abserr"`
	Evaluations  int     `json:"evaluations"`
	Subintervals int     `json:"subintervals"`
}

// Quad integrates f over [a, b]. Reversed bounds negate the result and
// equal bounds give zero without evaluating f.
func Quad(f func(float64) float64, a, b float64, opts ...Option) (Result, error) {
	evals := 0
	g := func(x float64) (float64, error) {
		evals++
		return finiteValue(f(x), x)
	}
	res, err := adapt("quad", g, a, b, gatherOptions(opts))
	res.Evaluations = evals
	return res, err
}

// QuadFunc is Quad for an integrand that can fail. The first error stops the
// integration; a *Error from a nested integration is returned unchanged.
func QuadFunc(f func(float64) (float64, error), a, b float64, opts ...Option) (Result, error) {
	evals := 0
	g := func(x float64) (float64, error) {
		evals++
		v, err := f(x)
		if err != nil {
			return 0, err
		}
		return finiteValue(v, x)
	}
	res, err := adapt("quad", g, a, b, gatherOptions(opts))
	res.Evaluations = evals
	return res, err
}

func finiteValue(v, x float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: f(%g) = %g", ErrNonFinite, x, v)
	}
	return v, nil
}

func wrap(op string, a, b float64, err error) error {
	var qe *Error
	if errors.As(err, &qe) {
		return err
	}
	return &Error{Op: op, Lo: a, Hi: b, Err: err}
}

// adapt is the globally adaptive driver with extrapolation (QUADPACK QAGS
// with the 21-point rule). The subinterval with the largest error estimate
// is bisected until the summed error meets max(epsabs, epsrel*|integral|).
// Once the largest errors sit on small subintervals, the sequence of
// partial sums is extrapolated with the ε-algorithm.
func adapt(op string, f integrand, a, b float64, o Options) (Result, error) {
	if err := o.Validate(); err != nil {
		return Result{}, &Error{Op: op, Lo: a, Hi: b, Err: err}
	}
	if math.IsNaN(a) || math.IsNaN(b) || math.IsInf(a, 0) || math.IsInf(b, 0) {
		return Result{}, &Error{Op: op, Lo: a, Hi: b, Err: ErrInvalidBounds}
	}
	if a == b {
		return Result{}, nil
	}
	sign, lo, hi := 1.0, a, b
	if a > b {
		sign, lo, hi = -1, b, a
	}

	first, err := gk21(f, lo, hi)
	if err != nil {
		return Result{}, wrap(op, a, b, err)
	}
	w := &workspace{segs: []segment{{a: lo, b: hi, value: first.value, abserr: first.abserr}}, order: []int{0}}

	finish := func(value, abserr float64, cause error) (Result, error) {
		if cause == nil && (math.IsNaN(value) || math.IsInf(value, 0)) {
			cause = ErrNonFinite
		}
		r := Result{Value: sign * value, AbsErr: abserr, Subintervals: len(w.segs)}
		if cause != nil {
			return r, &Error{Op: op, Lo: a, Hi: b, Value: r.Value, AbsErr: r.AbsErr, Subintervals: r.Subintervals, Err: cause}
		}
		return r, nil
	}

	dres := math.Abs(first.value)
	errbnd := math.Max(o.EpsAbs, o.EpsRel*dres)
	if first.abserr == 0 || (first.abserr <= errbnd && first.abserr != first.resasc) {
		return finish(first.value, first.abserr, nil)
	}
	if first.abserr <= 100*epmach*first.resabs && first.abserr > errbnd {
		return finish(first.value, first.abserr, ErrRoundoff)
	}
	if o.Limit == 1 {
		return finish(first.value, first.abserr, ErrNotConverged)
	}

	var table epsilonTable
	table.push(first.value)

	var (
		area, errsum = first.value, first.abserr
		maxerr       = 0
		errmax       = first.abserr
		nrmax        = 0 // position in w.order of the next subinterval to bisect

		result = first.value
		abserr = math.MaxFloat64

		small, erlarg, ertest, correc float64

		ktmin                  int
		extrap, noext          bool
		iroff1, iroff2, iroff3 int
		extRoundoff            bool
		cause                  error
	)
	positive := dres >= (1-50*epmach)*first.resabs

	for last := 2; last <= o.Limit; last++ {
		s := w.segs[maxerr]
		a1, b2 := s.a, s.b
		b1 := 0.5 * (s.a + s.b)
		a2 := b1
		erlast := errmax

		left, err := gk21(f, a1, b1)
		if err != nil {
			return Result{}, wrap(op, a, b, err)
		}
		right, err := gk21(f, a2, b2)
		if err != nil {
			return Result{}, wrap(op, a, b, err)
		}
		area12 := left.value + right.value
		erro12 := left.abserr + right.abserr
		errsum += erro12 - errmax
		area += area12 - s.value

		if left.resasc != left.abserr && right.resasc != right.abserr {
			if math.Abs(s.value-area12) <= 1e-5*math.Abs(area12) && erro12 >= 0.99*errmax {
				if extrap {
					iroff2++
				} else {
					iroff1++
				}
			}
			if last > 10 && erro12 > errmax {
				iroff3++
			}
		}
		w.segs[maxerr] = segment{a: a1, b: b1, value: left.value, abserr: left.abserr}
		w.segs = append(w.segs, segment{a: a2, b: b2, value: right.value, abserr: right.abserr})

		errbnd = math.Max(o.EpsAbs, o.EpsRel*math.Abs(area))
		if iroff1+iroff2 >= 10 || iroff3 >= 20 {
			cause = ErrRoundoff
		}
		if iroff2 >= 5 {
			extRoundoff = true
		}
		if last == o.Limit {
			cause = ErrNotConverged
		}
		if math.Max(math.Abs(a1), math.Abs(b2)) <= (1+100*epmach)*(math.Abs(a2)+1000*uflow) {
			cause = ErrRoundoff
		}

		nrmax = w.reorder(maxerr, nrmax)
		maxerr = w.order[nrmax]
		errmax = w.segs[maxerr].abserr

		if errsum <= errbnd {
			value, _ := w.totals()
			return finish(value, errsum, nil)
		}
		if cause != nil {
			break
		}
		if last == 2 {
			small = 0.375 * (hi - lo)
			erlarg = errsum
			ertest = errbnd
			table.push(area)
			continue
		}
		if noext {
			continue
		}

		erlarg -= erlast
		if math.Abs(b1-a1) > small {
			erlarg += erro12
		}
		if !extrap {
			if w.width(maxerr) > small {
				continue
			}
			extrap = true
			nrmax = 1
		}

		if !extRoundoff && erlarg > ertest {
			// Bisect the large subintervals first while their error
			// still dominates.
			jupbnd := last
			if last > 2+o.Limit/2 {
				jupbnd = o.Limit + 3 - last
			}
			large := false
			for k := nrmax; k < jupbnd && nrmax < len(w.order); k++ {
				maxerr = w.order[nrmax]
				errmax = w.segs[maxerr].abserr
				if w.width(maxerr) > small {
					large = true
					break
				}
				nrmax++
			}
			if large {
				continue
			}
		}

		reseps, abseps := table.extrapolate(area)
		ktmin++
		if ktmin > 5 && abserr < 1e-3*errsum {
			cause = ErrNotConverged
		}
		if abseps < abserr {
			ktmin = 0
			abserr, result = abseps, reseps
			correc = erlarg
			ertest = math.Max(o.EpsAbs, o.EpsRel*math.Abs(reseps))
			if abserr <= ertest {
				break
			}
		}
		if table.n == 1 {
			noext = true
		}
		if cause != nil {
			break
		}
		maxerr = w.order[0]
		errmax = w.segs[maxerr].abserr
		nrmax = 0
		extrap = false
		small *= 0.5
		erlarg = errsum
	}

	// Choose between the extrapolated value and the plain sum.
	useSum := abserr == math.MaxFloat64
	checkDivergence := true
	if !useSum && (cause != nil || extRoundoff) {
		if extRoundoff {
			abserr += correc
		}
		if cause == nil {
			cause = ErrRoundoff
		}
		switch {
		case result != 0 && area != 0:
			useSum = abserr/math.Abs(result) > errsum/math.Abs(area)
		case abserr > errsum:
			useSum = true
		case area == 0:
			checkDivergence = false
		}
	}
	if useSum {
		value, _ := w.totals()
		return finish(value, errsum, cause)
	}
	if checkDivergence && area != 0 && (positive || math.Max(math.Abs(result), math.Abs(area)) > 0.01*first.resabs) {
		if ratio := result / area; ratio < 0.01 || ratio > 100 || errsum > math.Abs(area) {
			cause = ErrDivergent
		}
	}
	return finish(result, abserr, cause)
}

type segment struct {
	a, b          float64
	value, abserr float64
}

// workspace holds the subintervals and their indices ordered by
// decreasing error estimate.
type workspace struct {
	segs  []segment
	order []int
}

// reorder re-sorts after segs[bisected] was replaced by its left half and
// the right half appended. nrmax moves up when the bisected subinterval
// now ranks ahead of it.
func (w *workspace) reorder(bisected, nrmax int) int {
	w.order = append(w.order, len(w.segs)-1)
	sort.SliceStable(w.order, func(i, j int) bool {
		return w.segs[w.order[i]].abserr > w.segs[w.order[j]].abserr
	})
	for pos, idx := range w.order {
		if idx == bisected {
			if pos < nrmax {
				nrmax = pos
			}
			break
		}
	}
	if nrmax >= len(w.order) {
		nrmax = len(w.order) - 1
	}
	return nrmax
}

func (w *workspace) width(i int) float64 { return math.Abs(w.segs[i].b - w.segs[i].a) }

// totals re-sums value and error over all subintervals.
func (w *workspace) totals() (value, abserr float64) {
	for _, s := range w.segs {
		value += s.value
		abserr += s.abserr
	}
	return value, abserr
}
