// Package quadrature provides adaptive numerical integration with error
// estimates.
//
// Core types:
//   - Interval: a pair of finite bounds
//   - Result: value, absolute error estimate and work counters
//   - Options: absolute/relative tolerance and the subdivision limit
//   - Error: a failed integration with the best value reached
//
// Quad integrates a function of one variable with a globally adaptive
// 21-point Gauss–Kronrod rule, bisecting the subinterval with the largest
// error estimate until the requested tolerance is met. The partial sums
// are extrapolated with Wynn's ε-algorithm, so integrable singularities at
// or inside the bounds converge. Dblquad and Nested
// build iterated integrals from Quad; each inner integral is evaluated in
// full for every sample point of the level around it, and only the outermost
// error estimate is reported.
//
// Example:
//
//	res, err := quadrature.Quad(math.Sin, 0, math.Pi)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Value, res.AbsErr) // 2 2.2e-14
package quadrature
