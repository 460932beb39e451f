package quadrature

import "math"

// limexp is the largest number of elements kept in the ε-table.
const limexp = 50

// epsilonTable extrapolates the sequence of partial sums with Wynn's
// ε-algorithm (QUADPACK qelg). tab is indexed from 1 to n; the two slots
// past n are scratch.
type epsilonTable struct {
	tab   [limexp + 3]float64
	n     int
	last3 [3]float64
	nres  int
}

func (e *epsilonTable) push(v float64) {
	e.n++
	e.tab[e.n] = v
}

// extrapolate appends v and returns the extrapolated limit with an error
// estimate. The estimate is math.MaxFloat64 until three limits exist.
func (e *epsilonTable) extrapolate(v float64) (result, abserr float64) {
	e.push(v)
	result, abserr = e.step()
	return result, math.Max(abserr, 5*epmach*math.Abs(result))
}

func (e *epsilonTable) step() (result, abserr float64) {
	t := &e.tab
	e.nres++
	n := e.n
	abserr = math.MaxFloat64
	result = t[n]
	if n < 3 {
		return result, abserr
	}

	t[n+2] = t[n]
	newelm := (n - 1) / 2
	t[n] = math.MaxFloat64
	num := n
	k1 := n
	for i := 1; i <= newelm; i++ {
		k2, k3 := k1-1, k1-2
		res := t[k1+2]
		e0, e1, e2 := t[k3], t[k2], res
		e1abs := math.Abs(e1)
		delta2 := e2 - e1
		err2 := math.Abs(delta2)
		tol2 := math.Max(math.Abs(e2), e1abs) * epmach
		delta3 := e1 - e0
		err3 := math.Abs(delta3)
		tol3 := math.Max(e1abs, math.Abs(e0)) * epmach
		if err2 <= tol2 && err3 <= tol3 {
			// e0, e1 and e2 agree to machine accuracy.
			return res, err2 + err3
		}

		e3 := t[k1]
		t[k1] = e1
		delta1 := e1 - e3
		err1 := math.Abs(delta1)
		tol1 := math.Max(e1abs, math.Abs(e3)) * epmach
		if err1 <= tol1 || err2 <= tol2 || err3 <= tol3 {
			n = i + i - 1
			break
		}
		ss := 1/delta1 + 1/delta2 - 1/delta3
		if math.Abs(ss*e1) <= 1e-4 {
			// irregular behaviour: drop the rest of the table
			n = i + i - 1
			break
		}
		res = e1 + 1/ss
		t[k1] = res
		k1 -= 2
		if dist := err2 + math.Abs(res-e2) + err3; dist <= abserr {
			abserr = dist
			result = res
		}
	}

	if n == limexp {
		n = 2*(limexp/2) - 1
	}
	ib := 1
	if num%2 == 0 {
		ib = 2
	}
	for i := 1; i <= newelm+1; i++ {
		t[ib] = t[ib+2]
		ib += 2
	}
	if num != n {
		indx := num - n + 1
		for i := 1; i <= n; i++ {
			t[i] = t[indx]
			indx++
		}
	}
	e.n = n

	if e.nres < 4 {
		e.last3[e.nres-1] = result
		return result, math.MaxFloat64
	}
	abserr = math.Abs(result-e.last3[2]) + math.Abs(result-e.last3[1]) + math.Abs(result-e.last3[0])
	e.last3[0], e.last3[1], e.last3[2] = e.last3[1], e.last3[2], result
	return result, abserr
}
