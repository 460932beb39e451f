package symbolic

import (
	"errors"
	"fmt"
)

// ============================================================
// Symbolic Integration (rule-based)
// ============================================================

// ErrIntegrationUnsupported is matched by every *IntegrationError.
var ErrIntegrationUnsupported = errors.New("no closed-form antiderivative")

// IntegrationError names the term the rule set could not integrate.
type IntegrationError struct {
	Expr   Expr
	Var    string
	Reason string
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integrate %s d%s: %s", e.Expr, e.Var, e.Reason)
}

func (e *IntegrationError) Unwrap() error { return ErrIntegrationUnsupported }

// maxPartsDegree caps v^n in by-parts recursion.
const maxPartsDegree = 16

// Integrate returns an antiderivative of e with respect to v. The integrand
// is expanded first; each term must be a product of v-free factors, a power
// of v, sines and cosines of arguments linear in v, and exponentials of
// arguments linear in v. Anything else is an *IntegrationError, including
// a power of a sum above the expansion limit of Expand.
func Integrate(e Expr, v string) (Expr, error) {
	terms := addTerms(Expand(e))
	out := make([]Expr, 0, len(terms))
	for _, t := range terms {
		r, err := integrateTerm(t, v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return AddOf(out...), nil
}

// DefiniteIntegral evaluates the antiderivative at hi and lo. A pole of v^-k
// inside a numeric interval, or an antiderivative that diverges at a bound,
// is reported as unsupported rather than returned as a finite value.
func DefiniteIntegral(e Expr, v string, lo, hi Expr) (Expr, error) {
	if poleInside(Expand(e), v, lo, hi) {
		return nil, &IntegrationError{Expr: e, Var: v, Reason: fmt.Sprintf("integrand has a pole in [%s, %s]", lo, hi)}
	}
	prim, err := Integrate(e, v)
	if err != nil {
		return nil, err
	}
	upper := prim.Sub(v, hi).Simplify()
	lower := prim.Sub(v, lo).Simplify()
	if divergent(upper) || divergent(lower) {
		return nil, &IntegrationError{Expr: e, Var: v, Reason: fmt.Sprintf("antiderivative %s diverges at a bound", prim)}
	}
	return Canonicalize(AddOf(upper, MulOf(N(-1), lower))), nil
}

func integrateTerm(term Expr, v string) (Expr, error) {
	if !DependsOn(term, v) {
		return MulOf(term, S(v)), nil
	}
	fail := func(format string, args ...interface{}) (Expr, error) {
		return nil, &IntegrationError{Expr: term, Var: v, Reason: fmt.Sprintf(format, args...)}
	}

	factors := []Expr{term}
	if m, ok := term.(*Mul); ok {
		factors = m.factors
	}
	var coeff []Expr
	power := N(0)
	expArg := Expr(N(0))
	waves := []wave{{scale: N(1), kind: waveOne, arg: N(0)}}

	for _, f := range factors {
		if !DependsOn(f, v) {
			coeff = append(coeff, f)
			continue
		}
		switch g := f.(type) {
		case *Sym:
			power = numAdd(power, N(1))
		case *Func:
			switch g.name {
			case "exp":
				expArg = AddOf(expArg, g.arg)
			case "sin", "cos":
				if !linearIn(g.arg, v) {
					return fail("argument of %s is not linear in %s", g.name, v)
				}
				waves = multiplyWaves(waves, g.name, g.arg, v)
			default:
				return fail("%s(%s) has no rule", g.name, g.arg)
			}
		case *Pow:
			if DependsOn(g.exp, v) {
				// b^u = exp(u*ln b) for a v-free base.
				if DependsOn(g.base, v) {
					return fail("%s has a variable base and exponent", g)
				}
				if n, ok := g.base.(*Num); ok && !n.IsPositive() {
					return fail("%s has a non-positive base", g)
				}
				expArg = AddOf(expArg, MulOf(g.exp, LnOf(g.base)))
				continue
			}
			switch b := g.base.(type) {
			case *Sym:
				n, ok := g.exp.(*Num)
				if !ok {
					return fail("%s has a symbolic exponent", g)
				}
				power = numAdd(power, n)
			case *Func:
				switch b.name {
				case "exp":
					expArg = AddOf(expArg, MulOf(g.exp, b.arg))
				case "sin", "cos":
					n, ok := g.exp.(*Num)
					if !ok || !n.IsInteger() || !n.IsPositive() || n.val.Num().Int64() > maxPartsDegree {
						return fail("%s is not a small positive power", g)
					}
					if !linearIn(b.arg, v) {
						return fail("argument of %s is not linear in %s", b.name, v)
					}
					for i := int64(0); i < n.val.Num().Int64(); i++ {
						waves = multiplyWaves(waves, b.name, b.arg, v)
					}
				default:
					return fail("%s has no rule", g)
				}
			default:
				return fail("%s has no rule", g)
			}
		default:
			return fail("%s has no rule", f)
		}
	}

	var u Expr
	if DependsOn(expArg, v) {
		if !linearIn(expArg, v) {
			return fail("exponent %s is not linear in %s", expArg, v)
		}
		u = expArg
	} else if !isNumEqual(expArg, 0) {
		coeff = append(coeff, ExpOf(expArg))
	}

	out := make([]Expr, 0, len(waves))
	for _, w := range waves {
		if isNumEqual(w.scale, 0) {
			continue
		}
		if u == nil && w.kind == waveOne {
			out = append(out, MulOf(w.scale, powerRule(power, v)))
			continue
		}
		if !power.IsInteger() || power.IsNegative() {
			return fail("%s^%s times a transcendental factor", v, power)
		}
		n := power.val.Num().Int64()
		if n > maxPartsDegree {
			return fail("degree %d exceeds %d", n, maxPartsDegree)
		}
		out = append(out, byParts(n, kernel{scale: w.scale, u: u, kind: w.kind, w: w.arg}, v))
	}
	return MulOf(append(coeff, AddOf(out...))...), nil
}

func powerRule(n *Num, v string) Expr {
	if n.IsNegOne() {
		return LnOf(AbsOf(S(v)))
	}
	next := numAdd(n, N(1))
	return MulOf(numRecip(next), PowOf(S(v), next))
}

// linearIn reports whether arg = a*v + b with a v-free and non-zero.
func linearIn(arg Expr, v string) bool {
	a := Diff(arg, v)
	return !DependsOn(a, v) && !IsZero(a)
}

// ============================================================
// Trigonometric products
// ============================================================

const (
	waveOne = "one"
	waveSin = "sin"
	waveCos = "cos"
)

// wave is scale*kind(arg); kind one stands for the constant scale.
type wave struct {
	scale Expr
	kind  string
	arg   Expr
}

// multiplyWaves multiplies every wave by kind(arg) and rewrites each
// product as a sum with product-to-sum identities.
func multiplyWaves(ws []wave, kind string, arg Expr, v string) []wave {
	out := make([]wave, 0, 2*len(ws))
	for _, w := range ws {
		if w.kind == waveOne {
			out = append(out, wave{scale: w.scale, kind: kind, arg: arg})
			continue
		}
		half := MulOf(F(1, 2), w.scale)
		negHalf := MulOf(F(-1, 2), w.scale)
		sum := AddOf(w.arg, arg)
		diff := AddOf(w.arg, MulOf(N(-1), arg))
		switch {
		case w.kind == waveSin && kind == waveSin:
			out = append(out, wave{half, waveCos, diff}, wave{negHalf, waveCos, sum})
		case w.kind == waveCos && kind == waveCos:
			out = append(out, wave{half, waveCos, diff}, wave{half, waveCos, sum})
		case w.kind == waveSin:
			out = append(out, wave{half, waveSin, sum}, wave{half, waveSin, diff})
		default:
			out = append(out, wave{half, waveSin, sum}, wave{negHalf, waveSin, diff})
		}
	}
	for i := range out {
		out[i] = out[i].settle(v)
	}
	return out
}

// settle folds a wave whose argument no longer depends on v into its scale.
func (w wave) settle(v string) wave {
	if w.kind == waveOne || DependsOn(w.arg, v) {
		return w
	}
	return wave{scale: MulOf(w.scale, funcOf(w.kind, w.arg).Simplify()), kind: waveOne, arg: N(0)}
}

// ============================================================
// Integration by parts
// ============================================================

// kernel is scale*exp(u)*kind(w). u is nil when there is no exponential;
// kind one means there is no trigonometric factor.
type kernel struct {
	scale Expr
	u     Expr
	kind  string
	w     Expr
}

func (k kernel) expr() Expr {
	factors := []Expr{k.scale}
	if k.u != nil {
		factors = append(factors, ExpOf(k.u))
	}
	if k.kind != waveOne {
		factors = append(factors, funcOf(k.kind, k.w).Simplify())
	}
	return MulOf(factors...)
}

// primitive returns an antiderivative of k as a sum of kernels of the same
// shape. With a = u' and c = w':
//
//	∫e^u sin w = e^u (a sin w - c cos w) / (a²+c²)
//	∫e^u cos w = e^u (a cos w + c sin w) / (a²+c²)
func (k kernel) primitive(v string) []kernel {
	var a, c Expr
	if k.u != nil {
		a = Diff(k.u, v)
	}
	if k.kind != waveOne {
		c = Diff(k.w, v)
	}
	switch {
	case k.kind == waveOne:
		return []kernel{{scale: MulOf(k.scale, PowOf(a, N(-1))), u: k.u, kind: waveOne}}
	case k.u == nil && k.kind == waveSin:
		return []kernel{{scale: MulOf(N(-1), k.scale, PowOf(c, N(-1))), kind: waveCos, w: k.w}}
	case k.u == nil:
		return []kernel{{scale: MulOf(k.scale, PowOf(c, N(-1))), kind: waveSin, w: k.w}}
	}
	s := MulOf(k.scale, PowOf(AddOf(PowOf(a, N(2)), PowOf(c, N(2))), N(-1)))
	if k.kind == waveSin {
		return []kernel{
			{scale: MulOf(s, a), u: k.u, kind: waveSin, w: k.w},
			{scale: MulOf(N(-1), s, c), u: k.u, kind: waveCos, w: k.w},
		}
	}
	return []kernel{
		{scale: MulOf(s, a), u: k.u, kind: waveCos, w: k.w},
		{scale: MulOf(s, c), u: k.u, kind: waveSin, w: k.w},
	}
}

// byParts integrates v^n * k using ∫v^n g = v^n G - n ∫v^(n-1) G.
func byParts(n int64, k kernel, v string) Expr {
	prim := k.primitive(v)
	terms := make([]Expr, 0, 2*len(prim))
	vn := PowOf(S(v), N(n))
	for _, p := range prim {
		terms = append(terms, MulOf(vn, p.expr()))
	}
	if n == 0 {
		return AddOf(terms...)
	}
	for _, p := range prim {
		terms = append(terms, MulOf(N(-n), byParts(n-1, p, v)))
	}
	return AddOf(terms...)
}

// ============================================================
// Singularity checks
// ============================================================

// divergent reports 0^-k and ln(0) anywhere in e.
func divergent(e Expr) bool {
	switch v := e.(type) {
	case *Pow:
		if bn, ok := v.base.(*Num); ok && bn.IsZero() {
			if en, ok := v.exp.(*Num); !ok || !en.IsPositive() {
				return true
			}
		}
		return divergent(v.base) || divergent(v.exp)
	case *Func:
		if v.name == "ln" && isNumEqual(v.arg, 0) {
			return true
		}
		return divergent(v.arg)
	case *Add:
		for _, t := range v.terms {
			if divergent(t) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if divergent(f) {
				return true
			}
		}
	}
	return false
}

// poleInside reports whether e is improper on the closed interval between
// numeric bounds lo and hi: v^p with p <= -1 and 0 in the interval, or
// v^p with -1 < p < 0 and 0 strictly inside. A weak singularity such as
// v^(-1/2) at an endpoint is integrable and passes.
func poleInside(e Expr, v string, lo, hi Expr) bool {
	a, okA := Float(lo)
	b, okB := Float(hi)
	if !okA || !okB || a*b > 0 {
		return false
	}
	strong, weak := negativePowers(e, v)
	return strong || (weak && a*b < 0)
}

// negativePowers reports whether e carries v^p with p <= -1 (strong) or
// -1 < p < 0 (weak).
func negativePowers(e Expr, v string) (strong, weak bool) {
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case *Pow:
			if s, ok := x.base.(*Sym); ok && s.name == v {
				if n, ok := x.exp.(*Num); ok && n.IsNegative() {
					if numAdd(n, N(1)).IsPositive() {
						weak = true
					} else {
						strong = true
					}
				}
			}
			walk(x.base)
			walk(x.exp)
		case *Func:
			walk(x.arg)
		case *Add:
			for _, t := range x.terms {
				walk(t)
			}
		case *Mul:
			for _, f := range x.factors {
				walk(f)
			}
		}
	}
	walk(e)
	return strong, weak
}
