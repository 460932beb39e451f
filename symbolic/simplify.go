package symbolic

import (
	"sort"
)

// ============================================================
// Top-level convenience functions
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

func Sub(expr Expr, varName string, value Expr) Expr {
	return expr.Sub(varName, value).Simplify()
}

func Diff(expr Expr, varName string) Expr {
	return expr.Diff(varName).Simplify()
}

// PDiff computes the partial derivative ∂/∂varName of expr.
func PDiff(expr Expr, varName string) Expr { return Diff(expr, varName) }

func Diff2(expr Expr, varName string) Expr {
	return Diff(Diff(expr, varName), varName)
}

func DiffN(expr Expr, varName string, n int) Expr {
	result := expr
	for i := 0; i < n; i++ {
		result = Diff(result, varName)
	}
	return result
}

// Gradient returns the gradient ∇f as a slice of partial derivatives.
func Gradient(expr Expr, varNames []string) []Expr {
	result := make([]Expr, len(varNames))
	for i, v := range varNames {
		result[i] = PDiff(expr, v)
	}
	return result
}

// Float evaluates e to a float64 when it has no free symbols.
func Float(e Expr) (float64, bool) {
	n, ok := e.Eval()
	if !ok {
		return 0, false
	}
	return n.Float64(), true
}

// IsZero reports whether e simplifies to the exact number 0.
func IsZero(e Expr) bool { return isNumEqual(e.Simplify(), 0) }

// ============================================================
// Expand
// ============================================================

// Expand distributes products over sums. Integer powers of sums are
// multiplied out up to exponent 64; higher powers stay as they are.
func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

// Canonicalize expands and fully simplifies an expression.
func Canonicalize(e Expr) Expr { return DeepSimplify(Expand(e)) }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Mul:
		product := Expr(N(1))
		for _, f := range v.factors {
			product = distribute(product, expandExpr(f))
		}
		return product
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp := n.val.Num().Int64()
			if _, isAdd := base.(*Add); isAdd && exp >= 2 && exp <= maxExactPower {
				result, sq := Expr(N(1)), base
				for k := exp; k > 0; k >>= 1 {
					if k&1 == 1 {
						result = distribute(result, sq)
					}
					if k > 1 {
						sq = distribute(sq, sq)
					}
				}
				return result
			}
		}
		return PowOf(base, v.exp)
	}
	return e
}

// distribute multiplies two expanded expressions term by term.
func distribute(a, b Expr) Expr {
	as, bs := addTerms(a), addTerms(b)
	out := make([]Expr, 0, len(as)*len(bs))
	for _, x := range as {
		for _, y := range bs {
			out = append(out, MulOf(x, y))
		}
	}
	return AddOf(out...)
}

func addTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Deep Simplification and Trig Identities
// ============================================================

// TrigSimplify applies trig identities: sin²+cos²=1, exp(ln(x))=x, ln(exp(x))=x.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify()).Simplify()
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(newTerms...))
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = trigSimplifyExpr(f)
		}
		return MulOf(newFactors...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		return funcOf(v.name, trigSimplifyExpr(v.arg)).Simplify()
	}
	return e
}

// trigFindPythagorean replaces c*sin(u)^2*r + c*cos(u)^2*r with c*r.
func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		funcName string
		argStr   string
		coeff    *Num
		restStr  string
		rest     Expr
		idx      int
	}
	var trigTerms []trigTerm
	for idx, t := range add.terms {
		coeff, inner := extractCoefficient(t)
		factors := []Expr{inner}
		if m, isMul := inner.(*Mul); isMul {
			factors = m.factors
		}
		for fi, f := range factors {
			p, ok2 := f.(*Pow)
			if !ok2 || !isNumEqual(p.exp, 2) {
				continue
			}
			fn, ok3 := p.base.(*Func)
			if !ok3 || (fn.name != "sin" && fn.name != "cos") {
				continue
			}
			others := make([]Expr, 0, len(factors)-1)
			others = append(others, factors[:fi]...)
			others = append(others, factors[fi+1:]...)
			rest := MulOf(others...)
			trigTerms = append(trigTerms, trigTerm{fn.name, fn.arg.String(), coeff, rest.String(), rest, idx})
		}
	}
	for i := 0; i < len(trigTerms); i++ {
		for j := i + 1; j < len(trigTerms); j++ {
			ti, tj := trigTerms[i], trigTerms[j]
			if ti.idx == tj.idx || ti.argStr != tj.argStr || ti.funcName == tj.funcName {
				continue
			}
			if numCmp(ti.coeff, tj.coeff) != 0 || ti.restStr != tj.restStr {
				continue
			}
			newTerms := []Expr{}
			for idx, t := range add.terms {
				if idx != ti.idx && idx != tj.idx {
					newTerms = append(newTerms, t)
				}
			}
			newTerms = append(newTerms, MulOf(ti.coeff, ti.rest))
			return trigFindPythagorean(AddOf(newTerms...).Simplify())
		}
	}
	return e
}

// DeepSimplify applies repeated simplification+trig passes until stable.
func DeepSimplify(e Expr) Expr {
	prev := ""
	curr := e.Simplify()
	for i := 0; i < 10; i++ {
		str := curr.String()
		if str == prev {
			break
		}
		prev = str
		curr = TrigSimplify(curr).Simplify()
	}
	return curr
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

// SortedFreeSymbols returns the free symbol names in lexical order.
func SortedFreeSymbols(e Expr) []string {
	syms := FreeSymbols(e)
	names := make([]string, 0, len(syms))
	for name := range syms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DependsOn reports whether varName occurs free in e.
func DependsOn(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}
