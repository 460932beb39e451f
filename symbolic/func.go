package symbolic

import (
	"math"
)

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LnOf(arg Expr) Expr    { return funcOf("ln", arg).Simplify() }
func SqrtOf(arg Expr) Expr  { return PowOf(arg, F(1, 2)) }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr  { return funcOf("sign", arg).Simplify() }

// Simplify folds only exact values. Transcendental functions of other
// numbers stay symbolic; Eval produces their float value.
func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()
	switch f.name {
	case "sin", "cos", "tan":
		if v, ok := trigSpecial(f.name, arg); ok {
			return v
		}
	case "sinh", "tanh", "asin", "atan":
		if isNumEqual(arg, 0) {
			return N(0)
		}
	case "cosh":
		if isNumEqual(arg, 0) {
			return N(1)
		}
	case "acos":
		if isNumEqual(arg, 1) {
			return N(0)
		}
	case "ln":
		if n2, ok := arg.(*Num); ok && n2.IsOne() {
			return N(0)
		}
		if c, ok := arg.(*Const); ok && c == E {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if n2, ok := arg.(*Num); ok && n2.IsZero() {
			return N(1)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "ln" {
			return inner.arg
		}
	case "abs":
		if n2, ok := arg.(*Num); ok {
			return numAbs(n2)
		}
		if _, ok := arg.(*Const); ok {
			return arg
		}
		if coeff, rest := extractCoefficient(arg); coeff.IsNegative() {
			return AbsOf(MulOf(numAbs(coeff), rest))
		}
	case "floor":
		if n2, ok := arg.(*Num); ok {
			return numFloor(n2)
		}
	case "ceil":
		if n2, ok := arg.(*Num); ok {
			return numCeil(n2)
		}
	case "sign":
		if n2, ok := arg.(*Num); ok {
			return N(int64(n2.val.Sign()))
		}
	}
	return &Func{name: f.name, arg: arg}
}

// trigSpecial applies parity and the exact values at multiples of pi/2,
// including shifts sin(u + k*pi/2).
func trigSpecial(name string, arg Expr) (Expr, bool) {
	if isNumEqual(arg, 0) {
		if name == "cos" {
			return N(1), true
		}
		return N(0), true
	}
	if pos, ok := negated(arg); ok {
		if name == "cos" {
			return CosOf(pos), true
		}
		return MulOf(N(-1), funcOf(name, pos).Simplify()), true
	}
	k, rest, ok := splitPiMultiple(arg)
	if !ok {
		return nil, false
	}
	reduced := numSub(k, numMul(N(2), numFloor(numMul(k, F(1, 2)))))
	quarter := numMul(reduced, N(2))
	if !quarter.IsInteger() {
		if numCmp(reduced, k) == 0 {
			return nil, false
		}
		return funcOf(name, AddOf(rest, MulOf(reduced, Pi))).Simplify(), true
	}
	m := quarter.val.Num().Int64()
	switch name {
	case "sin":
		switch m {
		case 0:
			return SinOf(rest), true
		case 1:
			return CosOf(rest), true
		case 2:
			return MulOf(N(-1), SinOf(rest)), true
		default:
			return MulOf(N(-1), CosOf(rest)), true
		}
	case "cos":
		switch m {
		case 0:
			return CosOf(rest), true
		case 1:
			return MulOf(N(-1), SinOf(rest)), true
		case 2:
			return MulOf(N(-1), CosOf(rest)), true
		default:
			return SinOf(rest), true
		}
	case "tan":
		if m%2 == 0 {
			return TanOf(rest), true
		}
	}
	return nil, false
}

// negated returns -e when e carries a negative leading coefficient.
func negated(e Expr) (Expr, bool) {
	if n, ok := e.(*Num); ok {
		if n.IsNegative() {
			return numNeg(n), true
		}
		return nil, false
	}
	coeff, rest := extractCoefficient(e)
	if !coeff.IsNegative() {
		return nil, false
	}
	return MulOf(numNeg(coeff), rest), true
}

// splitPiMultiple writes e as k*pi + rest with rational k.
func splitPiMultiple(e Expr) (*Num, Expr, bool) {
	if k, ok := piCoefficient(e); ok {
		return k, N(0), true
	}
	add, ok := e.(*Add)
	if !ok {
		return nil, nil, false
	}
	for i, t := range add.terms {
		k, ok := piCoefficient(t)
		if !ok {
			continue
		}
		rest := make([]Expr, 0, len(add.terms)-1)
		rest = append(rest, add.terms[:i]...)
		rest = append(rest, add.terms[i+1:]...)
		return k, AddOf(rest...), true
	}
	return nil, nil, false
}

func piCoefficient(e Expr) (*Num, bool) {
	if c, ok := e.(*Const); ok && c == Pi {
		return N(1), true
	}
	coeff, rest := extractCoefficient(e)
	if c, ok := rest.(*Const); ok && c == Pi && rest != e {
		return coeff, true
	}
	return nil, false
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	switch f.name {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return "\\" + f.name + "\\left(" + f.arg.LaTeX() + "\\right)"
	case "asin":
		return "\\arcsin\\left(" + f.arg.LaTeX() + "\\right)"
	case "acos":
		return "\\arccos\\left(" + f.arg.LaTeX() + "\\right)"
	case "atan":
		return "\\arctan\\left(" + f.arg.LaTeX() + "\\right)"
	case "abs":
		return "\\left|" + f.arg.LaTeX() + "\\right|"
	case "floor":
		return "\\lfloor " + f.arg.LaTeX() + " \\rfloor"
	case "ceil":
		return "\\lceil " + f.arg.LaTeX() + " \\rceil"
	case "sign":
		return "\\operatorname{sign}\\left(" + f.arg.LaTeX() + "\\right)"
	}
	return "\\operatorname{" + f.name + "}\\left(" + f.arg.LaTeX() + "\\right)"
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	if isNumEqual(du.Simplify(), 0) {
		return N(0)
	}
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "exp":
		outer = ExpOf(f.arg)
	case "ln":
		outer = PowOf(f.arg, N(-1))
	case "abs":
		outer = SignOf(f.arg)
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "floor", "ceil", "sign":
		return N(0)
	default:
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du).Simplify()
}

func (f *Func) Eval() (*Num, bool) {
	n, ok := f.arg.Eval()
	if !ok {
		return nil, false
	}
	v, _ := n.val.Float64()
	fn, ok := floatFuncs[f.name]
	if !ok {
		return nil, false
	}
	return floatNum(fn(v))
}

// floatFuncs maps function names to their float64 implementations. Lambdify
// and Eval share it.
var floatFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"exp":   math.Exp,
	"ln":    math.Log,
	"abs":   math.Abs,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"sign": func(v float64) float64 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		}
		return 0
	},
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "func", "name": f.name, "arg": f.arg.toJSON()}
}
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }
