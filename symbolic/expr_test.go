package symbolic_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/jcrpanta/density-areas/symbolic"
)

var (
	x = symbolic.S("x")
	y = symbolic.S("y")
)

// ============================================================
// Num tests
// ============================================================

func TestNum_Integer(t *testing.T) {
	n := symbolic.N(42)
	if n.String() != "42" {
		t.Errorf("want 42, got %s", n.String())
	}
}

func TestNum_Rational(t *testing.T) {
	n := symbolic.F(1, 3)
	if n.String() != "1/3" {
		t.Errorf("want 1/3, got %s", n.String())
	}
}

func TestNum_LaTeX_Rational(t *testing.T) {
	n := symbolic.F(2, 5)
	if n.LaTeX() != `\frac{2}{5}` {
		t.Errorf("want \\frac{2}{5}, got %s", n.LaTeX())
	}
}

func TestNum_Diff_IsZero(t *testing.T) {
	result := symbolic.N(5).Diff("x")
	if symbolic.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", symbolic.String(result))
	}
}

// ============================================================
// Sym and Const tests
// ============================================================

func TestSym_Sub_Match(t *testing.T) {
	result := x.Sub("x", symbolic.N(3))
	if symbolic.String(result) != "3" {
		t.Errorf("want 3, got %s", symbolic.String(result))
	}
}

func TestSym_Sub_NoMatch(t *testing.T) {
	result := x.Sub("y", symbolic.N(3))
	if symbolic.String(result) != "x" {
		t.Errorf("want x, got %s", symbolic.String(result))
	}
}

func TestSym_LaTeX_Greek(t *testing.T) {
	if got := symbolic.S("theta1").LaTeX(); got != `\theta_{1}` {
		t.Errorf("want \\theta_{1}, got %s", got)
	}
	if got := symbolic.S("phi").LaTeX(); got != `\phi` {
		t.Errorf("want \\phi, got %s", got)
	}
}

func TestConst_Eval(t *testing.T) {
	v, ok := symbolic.Float(symbolic.MulOf(symbolic.N(2), symbolic.Pi))
	if !ok || math.Abs(v-2*math.Pi) > 1e-15 {
		t.Errorf("2*pi should evaluate to %v, got %v (ok=%v)", 2*math.Pi, v, ok)
	}
}

// ============================================================
// Add / Mul / Pow tests
// ============================================================

func TestAdd_CollectsLikeTerms(t *testing.T) {
	if got := symbolic.String(symbolic.AddOf(x, x)); got != "2*x" {
		t.Errorf("x + x: want 2*x, got %s", got)
	}
	cancel := symbolic.AddOf(symbolic.MulOf(x, y), symbolic.MulOf(symbolic.N(-1), x, y))
	if got := symbolic.String(cancel); got != "0" {
		t.Errorf("x*y - x*y: want 0, got %s", got)
	}
}

func TestMul_MergesPowers(t *testing.T) {
	got := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(2)))
	if symbolic.String(got) != "x^3" {
		t.Errorf("x*x^2: want x^3, got %s", symbolic.String(got))
	}
	one := symbolic.MulOf(x, symbolic.PowOf(x, symbolic.N(-1)))
	if symbolic.String(one) != "1" {
		t.Errorf("x*x^-1: want 1, got %s", symbolic.String(one))
	}
}

func TestPow_DistributesOverProduct(t *testing.T) {
	got := symbolic.PowOf(symbolic.MulOf(symbolic.N(2), x), symbolic.N(2))
	if symbolic.String(got) != "4*x^2" {
		t.Errorf("(2x)^2: want 4*x^2, got %s", symbolic.String(got))
	}
}

func TestPow_ZeroToNegativeStaysUnevaluated(t *testing.T) {
	got := symbolic.PowOf(symbolic.N(0), symbolic.N(-1))
	if symbolic.String(got) != "0^-1" {
		t.Errorf("want 0^-1, got %s", symbolic.String(got))
	}
	if _, ok := got.Eval(); ok {
		t.Errorf("0^-1 should not evaluate to a finite number")
	}
}

func TestPow_SqrtLaTeX(t *testing.T) {
	if got := symbolic.SqrtOf(x).LaTeX(); got != `\sqrt{x}` {
		t.Errorf("want \\sqrt{x}, got %s", got)
	}
}

// ============================================================
// Func tests
// ============================================================

func TestTrig_ExactValues(t *testing.T) {
	twoPi := symbolic.MulOf(symbolic.N(2), symbolic.Pi)
	cases := []struct {
		name string
		expr symbolic.Expr
		want string
	}{
		{"sin(pi)", symbolic.SinOf(symbolic.Pi), "0"},
		{"cos(pi)", symbolic.CosOf(symbolic.Pi), "-1"},
		{"cos(2pi)", symbolic.CosOf(twoPi), "1"},
		{"sin(pi/2)", symbolic.SinOf(symbolic.MulOf(symbolic.F(1, 2), symbolic.Pi)), "1"},
		{"sin(x+2pi)", symbolic.SinOf(symbolic.AddOf(x, twoPi)), "sin(x)"},
		{"sin(-x)", symbolic.SinOf(symbolic.MulOf(symbolic.N(-1), x)), "-1*sin(x)"},
		{"cos(-x)", symbolic.CosOf(symbolic.MulOf(symbolic.N(-1), x)), "cos(x)"},
		{"sin(1)", symbolic.SinOf(symbolic.N(1)), "sin(1)"},
	}
	for _, tc := range cases {
		if got := symbolic.String(tc.expr); got != tc.want {
			t.Errorf("%s: want %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestFunc_NumericArgumentEvaluates(t *testing.T) {
	v, ok := symbolic.Float(symbolic.SinOf(symbolic.N(1)))
	if !ok || math.Abs(v-math.Sin(1)) > 1e-15 {
		t.Errorf("sin(1): want %v, got %v", math.Sin(1), v)
	}
}

func TestFunc_LnExpInverse(t *testing.T) {
	if got := symbolic.String(symbolic.LnOf(symbolic.E)); got != "1" {
		t.Errorf("ln(E): want 1, got %s", got)
	}
	if got := symbolic.String(symbolic.ExpOf(symbolic.LnOf(x))); got != "x" {
		t.Errorf("exp(ln(x)): want x, got %s", got)
	}
}

func TestDiff_Sin(t *testing.T) {
	if got := symbolic.String(symbolic.Diff(symbolic.SinOf(x), "x")); got != "cos(x)" {
		t.Errorf("d/dx sin(x): want cos(x), got %s", got)
	}
}

func TestPDiff_IgnoresOtherVariables(t *testing.T) {
	e := symbolic.MulOf(x, symbolic.SinOf(y))
	if got := symbolic.String(symbolic.PDiff(e, "x")); got != "sin(y)" {
		t.Errorf("d/dx x*sin(y): want sin(y), got %s", got)
	}
}

// ============================================================
// Expand / TrigSimplify / FreeSymbols
// ============================================================

func TestExpand_Square(t *testing.T) {
	e := symbolic.PowOf(symbolic.AddOf(x, symbolic.N(1)), symbolic.N(2))
	if got := symbolic.String(symbolic.Expand(e)); got != "2*x + x^2 + 1" {
		t.Errorf("(x+1)^2: want 2*x + x^2 + 1, got %s", got)
	}
}

func TestTrigSimplify_Pythagorean(t *testing.T) {
	e := symbolic.AddOf(
		symbolic.PowOf(symbolic.SinOf(x), symbolic.N(2)),
		symbolic.PowOf(symbolic.CosOf(x), symbolic.N(2)),
	)
	if got := symbolic.String(symbolic.TrigSimplify(e)); got != "1" {
		t.Errorf("sin²+cos²: want 1, got %s", got)
	}
}

func TestSortedFreeSymbols(t *testing.T) {
	e := symbolic.AddOf(symbolic.MulOf(y, symbolic.SinOf(x)), symbolic.S("a"), symbolic.Pi)
	got := symbolic.SortedFreeSymbols(e)
	want := []string{"a", "x", "y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
	if symbolic.DependsOn(e, "z") {
		t.Errorf("expression should not depend on z")
	}
}

// ============================================================
// Matrix tests
// ============================================================

func TestJacobianDet_Identity(t *testing.T) {
	j := symbolic.Jacobian([]symbolic.Expr{symbolic.S("x1"), symbolic.S("x2")}, []string{"x1", "x2"})
	if got := symbolic.String(j.Det()); got != "1" {
		t.Errorf("det of identity Jacobian: want 1, got %s", got)
	}
}

func TestJacobianDet_Antisymmetric(t *testing.T) {
	f := symbolic.MulOf(x, y)
	h := symbolic.AddOf(x, symbolic.PowOf(y, symbolic.N(2)))
	vars := []string{"x", "y"}
	fh := symbolic.Jacobian([]symbolic.Expr{f, h}, vars).Det()
	hf := symbolic.Jacobian([]symbolic.Expr{h, f}, vars).Det()
	if !symbolic.IsZero(symbolic.AddOf(fh, hf)) {
		t.Errorf("det J(f,h) + det J(h,f) should vanish, got %s + %s", fh, hf)
	}
}

func TestMatrix_String(t *testing.T) {
	m := symbolic.MatrixFromSlice(2, 2, []symbolic.Expr{x, symbolic.N(0), symbolic.N(0), y})
	if got := m.String(); got != "[[x, 0], [0, y]]" {
		t.Errorf("want [[x, 0], [0, y]], got %s", got)
	}
}
