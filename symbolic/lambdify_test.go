package symbolic_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/jcrpanta/density-areas/symbolic"
)

func TestLambdify_BindsByName(t *testing.T) {
	e := symbolic.MustParse("x*y + sin(x) - y^2")
	fn, err := symbolic.Lambdify(e, []string{"y", "x"})
	if err != nil {
		t.Fatal(err)
	}
	want := 2*3 + math.Sin(2) - 9
	if got := fn(3, 2); math.Abs(got-want) > 1e-12 {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestLambdify_Constants(t *testing.T) {
	fn, err := symbolic.Lambdify(symbolic.MustParse("pi*E + sqrt(2)"), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Pi*math.E + math.Sqrt2
	if got := fn(); math.Abs(got-want) > 1e-12 {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestLambdify_UnboundSymbol(t *testing.T) {
	_, err := symbolic.Lambdify(symbolic.MustParse("x + k"), []string{"x"})
	if !errors.Is(err, symbolic.ErrUnboundSymbol) {
		t.Errorf("want ErrUnboundSymbol, got %v", err)
	}
}

func TestLambdify_DuplicateVariable(t *testing.T) {
	if _, err := symbolic.Lambdify(symbolic.MustParse("x"), []string{"x", "x"}); err == nil {
		t.Errorf("duplicate variable names should be rejected")
	}
}

func TestLambdify_ArityPanics(t *testing.T) {
	fn, err := symbolic.Lambdify(symbolic.MustParse("x"), []string{"x"})
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("calling with the wrong number of arguments should panic")
		}
	}()
	fn(1, 2)
}

// ============================================================
// JSON tests
// ============================================================

func TestJSON_RoundTrip(t *testing.T) {
	e := symbolic.MustParse("sin(pi*x)*exp(-y) + E/3")
	s, err := symbolic.ToJSON(e)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatal(err)
	}
	back, err := symbolic.FromJSON(m)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e) {
		t.Errorf("round trip changed the expression: %s -> %s", e, back)
	}
}

func TestJSON_Rejects(t *testing.T) {
	cases := []map[string]interface{}{
		nil,
		{"type": "bogus"},
		{"type": "func", "name": "gamma", "arg": map[string]interface{}{"type": "sym", "name": "x"}},
		{"type": "const", "name": "tau"},
		{"type": "num", "value": "one"},
	}
	for _, c := range cases {
		if _, err := symbolic.FromJSON(c); err == nil {
			t.Errorf("FromJSON(%v): expected error", c)
		}
	}
}

func TestJSON_TreeFeedsFromJSON(t *testing.T) {
	e := symbolic.MustParse("x^2*cos(y) + 1/2")
	back, err := symbolic.FromJSON(symbolic.Tree(e))
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(e) {
		t.Errorf("Tree round trip changed the expression: %s -> %s", e, back)
	}
}
