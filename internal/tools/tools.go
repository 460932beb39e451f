// Package tools exposes the bracket, area and symbolic operations as named
// JSON tool calls for agent frameworks.
//
// Expression parameters are accepted either as formula strings ("x^2 + 1")
// or as JSON expression trees ({"type":"sym","name":"x"}); plain numbers
// are accepted wherever an expression is.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jcrpanta/density-areas/area"
	"github.com/jcrpanta/density-areas/bracket"
	"github.com/jcrpanta/density-areas/quadrature"
	"github.com/jcrpanta/density-areas/symbolic"
)

type Request struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type Response struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Handler runs tool calls. Quadrature options apply to every numerical
// tool.
type Handler struct {
	Quadrature []quadrature.Option
}

func NewHandler(opts ...quadrature.Option) *Handler {
	return &Handler{Quadrature: opts}
}

func fail(err error) Response { return Response{Error: err.Error()} }

func (h *Handler) Handle(req Request) Response {
	getExpr := func(key string) (symbolic.Expr, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		return exprParam(key, v)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	optString := func(key, def string) (string, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getString(key)
	}
	getStrings := func(key string) ([]string, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		result := make([]string, len(raw))
		for i, r := range raw {
			s, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("param %s[%d] must be string", key, i)
			}
			result[i] = s
		}
		return result, nil
	}
	getNumbers := func(key string) ([]float64, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		result := make([]float64, len(raw))
		for i, r := range raw {
			f, ok := r.(float64)
			if !ok {
				return nil, fmt.Errorf("param %s[%d] must be number", key, i)
			}
			result[i] = f
		}
		return result, nil
	}
	getInterval := func(key string) (quadrature.Interval, error) {
		nums, err := getNumbers(key)
		if err != nil {
			return quadrature.Interval{}, err
		}
		if len(nums) != 2 {
			return quadrature.Interval{}, fmt.Errorf("param %s must be [lo, hi]", key)
		}
		return quadrature.Interval{Lo: nums[0], Hi: nums[1]}, nil
	}
	getParams := func() (map[string]float64, error) {
		v, ok := req.Params["params"]
		if !ok {
			return nil, nil
		}
		raw, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param params must be object")
		}
		out := make(map[string]float64, len(raw))
		for k, r := range raw {
			f, ok := r.(float64)
			if !ok {
				return nil, fmt.Errorf("params.%s must be number", k)
			}
			out[k] = f
		}
		return out, nil
	}
	respond := func(e symbolic.Expr) Response {
		return Response{Result: symbolic.Tree(e), LaTeX: symbolic.LaTeX(e), String: symbolic.String(e)}
	}
	respondQuad := func(r quadrature.Result) Response {
		return Response{
			Result: map[string]interface{}{
				"value":        r.Value,
				"abserr":       r.AbsErr,
				"evaluations":  r.Evaluations,
				"subintervals": r.Subintervals,
			},
			String: fmt.Sprintf("%.15g ± %.3g", r.Value, r.AbsErr),
		}
	}

	switch req.Tool {
	case "parse":
		src, err := getString("expr")
		if err != nil {
			return fail(err)
		}
		e, err := symbolic.Parse(src)
		if err != nil {
			return fail(err)
		}
		return respond(e)

	case "simplify":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.Simplify(e))

	case "deep_simplify":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.DeepSimplify(e))

	case "trig_simplify":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.TrigSimplify(e))

	case "canonicalize":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.Canonicalize(e))

	case "expand":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.Expand(e))

	case "substitute":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		val, err := getExpr("value")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.Sub(e, v, val))

	case "to_latex":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		return Response{Result: symbolic.LaTeX(e), LaTeX: symbolic.LaTeX(e), String: symbolic.String(e)}

	case "free_symbols":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		syms := symbolic.SortedFreeSymbols(e)
		return Response{Result: syms, String: strings.Join(syms, ", ")}

	case "diff":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		return respond(symbolic.Diff(e, v))

	case "gradient":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		vars, err := getStrings("vars")
		if err != nil {
			return fail(err)
		}
		grad := symbolic.Gradient(e, vars)
		trees := make([]interface{}, len(grad))
		strs := make([]string, len(grad))
		for i, g := range grad {
			trees[i] = symbolic.Tree(g)
			strs[i] = symbolic.String(g)
		}
		return Response{Result: trees, String: "[" + strings.Join(strs, ", ") + "]"}

	case "jacobian_det":
		srcs, ok := req.Params["exprs"].([]interface{})
		if !ok {
			return Response{Error: "param exprs must be array"}
		}
		vars, err := getStrings("vars")
		if err != nil {
			return fail(err)
		}
		if len(srcs) != len(vars) {
			return Response{Error: "jacobian_det needs as many exprs as vars"}
		}
		exprs := make([]symbolic.Expr, len(srcs))
		for i, s := range srcs {
			e, err := exprParam(fmt.Sprintf("exprs[%d]", i), s)
			if err != nil {
				return fail(err)
			}
			exprs[i] = e
		}
		return respond(symbolic.Jacobian(exprs, vars).Det())

	case "integrate":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		anti, err := symbolic.Integrate(e, v)
		if err != nil {
			return fail(err)
		}
		return respond(anti)

	case "definite_integral":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		lo, err := getExpr("a")
		if err != nil {
			return fail(err)
		}
		hi, err := getExpr("b")
		if err != nil {
			return fail(err)
		}
		val, err := symbolic.DefiniteIntegral(e, v, lo, hi)
		if err != nil {
			return fail(err)
		}
		return respond(val)

	case "quad":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		v, err := getString("var")
		if err != nil {
			return fail(err)
		}
		bounds, err := getInterval("interval")
		if err != nil {
			return fail(err)
		}
		fn, err := symbolic.Lambdify(e, []string{v})
		if err != nil {
			return fail(err)
		}
		res, err := quadrature.Quad(func(x float64) float64 { return fn(x) }, bounds.Lo, bounds.Hi, h.Quadrature...)
		if err != nil {
			return fail(err)
		}
		return respondQuad(res)

	case "lambdify_eval":
		e, err := getExpr("expr")
		if err != nil {
			return fail(err)
		}
		vars, err := getStrings("vars")
		if err != nil {
			return fail(err)
		}
		point, err := getNumbers("point")
		if err != nil {
			return fail(err)
		}
		if len(point) != len(vars) {
			return Response{Error: fmt.Sprintf("point has %d values for %d vars", len(point), len(vars))}
		}
		fn, err := symbolic.Lambdify(e, vars)
		if err != nil {
			return fail(err)
		}
		v := fn(point...)
		return Response{Result: v, String: fmt.Sprintf("%.15g", v)}

	case "poisson_bracket":
		name, err := optString("manifold", "square")
		if err != nil {
			return fail(err)
		}
		m, err := bracket.Lookup(name)
		if err != nil {
			return fail(err)
		}
		var obs bracket.Observables
		for _, p := range []struct {
			key string
			dst *string
		}{{"tau", &obs.Tau}, {"rho", &obs.Rho}, {"f", &obs.F}, {"h", &obs.H}} {
			if *p.dst, err = getString(p.key); err != nil {
				return fail(err)
			}
		}
		modeName, err := optString("mode", "exact")
		if err != nil {
			return fail(err)
		}
		mode, err := bracket.ParseMode(modeName)
		if err != nil {
			return fail(err)
		}
		params, err := getParams()
		if err != nil {
			return fail(err)
		}
		res, err := m.Evaluate(obs, mode, bracket.WithParams(params), bracket.WithQuadrature(h.Quadrature...))
		if err != nil {
			return fail(err)
		}
		switch r := res.(type) {
		case bracket.Exact:
			return respond(r.Expr)
		case bracket.Numerical:
			return Response{
				Result: map[string]interface{}{"value": r.Value, "abserr": r.AbsErr},
				String: r.String(),
			}
		}
		return Response{Error: fmt.Sprintf("unexpected result %T", res)}

	case "symplectic_area":
		i1, err := getInterval("i1")
		if err != nil {
			return fail(err)
		}
		i2, err := getInterval("i2")
		if err != nil {
			return fail(err)
		}
		var field area.Field
		if _, ok := req.Params["field"]; ok {
			src, err := getString("field")
			if err != nil {
				return fail(err)
			}
			params, err := getParams()
			if err != nil {
				return fail(err)
			}
			if field, err = area.FieldFromExpr(src, params); err != nil {
				return fail(err)
			}
		}
		res, err := area.Compute(field, i1, i2, h.Quadrature...)
		if err != nil {
			return fail(err)
		}
		return respondQuad(res)

	case "mcp_spec":
		return Response{Result: Spec(), String: "MCP tool specification"}
	}

	return Response{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

func exprParam(key string, v interface{}) (symbolic.Expr, error) {
	switch val := v.(type) {
	case string:
		return symbolic.Parse(val)
	case float64:
		return symbolic.NFloat(val), nil
	case map[string]interface{}:
		return symbolic.FromJSON(val)
	}
	return nil, fmt.Errorf("invalid type for param %s", key)
}

// Spec returns the JSON schema of every tool.
func Spec() string {
	expr := "string|object"
	tools := []map[string]interface{}{
		ts("poisson_bracket", "Poisson bracket {F_f, F_h} on square|torus|sphere. Optional: mode (exact|numerical), params", []string{"tau", "rho", "f", "h"},
			map[string]string{"manifold": "string", "tau": "string", "rho": "string", "f": "string", "h": "string", "mode": "string", "params": "object"}),
		ts("symplectic_area", "Normalized 4-fold integral over theta, phi, s in i1, t in i2. Optional: field, params", []string{"i1", "i2"},
			map[string]string{"field": "string", "i1": "array", "i2": "array", "params": "object"}),
		ts("parse", "Parse a formula into an expression tree", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("simplify", "Simplify a symbolic expression", []string{"expr"}, map[string]string{"expr": expr}),
		ts("deep_simplify", "Apply multiple simplification passes including trig identities", []string{"expr"}, map[string]string{"expr": expr}),
		ts("trig_simplify", "Apply trig identities (sin²+cos²=1, exp(ln(x))=x, etc.)", []string{"expr"}, map[string]string{"expr": expr}),
		ts("canonicalize", "Expand and canonicalize expression", []string{"expr"}, map[string]string{"expr": expr}),
		ts("expand", "Algebraically expand expression", []string{"expr"}, map[string]string{"expr": expr}),
		ts("substitute", "Substitute var with value", []string{"expr", "var", "value"}, map[string]string{"expr": expr, "var": "string", "value": expr}),
		ts("to_latex", "Convert to LaTeX", []string{"expr"}, map[string]string{"expr": expr}),
		ts("free_symbols", "Return free symbol names", []string{"expr"}, map[string]string{"expr": expr}),
		ts("diff", "First derivative d/dx", []string{"expr", "var"}, map[string]string{"expr": expr, "var": "string"}),
		ts("gradient", "Gradient vector ∇f. Requires vars (string[])", []string{"expr", "vars"}, map[string]string{"expr": expr, "vars": "array"}),
		ts("jacobian_det", "Determinant of the Jacobian of exprs in vars", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}),
		ts("integrate", "Symbolic antiderivative (rule-based)", []string{"expr", "var"}, map[string]string{"expr": expr, "var": "string"}),
		ts("definite_integral", "Exact ∫_a^b", []string{"expr", "var", "a", "b"}, map[string]string{"expr": expr, "var": "string", "a": expr, "b": expr}),
		ts("quad", "Adaptive Gauss–Kronrod ∫ over interval [lo, hi]", []string{"expr", "var", "interval"}, map[string]string{"expr": expr, "var": "string", "interval": "array"}),
		ts("lambdify_eval", "Evaluate expr numerically at point (values in vars order)", []string{"expr", "vars", "point"}, map[string]string{"expr": expr, "vars": "array", "point": "array"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		if strings.Contains(typ, "|") {
			properties[k] = map[string]interface{}{"type": strings.Split(typ, "|")}
			continue
		}
		properties[k] = map[string]interface{}{"type": typ}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
