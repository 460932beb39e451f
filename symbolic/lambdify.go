package symbolic

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Lambdify: compile an expression to a float64 closure
// ============================================================

var (
	ErrUnboundSymbol       = errors.New("unbound symbol")
	ErrUnsupportedFunction = errors.New("unsupported function")
)

// Callable evaluates a compiled expression. Arguments bind to the variable
// names given to Lambdify, in order.
type Callable func(args ...float64) float64

type compiled func(x []float64) float64

// Lambdify compiles e into a Callable over vars. Every free symbol of e must
// appear in vars.
func Lambdify(e Expr, vars []string) (Callable, error) {
	index := make(map[string]int, len(vars))
	for i, name := range vars {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("lambdify: variable %q listed twice", name)
		}
		index[name] = i
	}
	fn, err := compile(e.Simplify(), index)
	if err != nil {
		return nil, err
	}
	arity := len(vars)
	return func(args ...float64) float64 {
		if len(args) != arity {
			panic(fmt.Sprintf("symbolic: callable takes %d arguments, got %d", arity, len(args)))
		}
		return fn(args)
	}, nil
}

func compile(e Expr, index map[string]int) (compiled, error) {
	switch v := e.(type) {
	case *Num:
		c := v.Float64()
		return func([]float64) float64 { return c }, nil
	case *Const:
		c := v.value
		return func([]float64) float64 { return c }, nil
	case *Sym:
		i, ok := index[v.name]
		if !ok {
			return nil, fmt.Errorf("lambdify: %w %q", ErrUnboundSymbol, v.name)
		}
		return func(x []float64) float64 { return x[i] }, nil
	case *Add:
		parts, err := compileAll(v.terms, index)
		if err != nil {
			return nil, err
		}
		return func(x []float64) float64 {
			s := 0.0
			for _, p := range parts {
				s += p(x)
			}
			return s
		}, nil
	case *Mul:
		parts, err := compileAll(v.factors, index)
		if err != nil {
			return nil, err
		}
		return func(x []float64) float64 {
			p := 1.0
			for _, f := range parts {
				p *= f(x)
			}
			return p
		}, nil
	case *Pow:
		base, err := compile(v.base, index)
		if err != nil {
			return nil, err
		}
		if n, ok := v.exp.(*Num); ok {
			switch {
			case n.Equal(N(2)):
				return func(x []float64) float64 { b := base(x); return b * b }, nil
			case n.IsNegOne():
				return func(x []float64) float64 { return 1 / base(x) }, nil
			case n.Equal(F(1, 2)):
				return func(x []float64) float64 { return math.Sqrt(base(x)) }, nil
			}
		}
		exp, err := compile(v.exp, index)
		if err != nil {
			return nil, err
		}
		return func(x []float64) float64 { return math.Pow(base(x), exp(x)) }, nil
	case *Func:
		fn, ok := floatFuncs[v.name]
		if !ok {
			return nil, fmt.Errorf("lambdify: %w %q", ErrUnsupportedFunction, v.name)
		}
		arg, err := compile(v.arg, index)
		if err != nil {
			return nil, err
		}
		return func(x []float64) float64 { return fn(arg(x)) }, nil
	}
	return nil, fmt.Errorf("lambdify: %w for node %T", ErrUnsupportedFunction, e)
}

func compileAll(es []Expr, index map[string]int) ([]compiled, error) {
	out := make([]compiled, len(es))
	for i, e := range es {
		fn, err := compile(e, index)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}
