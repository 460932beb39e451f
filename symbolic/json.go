package symbolic

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// ToJSON encodes e as the tagged tree accepted by FromJSON.
func ToJSON(e Expr) (string, error) {
	b, err := json.Marshal(e.toJSON())
	return string(b), err
}

// Tree returns the JSON-ready map form of e.
func Tree(e Expr) map[string]interface{} { return e.toJSON() }

// FromJSON rebuilds an expression from a tree such as
//
//	{"type":"pow","base":{"type":"sym","name":"x"},"exp":{"type":"num","value":"1/2"}}
//
// It accepts both decoded JSON and the output of Tree. The result is
// simplified.
func FromJSON(data map[string]interface{}) (Expr, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typ, ok := data["type"].(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}
	n := treeNode{typ: typ, fields: data}

	switch typ {
	case "num":
		val, err := n.str("value")
		if err != nil {
			return nil, err
		}
		r, ok := new(big.Rat).SetString(val)
		if !ok {
			return nil, fmt.Errorf("num: invalid value %q", val)
		}
		return &Num{val: r}, nil

	case "sym":
		name, err := n.str("name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "const":
		name, err := n.str("name")
		if err != nil {
			return nil, err
		}
		c, ok := constByName(name)
		if !ok {
			return nil, fmt.Errorf("const: unknown constant %q", name)
		}
		return c, nil

	case "add", "mul":
		field := map[string]string{"add": "terms", "mul": "factors"}[typ]
		args, err := n.list(field)
		if err != nil {
			return nil, err
		}
		if typ == "add" {
			return AddOf(args...), nil
		}
		return MulOf(args...), nil

	case "pow":
		base, err := n.child("base")
		if err != nil {
			return nil, err
		}
		exp, err := n.child("exp")
		if err != nil {
			return nil, err
		}
		return PowOf(base, exp), nil

	case "func":
		name, err := n.str("name")
		if err != nil {
			return nil, err
		}
		if _, known := floatFuncs[name]; !known {
			return nil, fmt.Errorf("func: unknown function %q", name)
		}
		arg, err := n.child("arg")
		if err != nil {
			return nil, err
		}
		return funcOf(name, arg).Simplify(), nil
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}

type treeNode struct {
	typ    string
	fields map[string]interface{}
}

func (n treeNode) str(field string) (string, error) {
	s, ok := n.fields[field].(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s: %q must be a non-empty string", n.typ, field)
	}
	return s, nil
}

func (n treeNode) child(field string) (Expr, error) {
	m, ok := n.fields[field].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: %q must be an object", n.typ, field)
	}
	e, err := FromJSON(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", n.typ, field, err)
	}
	return e, nil
}

func (n treeNode) list(field string) ([]Expr, error) {
	var items []map[string]interface{}
	switch raw := n.fields[field].(type) {
	case []map[string]interface{}:
		items = raw
	case []interface{}:
		items = make([]map[string]interface{}, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", n.typ, field, i)
			}
			items[i] = m
		}
	default:
		return nil, fmt.Errorf("%s: %q must be an array", n.typ, field)
	}

	out := make([]Expr, len(items))
	for i, m := range items {
		e, err := FromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s[%d]: %w", n.typ, field, i, err)
		}
		out[i] = e
	}
	return out, nil
}
