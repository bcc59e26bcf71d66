package expression

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/alantheprice/choices/pkg/values"
)

type env struct {
	values     map[string]any
	properties map[string]any
	funcs      *FuncRegistry
}

type node interface {
	eval(e *env) (any, error)
	// walk visits the node and its children
	walk(fn func(node))
}

type literalNode struct{ value any }

func (n *literalNode) eval(*env) (any, error) { return n.value, nil }
func (n *literalNode) walk(fn func(node))     { fn(n) }

type variableNode struct{ name string }

func (n *variableNode) eval(e *env) (any, error) { return lookup(e.values, n.name), nil }
func (n *variableNode) walk(fn func(node))       { fn(n) }

type arrayNode struct{ items []node }

func (n *arrayNode) eval(e *env) (any, error) {
	out := make([]any, 0, len(n.items))
	for _, item := range n.items {
		v, err := item.eval(e)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (n *arrayNode) walk(fn func(node)) {
	fn(n)
	for _, item := range n.items {
		item.walk(fn)
	}
}

type notNode struct{ operand node }

func (n *notNode) eval(e *env) (any, error) {
	v, err := n.operand.eval(e)
	if err != nil {
		return nil, err
	}
	return !values.Truthy(v), nil
}

func (n *notNode) walk(fn func(node)) {
	fn(n)
	n.operand.walk(fn)
}

type negateNode struct{ operand node }

func (n *negateNode) eval(e *env) (any, error) {
	v, err := n.operand.eval(e)
	if err != nil {
		return nil, err
	}
	f, ok := values.ToNumber(v)
	if !ok {
		return nil, fmt.Errorf("cannot negate %q", values.ToString(v))
	}
	return -f, nil
}

func (n *negateNode) walk(fn func(node)) {
	fn(n)
	n.operand.walk(fn)
}

type logicalNode struct {
	and         bool
	left, right node
}

func (n *logicalNode) eval(e *env) (any, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	lt := values.Truthy(l)
	if n.and && !lt {
		return false, nil
	}
	if !n.and && lt {
		return true, nil
	}
	r, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}
	return values.Truthy(r), nil
}

func (n *logicalNode) walk(fn func(node)) {
	fn(n)
	n.left.walk(fn)
	n.right.walk(fn)
}

type emptyNode struct {
	operand node
	negate  bool
}

func (n *emptyNode) eval(e *env) (any, error) {
	v, err := n.operand.eval(e)
	if err != nil {
		return nil, err
	}
	return values.IsEmpty(v) != n.negate, nil
}

func (n *emptyNode) walk(fn func(node)) {
	fn(n)
	n.operand.walk(fn)
}

type compareNode struct {
	op          string
	left, right node
}

func (n *compareNode) eval(e *env) (any, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case "=":
		return values.Equal(l, r), nil
	case "!=":
		return !values.Equal(l, r), nil
	case "<", "<=", ">", ">=":
		c, ok := values.Compare(l, r)
		if !ok {
			return false, nil
		}
		switch n.op {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		}
		return c >= 0, nil
	case "contains":
		return contains(l, r), nil
	case "notcontains":
		return !contains(l, r), nil
	case "anyof":
		return anyOf(l, r), nil
	case "allof":
		return allOf(l, r), nil
	}
	return nil, fmt.Errorf("unknown operator %q", n.op)
}

func (n *compareNode) walk(fn func(node)) {
	fn(n)
	n.left.walk(fn)
	n.right.walk(fn)
}

type arithmeticNode struct {
	op          string
	left, right node
}

func (n *arithmeticNode) eval(e *env) (any, error) {
	l, err := n.left.eval(e)
	if err != nil {
		return nil, err
	}
	r, err := n.right.eval(e)
	if err != nil {
		return nil, err
	}
	lf, lok := values.ToNumber(l)
	rf, rok := values.ToNumber(r)
	if n.op == "+" && (!lok || !rok) {
		return values.ToString(l) + values.ToString(r), nil
	}
	if !lok || !rok {
		return nil, fmt.Errorf("operator %s needs numbers, got %q and %q", n.op, values.ToString(l), values.ToString(r))
	}
	switch n.op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	}
	if rf == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	if n.op == "%" {
		return float64(int64(lf) % int64(rf)), nil
	}
	return lf / rf, nil
}

func (n *arithmeticNode) walk(fn func(node)) {
	fn(n)
	n.left.walk(fn)
	n.right.walk(fn)
}

type callNode struct {
	name string
	args []node
}

func (n *callNode) eval(e *env) (any, error) {
	fn, ok := e.funcs.Lookup(n.name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", n.name)
	}
	args := make([]any, 0, len(n.args))
	for _, a := range n.args {
		v, err := a.eval(e)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return fn(args, e.properties)
}

func (n *callNode) walk(fn func(node)) {
	fn(n)
	for _, a := range n.args {
		a.walk(fn)
	}
}

// lookup resolves a dotted variable name. A key containing the dots wins over
// path traversal; key matching falls back to case-insensitive.
func lookup(vals map[string]any, name string) any {
	if vals == nil {
		return nil
	}
	if v, ok := findKey(vals, name); ok {
		return v
	}
	parts := strings.Split(name, ".")
	var cur any = vals
	for _, part := range parts {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := findKey(c, part)
			if !ok {
				return nil
			}
			cur = v
		default:
			rv := reflect.ValueOf(cur)
			if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
				return nil
			}
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= rv.Len() {
				return nil
			}
			cur = rv.Index(idx).Interface()
		}
	}
	return cur
}

func findKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func includes(list []any, v any) bool {
	for _, item := range list {
		if values.Equal(item, v) {
			return true
		}
	}
	return false
}

func contains(container, v any) bool {
	if values.IsEmpty(container) {
		return false
	}
	if list, ok := asList(container); ok {
		if wanted, ok := asList(v); ok {
			for _, w := range wanted {
				if !includes(list, w) {
					return false
				}
			}
			return true
		}
		return includes(list, v)
	}
	return strings.Contains(values.ToString(container), values.ToString(v))
}

func anyOf(v, options any) bool {
	if values.IsEmpty(v) {
		return false
	}
	opts, ok := asList(options)
	if !ok {
		opts = []any{options}
	}
	if list, ok := asList(v); ok {
		for _, item := range list {
			if includes(opts, item) {
				return true
			}
		}
		return false
	}
	return includes(opts, v)
}

func allOf(v, options any) bool {
	list, ok := asList(v)
	if !ok || len(list) == 0 {
		return false
	}
	opts, ok := asList(options)
	if !ok {
		opts = []any{options}
	}
	for _, o := range opts {
		if !includes(list, o) {
			return false
		}
	}
	return true
}
