// Package expression compiles and evaluates the boolean conditions attached
// to choice items, e.g. "{country} = 'US' and {age} >= 18".
//
// Variables are written in braces and resolved against the values map given
// to Run; dotted names walk nested maps and lists. Supported operators:
// = == != <> < <= > >= and && or || not ! + - * / % contains notcontains
// anyof allof empty notempty, plus list literals and function calls.
package expression

import (
	"errors"
	"fmt"

	"github.com/alantheprice/choices/pkg/values"
)

// ErrSyntax marks expressions that could not be parsed.
var ErrSyntax = errors.New("expression syntax error")

func syntaxError(pos int, msg string) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, pos, msg)
}

// Runner is a compiled expression bound to its source text.
type Runner struct {
	expression string
	root       node
	funcs      *FuncRegistry
}

// Compile parses text into a reusable Runner using DefaultFuncs.
func Compile(text string) (*Runner, error) {
	return CompileWith(text, DefaultFuncs)
}

// CompileWith parses text and resolves function calls through funcs.
func CompileWith(text string, funcs *FuncRegistry) (*Runner, error) {
	root, err := parse(text)
	if err != nil {
		return nil, err
	}
	if funcs == nil {
		funcs = DefaultFuncs
	}
	return &Runner{expression: text, root: root, funcs: funcs}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(text string) *Runner {
	r, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return r
}

// Expression returns the source text the runner was compiled from.
func (r *Runner) Expression() string { return r.expression }

// Eval evaluates the expression and returns its raw value.
func (r *Runner) Eval(vals, properties map[string]any) (any, error) {
	return r.root.eval(&env{values: vals, properties: properties, funcs: r.funcs})
}

// Run evaluates the expression as a condition.
func (r *Runner) Run(vals, properties map[string]any) (bool, error) {
	v, err := r.Eval(vals, properties)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", r.expression, err)
	}
	return values.Truthy(v), nil
}

// Variables lists the variable names referenced by the expression, in order
// of first appearance.
func (r *Runner) Variables() []string {
	var names []string
	seen := make(map[string]bool)
	r.root.walk(func(n node) {
		if v, ok := n.(*variableNode); ok && !seen[v.name] {
			seen[v.name] = true
			names = append(names, v.name)
		}
	})
	return names
}
