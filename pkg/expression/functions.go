package expression

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alantheprice/choices/pkg/values"
)

// Func is a function callable from an expression. properties carries the
// caller-supplied extras passed to Runner.Run.
type Func func(args []any, properties map[string]any) (any, error)

// FuncRegistry maps lower-cased function names to implementations.
type FuncRegistry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewFuncRegistry returns a registry preloaded with the built-in functions.
func NewFuncRegistry() *FuncRegistry {
	r := &FuncRegistry{funcs: make(map[string]Func)}
	r.Register("iif", iif)
	r.Register("length", length)
	r.Register("sum", sum)
	r.Register("isempty", func(args []any, _ map[string]any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("isempty expects 1 argument, got %d", len(args))
		}
		return values.IsEmpty(args[0]), nil
	})
	return r
}

// Register adds or replaces a function.
func (r *FuncRegistry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[strings.ToLower(name)] = fn
}

// Lookup finds a function by name, ignoring case.
func (r *FuncRegistry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[strings.ToLower(name)]
	return fn, ok
}

// DefaultFuncs is the registry used by Compile.
var DefaultFuncs = NewFuncRegistry()

// RegisterFunc adds a function to DefaultFuncs.
func RegisterFunc(name string, fn Func) { DefaultFuncs.Register(name, fn) }

func iif(args []any, _ map[string]any) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("iif expects 3 arguments, got %d", len(args))
	}
	if values.Truthy(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

func length(args []any, _ map[string]any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("length expects 1 argument, got %d", len(args))
	}
	if list, ok := asList(args[0]); ok {
		return float64(len(list)), nil
	}
	return float64(len([]rune(values.ToString(args[0])))), nil
}

func sum(args []any, _ map[string]any) (any, error) {
	total := 0.0
	for _, a := range args {
		items, ok := asList(a)
		if !ok {
			items = []any{a}
		}
		for _, item := range items {
			if f, ok := values.ToNumber(item); ok {
				total += f
			}
		}
	}
	return total, nil
}
