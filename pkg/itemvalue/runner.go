package itemvalue

import (
	"sync"

	"github.com/alantheprice/choices/pkg/expression"
)

// ConditionRunner is a compiled boolean expression.
type ConditionRunner interface {
	Expression() string
	Run(values, properties map[string]any) (bool, error)
}

// Compiler turns expression text into a ConditionRunner.
type Compiler func(text string) (ConditionRunner, error)

var (
	compilerMu sync.RWMutex
	compiler   Compiler = compileExpression
)

func compileExpression(text string) (ConditionRunner, error) {
	r, err := expression.Compile(text)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// SetCompiler replaces the compiler used for visibleIf and enableIf and
// returns the previous one. Passing nil restores the built-in engine.
func SetCompiler(c Compiler) Compiler {
	compilerMu.Lock()
	defer compilerMu.Unlock()
	prev := compiler
	if c == nil {
		c = compileExpression
	}
	compiler = c
	return prev
}

// Compile builds a runner for text with the installed compiler. A text that
// does not compile yields a runner whose Run returns the compile error.
func Compile(text string) ConditionRunner { return compile(text) }

func compile(text string) ConditionRunner {
	compilerMu.RLock()
	c := compiler
	compilerMu.RUnlock()
	r, err := c(text)
	if err != nil || r == nil {
		return &faultRunner{expression: text, err: err}
	}
	return r
}

// faultRunner stands in for an expression that failed to compile. Every run
// reports the compile error so the evaluator can fail open.
type faultRunner struct {
	expression string
	err        error
}

func (f *faultRunner) Expression() string { return f.expression }

func (f *faultRunner) Run(map[string]any, map[string]any) (bool, error) {
	if f.err == nil {
		return false, errNilRunner
	}
	return false, f.err
}
