// Package cel filters container entries with CEL (Common Expression Language) predicates.
package cel

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"

	"github.com/sharedcode/ordtree"
)

// Filter holds a compiled boolean CEL expression over the variables "key" and "value"
// of an entry, e.g. `value.startsWith("a") && key > "k10"`.
type Filter struct {
	Expression string
	program    cel.Program
}

// NewFilter compiles expression. It fails if the expression does not type check or is
// not boolean.
func NewFilter(expression string) (*Filter, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression can't be empty string")
	}

	env, err := cel.NewEnv(
		cel.Variable("key", cel.DynType),
		cel.Variable("value", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error compiling CEL expression: %w", issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(types.BoolType) && !t.IsExactType(types.DynType) {
		return nil, fmt.Errorf("CEL expression must be boolean, got %v", t)
	}
	p, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error creating Program: %w", err)
	}
	return &Filter{
		Expression: expression,
		program:    p,
	}, nil
}

// Match evaluates the expression against one entry.
func (f *Filter) Match(key, value any) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"key":   key,
		"value": value,
	})
	if err != nil {
		return false, fmt.Errorf("error evaluating CEL expression: %w", err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("CEL expression returned %v, not a bool", out.Type())
	}
	return bool(b), nil
}

// Apply returns the pairs matching f, in their original order.
func Apply[TK any, TV any](f *Filter, pairs []ordtree.KeyValuePair[TK, TV]) ([]ordtree.KeyValuePair[TK, TV], error) {
	r := make([]ordtree.KeyValuePair[TK, TV], 0, len(pairs))
	for _, p := range pairs {
		ok, err := f.Match(p.Key, p.Value)
		if err != nil {
			return nil, err
		}
		if ok {
			r = append(r, p)
		}
	}
	return r, nil
}
