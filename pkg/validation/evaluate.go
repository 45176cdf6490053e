package validation

import (
	"errors"
	"fmt"
	"maps"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/commhealth/recordkit/pkg/lru"
)

// flatten merges a document's own attributes with its fields sub-map into a
// single attribute map. The document is copied first, fields second: a key
// present in both resolves to the fields value.
func flatten(doc map[string]any) map[string]any {
	attrs := make(map[string]any, len(doc))
	maps.Copy(attrs, doc)
	if fields, ok := doc["fields"].(map[string]any); ok {
		maps.Copy(attrs, fields)
	}
	return attrs
}

// evaluator compiles and runs rule expressions. Compiled programs are cached
// by rule source since the same ruleset is applied to every incoming
// document of a form.
type evaluator struct {
	cache *lru.Cache[string, *vm.Program]
}

func newEvaluator(cacheSize int) *evaluator {
	return &evaluator{cache: lru.New[string, *vm.Program](cacheSize)}
}

// compileOptions binds every check name as an always-true stub so that a
// rule invoking a check evaluates valid synchronously; the check stage
// downgrades the result afterwards.
func compileOptions() []expr.Option {
	opts := []expr.Option{
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	}
	for name := range checkNames {
		opts = append(opts, expr.Function(name, func(...any) (any, error) {
			return true, nil
		}))
	}
	return opts
}

// evaluate runs every resolved rule against the attribute map and returns
// the initial ResultSet in declaration order. Any compile or runtime failure
// aborts evaluation.
func (e *evaluator) evaluate(resolved []resolvedSpec, attrs map[string]any) (*ResultSet, error) {
	results := newResultSet()
	for _, rs := range resolved {
		ok, err := e.evalRule(rs.Rule, attrs)
		if err != nil {
			return nil, errors.Join(ErrRuleEvaluation,
				fmt.Errorf("rule %q on property %q: %w", rs.Rule, rs.Property, err))
		}
		results.set(rs.Property, ok)
	}
	return results, nil
}

func (e *evaluator) evalRule(rule string, attrs map[string]any) (bool, error) {
	prog, ok := e.cache.Get(rule)
	if !ok {
		var err error
		prog, err = expr.Compile(rule, compileOptions()...)
		if err != nil {
			return false, err
		}
		e.cache.Put(rule, prog)
	}

	out, err := expr.Run(prog, attrs)
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("rule result is %T, not bool", out)
	}
	return result, nil
}
