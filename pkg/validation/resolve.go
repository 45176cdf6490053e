package validation

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// checkKind enumerates the database-backed checks a rule may invoke. The
// dispatch is a closed set resolved at compile time; adding a check means
// adding a variant here and a handler in checks.go.
type checkKind int

const (
	checkNone checkKind = iota
	checkUnique
	checkUniqueWithin
	checkExists
	checkISOWeek
)

var checkNames = map[string]checkKind{
	"unique":       checkUnique,
	"uniqueWithin": checkUniqueWithin,
	"exists":       checkExists,
	"isISOWeek":    checkISOWeek,
}

func (k checkKind) String() string {
	for name, kind := range checkNames {
		if kind == k {
			return name
		}
	}
	return "none"
}

// resolvedSpec is the output of resolution: a copy of the declared spec with
// Property possibly rewritten onto a synthetic name, plus the detected check.
type resolvedSpec struct {
	Spec
	// field is the original property name when the rule invokes a check.
	field string
	kind  checkKind
	args  []any
}

// resolve parses every rule and rewrites specs that invoke a check. The
// input specs are copied, never mutated. Parse failures are collected across
// the whole batch and returned together as a *RuleError.
func resolve(specs []Spec) ([]resolvedSpec, error) {
	resolved := make([]resolvedSpec, 0, len(specs))
	var failures []string

	for _, spec := range specs {
		rs := resolvedSpec{Spec: spec}

		tree, err := parser.Parse(spec.Rule)
		if err != nil {
			failures = append(failures, fmt.Sprintf("rule %q on property %q: %v", spec.Rule, spec.Property, err))
			continue
		}

		v := &checkVisitor{}
		ast.Walk(&tree.Node, v)
		if len(v.failures) > 0 {
			for _, f := range v.failures {
				failures = append(failures, fmt.Sprintf("rule %q on property %q: %s", spec.Rule, spec.Property, f))
			}
			continue
		}

		// The suffix guard keeps resolution idempotent: a property that
		// already carries the synthetic suffix is left alone.
		if v.kind != checkNone && !strings.HasSuffix(rs.Property, "_"+v.name) {
			rs.field = rs.Property
			rs.kind = v.kind
			rs.args = v.args
			rs.Property = rs.Property + "_" + v.name
		}

		resolved = append(resolved, rs)
	}

	if len(failures) > 0 {
		return nil, &RuleError{Errors: failures}
	}
	return resolved, nil
}

// checkVisitor scans a rule AST for calls to registered check names and
// captures the first match with its constant arguments.
type checkVisitor struct {
	kind     checkKind
	name     string
	args     []any
	failures []string
}

func (v *checkVisitor) Visit(node *ast.Node) {
	call, ok := (*node).(*ast.CallNode)
	if !ok {
		return
	}
	ident, ok := call.Callee.(*ast.IdentifierNode)
	if !ok {
		return
	}
	kind, ok := checkNames[ident.Value]
	if !ok {
		return
	}

	// Grammar rules and checks cannot combine: one check per rule.
	if v.kind != checkNone {
		v.failures = append(v.failures, fmt.Sprintf("multiple checks in one rule: %s and %s", v.name, ident.Value))
		return
	}

	args := make([]any, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, ok := constValue(arg)
		if !ok {
			v.failures = append(v.failures, fmt.Sprintf("check %s: argument %v is not a constant", ident.Value, arg))
			return
		}
		args = append(args, val)
	}

	v.kind = kind
	v.name = ident.Value
	v.args = args
}

func constValue(n ast.Node) (any, bool) {
	switch node := n.(type) {
	case *ast.StringNode:
		return node.Value, true
	case *ast.IntegerNode:
		return node.Value, true
	case *ast.FloatNode:
		return node.Value, true
	case *ast.BoolNode:
		return node.Value, true
	}
	return nil, false
}

// specsOf projects the (rewritten) Spec values back out of resolved specs,
// for message and rule map construction.
func specsOf(resolved []resolvedSpec) []Spec {
	specs := make([]Spec, len(resolved))
	for i, rs := range resolved {
		specs[i] = rs.Spec
	}
	return specs
}
