package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRuleEvaluation wraps a compile or runtime failure of a rule
	// expression. Fatal to the whole Validate call.
	ErrRuleEvaluation = errors.New("validation: rule evaluation failed")

	// ErrBadCheckArgs is returned when a check is invoked with arguments of
	// the wrong arity or type.
	ErrBadCheckArgs = errors.New("validation: invalid check arguments")

	// ErrBadWindow is returned when a uniqueWithin window string cannot be
	// parsed.
	ErrBadWindow = errors.New("validation: invalid time window")
)

// RuleError aggregates every rule that failed to parse in a batch. No
// field-level validation happens when any rule is unparseable.
type RuleError struct {
	Errors []string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("validation: %d rule(s) failed to parse: %s",
		len(e.Errors), strings.Join(e.Errors, "; "))
}
