package records

import "errors"

var (
	ErrUnknownForm      = errors.New("records: unknown form")
	ErrRulesetMalformed = errors.New("records: malformed ruleset file")
)
