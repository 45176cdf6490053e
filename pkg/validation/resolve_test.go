package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRewritesCheckCalls(t *testing.T) {
	t.Parallel()

	specs := []Spec{
		{Property: "patient_id", Rule: `unique("patient_id")`},
		{Property: "patient_id", Rule: `patient_id != ""`},
	}

	resolved, err := resolve(specs)
	require.NoError(t, err)
	require.Len(t, resolved, 2)

	assert.Equal(t, "patient_id_unique", resolved[0].Property)
	assert.Equal(t, "patient_id", resolved[0].field)
	assert.Equal(t, checkUnique, resolved[0].kind)
	assert.Equal(t, []any{"patient_id"}, resolved[0].args)

	// The sibling grammar rule keeps its own result slot untouched.
	assert.Equal(t, "patient_id", resolved[1].Property)
	assert.Equal(t, checkNone, resolved[1].kind)

	// The input specs were not mutated.
	assert.Equal(t, "patient_id", specs[0].Property)
}

func TestResolveCapturesArgs(t *testing.T) {
	t.Parallel()

	resolved, err := resolve([]Spec{
		{Property: "patient_id", Rule: `uniqueWithin("patient_id", "7 days")`},
		{Property: "week", Rule: `isISOWeek("week", "year")`},
		{Property: "patient_id", Rule: `exists("REGISTRATION")`},
	})
	require.NoError(t, err)

	assert.Equal(t, checkUniqueWithin, resolved[0].kind)
	assert.Equal(t, []any{"patient_id", "7 days"}, resolved[0].args)

	assert.Equal(t, checkISOWeek, resolved[1].kind)
	assert.Equal(t, "week_isISOWeek", resolved[1].Property)

	assert.Equal(t, checkExists, resolved[2].kind)
	assert.Equal(t, "patient_id_exists", resolved[2].Property)
	assert.Equal(t, "patient_id", resolved[2].field)
}

func TestResolveIdempotent(t *testing.T) {
	t.Parallel()

	specs := []Spec{{Property: "patient_id", Rule: `unique("patient_id")`}}

	first, err := resolve(specs)
	require.NoError(t, err)

	// Resolving the already-rewritten specs must not suffix again.
	second, err := resolve(specsOf(first))
	require.NoError(t, err)

	assert.Equal(t, first[0].Property, second[0].Property)
	assert.Equal(t, "patient_id_unique", second[0].Property)
}

func TestResolveCollectsParseFailures(t *testing.T) {
	t.Parallel()

	_, err := resolve([]Spec{
		{Property: "a", Rule: `a != ""`},
		{Property: "b", Rule: `b ==`},
		{Property: "c", Rule: `(((`},
	})
	require.Error(t, err)

	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Len(t, ruleErr.Errors, 2)
}

func TestResolveRejectsMultipleChecksInOneRule(t *testing.T) {
	t.Parallel()

	_, err := resolve([]Spec{
		{Property: "patient_id", Rule: `unique("patient_id") and exists("REGISTRATION")`},
	})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Errors[0], "multiple checks")
}

func TestResolveRejectsNonConstantArgs(t *testing.T) {
	t.Parallel()

	_, err := resolve([]Spec{
		{Property: "patient_id", Rule: `unique(patient_id)`},
	})
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Contains(t, ruleErr.Errors[0], "not a constant")
}
