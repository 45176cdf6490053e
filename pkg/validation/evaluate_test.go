package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	t.Run("merges fields over the document", func(t *testing.T) {
		doc := map[string]any{
			"form": "PREG",
			"week": "10",
			"fields": map[string]any{
				"week":       "12",
				"patient_id": "abc",
			},
		}
		attrs := flatten(doc)
		assert.Equal(t, "12", attrs["week"], "fields value wins on conflict")
		assert.Equal(t, "abc", attrs["patient_id"])
		assert.Equal(t, "PREG", attrs["form"])
	})

	t.Run("document without fields", func(t *testing.T) {
		attrs := flatten(map[string]any{"week": "10"})
		assert.Equal(t, map[string]any{"week": "10"}, attrs)
	})

	t.Run("does not mutate the document", func(t *testing.T) {
		doc := map[string]any{"week": "10", "fields": map[string]any{"week": "12"}}
		_ = flatten(doc)
		assert.Equal(t, "10", doc["week"])
	})
}

func mustResolve(t *testing.T, specs []Spec) []resolvedSpec {
	t.Helper()
	resolved, err := resolve(specs)
	require.NoError(t, err)
	return resolved
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("per-property boolean results in declaration order", func(t *testing.T) {
		e := newEvaluator(16)
		resolved := mustResolve(t, []Spec{
			{Property: "patient_id", Rule: `patient_id != ""`},
			{Property: "week", Rule: `int(week) >= 1 and int(week) <= 53`},
			{Property: "name", Rule: `len(name) > 2`},
		})
		results, err := e.evaluate(resolved, map[string]any{
			"patient_id": "abc",
			"week":       "60",
			"name":       "Ada",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"patient_id", "week", "name"}, results.Properties())
		assert.Equal(t, map[string]bool{"patient_id": true, "week": false, "name": true}, results.Fields())
	})

	t.Run("check calls evaluate valid synchronously", func(t *testing.T) {
		e := newEvaluator(16)
		resolved := mustResolve(t, []Spec{
			{Property: "patient_id", Rule: `unique("patient_id")`},
		})
		results, err := e.evaluate(resolved, map[string]any{"patient_id": "abc"})
		require.NoError(t, err)

		valid, present := results.Get("patient_id_unique")
		require.True(t, present)
		assert.True(t, valid, "the check stage decides, not the stub")
	})

	t.Run("non-boolean rule result is an evaluation error", func(t *testing.T) {
		e := newEvaluator(16)
		resolved := mustResolve(t, []Spec{
			{Property: "patient_id", Rule: `patient_id`},
		})
		_, err := e.evaluate(resolved, map[string]any{"patient_id": "abc"})
		assert.ErrorIs(t, err, ErrRuleEvaluation)
	})

	t.Run("compiled programs are cached by rule source", func(t *testing.T) {
		e := newEvaluator(16)
		resolved := mustResolve(t, []Spec{
			{Property: "a", Rule: `a != ""`},
			{Property: "b", Rule: `b != ""`},
		})
		attrs := map[string]any{"a": "x", "b": "y"}

		_, err := e.evaluate(resolved, attrs)
		require.NoError(t, err)
		_, err = e.evaluate(resolved, attrs)
		require.NoError(t, err)

		assert.Equal(t, 2, e.cache.Len())
	})
}

func TestResultSetMonotonic(t *testing.T) {
	t.Parallel()

	r := newResultSet()
	r.set("a", true)
	r.set("a", false)
	r.set("a", true) // a later true must not resurrect the property

	valid, present := r.Get("a")
	require.True(t, present)
	assert.False(t, valid)
	assert.Equal(t, 1, r.Len())
}
