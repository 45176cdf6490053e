package records_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhealth/recordkit/modules/records"
)

const rulesetYAML = `
forms:
  PREG:
    validations:
      - property: patient_id
        rule: unique("patient_id")
        translation_key: validation.unique_patient_id
      - property: week
        rule: isISOWeek("week")
        messages:
          - locale: en
            content: "Week must be a valid ISO week"
      - property: secondary_contact
        rule: secondary_contact == "set"
    ignores:
      - secondary_contact
  STCK:
    validations:
      - property: quantity
        rule: int(quantity) > 0
`

func TestLoadRegistry(t *testing.T) {
	t.Parallel()

	registry, err := records.LoadRegistry(strings.NewReader(rulesetYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"PREG", "STCK"}, registry.Forms())

	specs, ignores, ok := registry.Ruleset("PREG")
	require.True(t, ok)
	require.Len(t, specs, 3)
	assert.Equal(t, "patient_id", specs[0].Property)
	assert.Equal(t, `unique("patient_id")`, specs[0].Rule)
	assert.Equal(t, "validation.unique_patient_id", specs[0].TranslationKey)
	assert.Equal(t, "Week must be a valid ISO week", specs[1].Translations[0].Content)
	assert.Equal(t, []string{"secondary_contact"}, ignores)

	_, _, ok = registry.Ruleset("NOPE")
	assert.False(t, ok)
}

func rulesetReader(t *testing.T) *strings.Reader {
	t.Helper()
	return strings.NewReader(rulesetYAML)
}

func TestLoadRegistryRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := records.LoadRegistry(strings.NewReader(":\tnot yaml"))
	assert.ErrorIs(t, err, records.ErrRulesetMalformed)

	_, err = records.LoadRegistry(strings.NewReader("forms: {}"))
	assert.ErrorIs(t, err, records.ErrRulesetMalformed)
}
