package docstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	t.Parallel()

	t.Run("lower-cases and trims the value", func(t *testing.T) {
		assert.Equal(t, "patient_id:abc123", Key("patient_id", " ABC123 "))
	})

	t.Run("stringifies non-string values", func(t *testing.T) {
		assert.Equal(t, "week:7", Key("week", 7))
	})

	t.Run("form tag key", func(t *testing.T) {
		assert.Equal(t, "form:preg", FormKey("PREG"))
	})
}

func TestDocHasErrors(t *testing.T) {
	t.Parallel()

	assert.False(t, Doc{}.HasErrors())
	assert.True(t, Doc{Errors: []Fault{{Code: "sys.missing_fields"}}}.HasErrors())
}

func TestSearchResponseRows(t *testing.T) {
	t.Parallel()

	raw := `{"hits":{"hits":[{"_id":"a"},{"_id":"b"}]}}`
	var parsed searchResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))
	assert.Equal(t, []Row{{ID: "a"}, {ID: "b"}}, parsed.rows())
}

func TestMgetResponseDocs(t *testing.T) {
	t.Parallel()

	raw := `{"docs":[
		{"_id":"a","found":true,"_source":{"form":"PREG","reported_date":1440000000000,"fields":{"patient_id":"x"}}},
		{"_id":"b","found":false},
		{"_id":"c","found":true,"_source":{"form":"PREG","reported_date":0,"errors":[{"code":"sys.missing_fields"}]}}
	]}`
	var parsed mgetResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &parsed))

	docs := parsed.docs()
	require.Len(t, docs, 2)

	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "PREG", docs[0].Form)
	assert.Equal(t, time.UnixMilli(1440000000000).UTC(), docs[0].ReportedDate)
	assert.Equal(t, "x", docs[0].Fields["patient_id"])
	assert.False(t, docs[0].HasErrors())

	assert.Equal(t, "c", docs[1].ID)
	assert.True(t, docs[1].HasErrors())
}
