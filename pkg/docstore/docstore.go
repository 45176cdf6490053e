package docstore

import (
	"fmt"
	"strings"
	"time"
)

// ViewRecordsByKey is the attribute index consulted by keyed lookups.
// Every record emits one key per indexed attribute plus a form tag key.
const ViewRecordsByKey = "records/by_search_key"

// Row is a single attribute-index hit.
type Row struct {
	ID string
}

// Fault is a recorded processing error on a document. Documents with faults
// are excluded from uniqueness and existence comparisons.
type Fault struct {
	Code    string `bson:"code" json:"code"`
	Message string `bson:"message,omitempty" json:"message,omitempty"`
}

// Doc is a stored record in the shape the validation checks inspect.
type Doc struct {
	ID           string         `bson:"_id" json:"_id"`
	Form         string         `bson:"form" json:"form"`
	ReportedDate time.Time      `bson:"reported_date" json:"-"`
	Errors       []Fault        `bson:"errors,omitempty" json:"errors,omitempty"`
	Fields       map[string]any `bson:"fields,omitempty" json:"fields,omitempty"`
}

// HasErrors reports whether the document carries recorded faults.
func (d Doc) HasErrors() bool {
	return len(d.Errors) > 0
}

// Key builds an attribute-index key from a field name and its value.
// Values are stringified, trimmed and lower-cased so lookups are
// case-insensitive.
func Key(field string, value any) string {
	return field + ":" + strings.ToLower(strings.TrimSpace(fmt.Sprint(value)))
}

// FormKey builds the form tag key used as an additional filter term by
// cross-form existence checks.
func FormKey(form string) string {
	return Key("form", form)
}
