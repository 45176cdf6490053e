package validation

import "strings"

// Spec is one declared validation rule for a document property.
type Spec struct {
	// Property is the document field the rule targets.
	Property string `yaml:"property" json:"property"`
	// Rule is the expression source evaluated against the document.
	Rule string `yaml:"rule" json:"rule"`
	// TranslationKey selects a catalog message for failures of this rule.
	TranslationKey string `yaml:"translation_key,omitempty" json:"translation_key,omitempty"`
	// Translations carries inline localized messages; they take precedence
	// over the catalog key.
	Translations []Message `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// Message is a localized inline failure message.
type Message struct {
	Locale  string `yaml:"locale" json:"locale"`
	Content string `yaml:"content" json:"content"`
}

// Translation returns the inline message for locale. Exact locale matches
// win; a base-language match ("es" for "es-MX") is the fallback.
func (s Spec) Translation(locale string) (string, bool) {
	for _, m := range s.Translations {
		if m.Locale == locale {
			return m.Content, true
		}
	}
	base, _, _ := strings.Cut(locale, "-")
	if base != locale {
		for _, m := range s.Translations {
			if m.Locale == base {
				return m.Content, true
			}
		}
	}
	return "", false
}

// Error describes one failed property of a validated document.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// MessageResolver resolves the localized failure message for a spec.
type MessageResolver interface {
	Message(spec Spec, locale string) string
}

// inlineResolver resolves messages from the spec's inline translation list
// only. It is the default when no catalog-backed resolver is configured.
type inlineResolver struct{}

func (inlineResolver) Message(spec Spec, locale string) string {
	if msg, ok := spec.Translation(locale); ok {
		return msg
	}
	if len(spec.Translations) > 0 {
		return spec.Translations[0].Content
	}
	return ""
}

// ResultSet is the per-property validity map shared between the synchronous
// and asynchronous stages. Iteration order is insertion order. Once a
// property is false it stays false.
type ResultSet struct {
	order []string
	valid map[string]bool
}

func newResultSet() *ResultSet {
	return &ResultSet{valid: make(map[string]bool)}
}

// NewResultSet creates an empty ResultSet for callers composing the pipeline
// stages themselves.
func NewResultSet() *ResultSet {
	return newResultSet()
}

// Set records the validity of a property. A property already marked false is
// never upgraded.
func (r *ResultSet) Set(property string, valid bool) {
	r.set(property, valid)
}

// set records the initial validity of a property. A property already marked
// false is never upgraded.
func (r *ResultSet) set(property string, ok bool) {
	if _, seen := r.valid[property]; !seen {
		r.order = append(r.order, property)
		r.valid[property] = ok
		return
	}
	if !ok {
		r.valid[property] = false
	}
}

// Fail downgrades a property to invalid.
func (r *ResultSet) Fail(property string) {
	r.set(property, false)
}

// Get returns the validity of property and whether it is present.
func (r *ResultSet) Get(property string) (valid, present bool) {
	v, ok := r.valid[property]
	return v, ok
}

// Properties returns the property names in insertion order.
func (r *ResultSet) Properties() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Fields returns a copy of the validity map.
func (r *ResultSet) Fields() map[string]bool {
	out := make(map[string]bool, len(r.valid))
	for k, v := range r.valid {
		out[k] = v
	}
	return out
}

// Len returns the number of properties in the set.
func (r *ResultSet) Len() int {
	return len(r.order)
}
