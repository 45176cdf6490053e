package records

import (
	"errors"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/commhealth/recordkit/pkg/validation"
)

// Registry holds the validation ruleset declared for each form code.
type Registry struct {
	forms map[string]formRuleset
}

type formRuleset struct {
	Validations []validation.Spec `yaml:"validations"`
	Ignores     []string          `yaml:"ignores"`
}

type rulesetFile struct {
	Forms map[string]formRuleset `yaml:"forms"`
}

// LoadRegistry reads a per-form ruleset file:
//
//	forms:
//	  PREG:
//	    validations:
//	      - property: patient_id
//	        rule: unique("patient_id")
//	        translation_key: validation.unique_patient_id
//	    ignores:
//	      - secondary_contact
func LoadRegistry(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrRulesetMalformed, err)
	}

	var file rulesetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrRulesetMalformed, err)
	}
	if len(file.Forms) == 0 {
		return nil, errors.Join(ErrRulesetMalformed, errors.New("no forms declared"))
	}

	return &Registry{forms: file.Forms}, nil
}

// NewRegistry builds a registry directly from spec lists, mainly for tests
// and embedded configuration.
func NewRegistry(forms map[string][]validation.Spec) *Registry {
	out := make(map[string]formRuleset, len(forms))
	for code, specs := range forms {
		out[code] = formRuleset{Validations: specs}
	}
	return &Registry{forms: out}
}

// Ruleset returns the validations and ignore list declared for a form.
func (r *Registry) Ruleset(form string) (specs []validation.Spec, ignores []string, ok bool) {
	rs, ok := r.forms[form]
	if !ok {
		return nil, nil, false
	}
	return rs.Validations, rs.Ignores, true
}

// Forms returns the registered form codes, sorted.
func (r *Registry) Forms() []string {
	codes := make([]string, 0, len(r.forms))
	for code := range r.forms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
