package i18n

import (
	"encoding/json"
	"errors"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads a language → key → message table from YAML:
//
//	en:
//	  validation.unique_patient_id: "Patient id must be unique"
//	es:
//	  validation.unique_patient_id: "El id del paciente debe ser único"
func ParseYAML(r io.Reader) (map[string]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}

	var out map[string]map[string]string
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}
	return out, nil
}

// ParseJSON reads the same table shape from JSON.
func ParseJSON(r io.Reader) (map[string]map[string]string, error) {
	var out map[string]map[string]string
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}
	return out, nil
}
