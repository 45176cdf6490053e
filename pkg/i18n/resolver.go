package i18n

import (
	"github.com/commhealth/recordkit/pkg/validation"
)

// Resolver adapts a Catalog to the validation pipeline's message contract.
// A spec's inline translation list wins; the catalog key is the fallback,
// then any inline message at all.
type Resolver struct {
	catalog *Catalog
}

// NewResolver wraps a catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Message implements validation.MessageResolver.
func (r *Resolver) Message(spec validation.Spec, locale string) string {
	if msg, ok := spec.Translation(locale); ok {
		return msg
	}
	if r.catalog != nil && spec.TranslationKey != "" {
		if msg, ok := r.catalog.Lookup(spec.TranslationKey, locale); ok {
			return msg
		}
	}
	if len(spec.Translations) > 0 {
		return spec.Translations[0].Content
	}
	return ""
}
