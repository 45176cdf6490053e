// Package i18n resolves localized validation messages.
//
// A Catalog maps translation keys to messages per language, loaded from YAML
// or JSON sources. Locale matching uses golang.org/x/text so that requests
// for "en-GB" find "en" catalogs and regional variants degrade gracefully.
//
//	data, _ := os.Open("translations.yml")
//	translations, _ := i18n.ParseYAML(data)
//	catalog, _ := i18n.NewCatalog(translations, i18n.WithDefaultLanguage("en"))
//	msg, ok := catalog.Lookup("validation.unique_patient_id", "es-MX")
//
// Resolver adapts a Catalog to the validation pipeline's message contract:
// a spec's inline translation list wins, the catalog key is the fallback.
package i18n
