package i18n

import (
	"errors"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no option overrides it and a requested locale
// cannot be matched.
const DefaultLanguage = "en"

// Catalog holds translation-key → message tables per language and answers
// lookups with locale matching.
type Catalog struct {
	translations map[string]map[string]string
	langs        []string
	matcher      language.Matcher
	defaultLang  string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithDefaultLanguage sets the language used when a requested locale matches
// nothing in the catalog.
func WithDefaultLanguage(lang string) Option {
	return func(c *Catalog) {
		if lang != "" {
			c.defaultLang = lang
		}
	}
}

// NewCatalog builds a Catalog from a language → key → message map.
func NewCatalog(translations map[string]map[string]string, opts ...Option) (*Catalog, error) {
	if len(translations) == 0 {
		return nil, ErrNoTranslations
	}

	c := &Catalog{
		translations: translations,
		defaultLang:  DefaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}

	tags := make([]language.Tag, 0, len(translations))
	for lang := range translations {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, errors.Join(ErrInvalidLanguage, err)
		}
		c.langs = append(c.langs, lang)
		tags = append(tags, tag)
	}
	c.matcher = language.NewMatcher(tags)

	return c, nil
}

// Languages returns the language codes present in the catalog.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.langs))
	copy(out, c.langs)
	return out
}

// Lookup returns the message stored under key for the best-matching language
// of locale, falling back to the default language. The second return value
// is false when no language carries the key.
func (c *Catalog) Lookup(key, locale string) (string, bool) {
	lang := c.match(locale)

	if msg, ok := c.translations[lang][key]; ok {
		return msg, true
	}
	if lang != c.defaultLang {
		if msg, ok := c.translations[c.defaultLang][key]; ok {
			return msg, true
		}
	}
	return "", false
}

// match maps a requested locale onto a catalog language, defaulting when the
// locale is empty, malformed, or matches nothing.
func (c *Catalog) match(locale string) string {
	if locale == "" {
		return c.defaultLang
	}
	requested, err := language.Parse(locale)
	if err != nil {
		return c.defaultLang
	}
	_, idx, conf := c.matcher.Match(requested)
	if conf == language.No {
		return c.defaultLang
	}
	return c.langs[idx]
}
