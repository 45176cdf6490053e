package validation

import (
	"context"
	"io"
	"log/slog"
	"time"
)

const defaultRuleCacheSize = 256

// Validator runs the validation pipeline against record documents. It is
// safe for concurrent use: all per-call state is request-scoped.
type Validator struct {
	store         Store
	log           *slog.Logger
	resolver      MessageResolver
	defaultLocale string
	now           func() time.Time
	cacheSize     int
	eval          *evaluator
}

// Option configures a Validator.
type Option func(*Validator)

func WithLogger(log *slog.Logger) Option {
	return func(v *Validator) {
		if log != nil {
			v.log = log
		}
	}
}

// WithMessageResolver sets the resolver for localized failure messages. The
// default reads only the specs' inline translation lists.
func WithMessageResolver(r MessageResolver) Option {
	return func(v *Validator) {
		if r != nil {
			v.resolver = r
		}
	}
}

// WithDefaultLocale sets the locale used when the document carries none.
func WithDefaultLocale(locale string) Option {
	return func(v *Validator) {
		if locale != "" {
			v.defaultLocale = locale
		}
	}
}

// WithClock overrides the time source consulted by uniqueWithin and
// isISOWeek. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithRuleCacheSize bounds the compiled-rule cache.
func WithRuleCacheSize(size int) Option {
	return func(v *Validator) {
		if size > 0 {
			v.cacheSize = size
		}
	}
}

// New creates a Validator reading from store.
func New(store Store, opts ...Option) *Validator {
	v := &Validator{
		store:         store,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		resolver:      inlineResolver{},
		defaultLocale: "en",
		now:           time.Now,
		cacheSize:     defaultRuleCacheSize,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.eval = newEvaluator(v.cacheSize)
	return v
}

// Validate runs every spec against doc and returns the list of failed
// properties, empty when the document is valid. Properties named in ignores
// are treated as valid regardless of their result.
//
// A non-nil error means the call could not complete: unparseable rules
// (*RuleError), a rule evaluation failure, or a store failure during a
// check. No partial error list is returned in that case.
func (v *Validator) Validate(ctx context.Context, doc map[string]any, specs []Spec, ignores ...string) ([]Error, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	resolved, err := resolve(specs)
	if err != nil {
		return nil, err
	}

	attrs := flatten(doc)

	results, err := v.eval.evaluate(resolved, attrs)
	if err != nil {
		return nil, err
	}

	// Checks run strictly one at a time, in declaration order: they share
	// the record read path, and load ordering is only consistent under
	// sequential access. The first failure aborts the rest.
	for _, rs := range resolved {
		if rs.kind == checkNone {
			continue
		}
		ok, err := v.runCheck(ctx, attrs, rs)
		if err != nil {
			v.log.ErrorContext(ctx, "validation check failed",
				"check", rs.kind.String(),
				"property", rs.Property,
				slog.Any("error", err),
			)
			return nil, err
		}
		if !ok {
			results.Fail(rs.Property)
		}
	}

	messages := Messages(specsOf(resolved), v.resolver, v.locale(doc))
	return ExtractErrors(results, messages, ignores...), nil
}

// locale picks the document's own locale attribute when present.
func (v *Validator) locale(doc map[string]any) string {
	if s, ok := doc["locale"].(string); ok && s != "" {
		return s
	}
	return v.defaultLocale
}

// Rules builds the property → rule source map for a spec list.
func Rules(specs []Spec) map[string]string {
	rules := make(map[string]string, len(specs))
	for _, s := range specs {
		if s.Property == "" {
			continue
		}
		rules[s.Property] = s.Rule
	}
	return rules
}

// Messages builds the property → localized message map for every spec that
// declares a property and either inline translations or a translation key.
func Messages(specs []Spec, resolver MessageResolver, locale string) map[string]string {
	if resolver == nil {
		resolver = inlineResolver{}
	}
	messages := make(map[string]string, len(specs))
	for _, s := range specs {
		if s.Property == "" {
			continue
		}
		if s.TranslationKey == "" && len(s.Translations) == 0 {
			continue
		}
		if msg := resolver.Message(s, locale); msg != "" {
			messages[s.Property] = msg
		}
	}
	return messages
}

// ExtractErrors reduces a ResultSet to the final error list: one error per
// property that is false and not ignored, in ResultSet order.
func ExtractErrors(results *ResultSet, messages map[string]string, ignores ...string) []Error {
	ignored := make(map[string]struct{}, len(ignores))
	for _, name := range ignores {
		ignored[name] = struct{}{}
	}

	var errs []Error
	for _, property := range results.Properties() {
		if valid, _ := results.Get(property); valid {
			continue
		}
		if _, skip := ignored[property]; skip {
			continue
		}
		errs = append(errs, Error{
			Code:    "invalid_" + property,
			Message: messages[property],
		})
	}
	return errs
}
