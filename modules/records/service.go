package records

import (
	"context"
	"io"
	"log/slog"

	"github.com/commhealth/recordkit/pkg/validation"
)

// Config carries the module's environment settings.
type Config struct {
	RulesetPath      string `env:"RECORDS_RULESET_PATH" envDefault:"rulesets.yml"` // Per-form validation ruleset file.
	TranslationsPath string `env:"RECORDS_TRANSLATIONS_PATH"`                      // Optional message catalog file.
	DefaultLocale    string `env:"RECORDS_DEFAULT_LOCALE" envDefault:"en"`         // Locale for documents that carry none.
	StoreBackend     string `env:"RECORDS_STORE" envDefault:"mongo"`               // Record store backend: mongo or opensearch.
}

// Service validates incoming record documents against their form's declared
// ruleset.
type Service struct {
	registry  *Registry
	validator *validation.Validator
	log       *slog.Logger
	metrics   *Metrics
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics attaches the module's Prometheus collectors.
func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService wires a form registry and a validator into the intake service.
func NewService(registry *Registry, validator *validation.Validator, opts ...ServiceOption) *Service {
	s := &Service{
		registry:  registry,
		validator: validator,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateRecord runs doc through the ruleset declared for form. It returns
// ErrUnknownForm for unregistered forms; any other error is a system fault
// from the pipeline. An empty error list means the document is valid.
func (s *Service) ValidateRecord(ctx context.Context, form string, doc map[string]any) ([]validation.Error, error) {
	specs, ignores, ok := s.registry.Ruleset(form)
	if !ok {
		return nil, ErrUnknownForm
	}

	errs, err := s.validator.Validate(ctx, doc, specs, ignores...)
	if err != nil {
		s.log.ErrorContext(ctx, "record validation aborted", "form", form, slog.Any("error", err))
		if s.metrics != nil {
			s.metrics.observeFailure(form)
		}
		return nil, err
	}

	s.log.DebugContext(ctx, "record validated", "form", form, "failed_properties", len(errs))
	if s.metrics != nil {
		s.metrics.observe(form, len(errs))
	}
	return errs, nil
}
