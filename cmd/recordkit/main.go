// Recordkit validates community-health record documents against per-form
// rulesets. It serves a small HTTP API backed by a record store:
//
//	POST /records/{form}   validate a JSON document
//	GET  /records/forms    list registered forms
//	GET  /records/metrics  Prometheus exposition
//	GET  /healthz          readiness probe (pings the record store)
//
// Configuration is environment-driven; see the Config structs in
// modules/records, pkg/httpserver, and pkg/docstore.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/commhealth/recordkit/modules/records"
	"github.com/commhealth/recordkit/pkg/config"
	"github.com/commhealth/recordkit/pkg/docstore"
	"github.com/commhealth/recordkit/pkg/httpserver"
	"github.com/commhealth/recordkit/pkg/i18n"
	"github.com/commhealth/recordkit/pkg/logger"
	"github.com/commhealth/recordkit/pkg/requestid"
	"github.com/commhealth/recordkit/pkg/validation"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "recordkit:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		recCfg  records.Config
		httpCfg httpserver.Config
	)
	if err := config.Load(&recCfg); err != nil {
		return err
	}
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithProduction("recordkit"),
		logger.WithContextValue("request_id", requestid.ContextKey()),
	)

	registry, err := loadRegistry(recCfg.RulesetPath)
	if err != nil {
		return err
	}

	store, ping, err := connectStore(ctx, recCfg.StoreBackend)
	if err != nil {
		return err
	}

	validatorOpts := []validation.Option{
		validation.WithLogger(log),
		validation.WithDefaultLocale(recCfg.DefaultLocale),
	}
	if recCfg.TranslationsPath != "" {
		resolver, err := loadResolver(recCfg.TranslationsPath, recCfg.DefaultLocale)
		if err != nil {
			return err
		}
		validatorOpts = append(validatorOpts, validation.WithMessageResolver(resolver))
	}

	svc := records.NewService(
		registry,
		validation.New(store, validatorOpts...),
		records.WithLogger(log),
		records.WithMetrics(records.NewMetrics(prometheus.NewRegistry())),
	)

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.Healthz(log, ping))
	r.Mount("/records", svc.Handle())

	log.InfoContext(ctx, "recordkit starting",
		"store", recCfg.StoreBackend,
		"forms", len(registry.Forms()),
	)

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}

func loadRegistry(path string) (*records.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ruleset file: %w", err)
	}
	defer f.Close()
	return records.LoadRegistry(f)
}

func loadResolver(path, defaultLocale string) (*i18n.Resolver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open translations file: %w", err)
	}
	defer f.Close()

	translations, err := i18n.ParseYAML(f)
	if err != nil {
		return nil, err
	}
	catalog, err := i18n.NewCatalog(translations, i18n.WithDefaultLanguage(defaultLocale))
	if err != nil {
		return nil, err
	}
	return i18n.NewResolver(catalog), nil
}

// connectStore builds the configured record store and a readiness probe
// for it.
func connectStore(ctx context.Context, backend string) (validation.Store, func(context.Context) error, error) {
	switch backend {
	case "mongo":
		var cfg docstore.MongoConfig
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		col, err := docstore.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		ping := func(ctx context.Context) error {
			return col.Database().Client().Ping(ctx, nil)
		}
		return docstore.NewMongoStore(col), ping, nil

	case "opensearch":
		var cfg docstore.OpenSearchConfig
		if err := config.Load(&cfg); err != nil {
			return nil, nil, err
		}
		client, err := docstore.ConnectOpenSearch(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		ping := func(ctx context.Context) error {
			res, err := client.Info(client.Info.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return errors.New(res.Status())
			}
			return nil
		}
		return docstore.NewOpenSearchStore(client, cfg.Index), ping, nil

	default:
		return nil, nil, fmt.Errorf("unknown record store backend %q", backend)
	}
}
