// Package records composes the validation pipeline into the platform-facing
// record intake module: per-form validation rulesets loaded from YAML, a
// service running incoming documents through the pipeline, an HTTP surface
// for gateway adapters, and Prometheus counters.
//
//	registry, _ := records.LoadRegistry(rulesetFile)
//	svc := records.NewService(registry, validator, records.WithLogger(log))
//	r := chi.NewRouter()
//	r.Mount("/records", svc.Handle())
package records
