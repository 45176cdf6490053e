// Package httpserver runs the service's HTTP listener with graceful
// shutdown.
//
// The server stops on context cancellation or on SIGINT/SIGTERM, draining
// in-flight requests within a configurable timeout. Health endpoints are
// provided by Healthz: a bare handler answers liveness, and readiness
// checks (store pings and the like) can be attached per probe.
//
// Usage:
//
//	cfg := httpserver.Config{Addr: ":8080"}
//	srv := httpserver.New(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, handler); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
