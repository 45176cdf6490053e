package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/commhealth/recordkit/pkg/logger"
)

// Healthz answers liveness and readiness probes with one handler.
//
// With no checks it always returns 200 "ALIVE". With checks it runs each
// against the request context and returns 200 "READY" only when all
// succeed; the first failure yields 500 "NOT_READY".
func Healthz(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
