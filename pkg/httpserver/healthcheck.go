package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/localemux/pkg/logger"
)

// Check is a named readiness dependency.
type Check struct {
	Name string
	Func func(context.Context) error
}

// HealthCheckHandler returns a HTTP handler that can be used for both
// liveness and readiness probes.
//
//   - Liveness: with no checks the handler returns 200 OK with body "ALIVE".
//   - Readiness: every check runs against the request context; if they all
//     succeed the handler returns 200 OK with body "READY", otherwise 503
//     Service Unavailable with body "NOT_READY".
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, c := range checks {
			if err := c.Func(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					slog.String("check", c.Name),
					logger.Error(err),
				)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
