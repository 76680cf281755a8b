// Package httptransport assembles the HTTP surface: middleware chain, the
// message API, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"formdesk/internal/message/handler"
	"formdesk/internal/platform/middleware"
)

// NewRouter wires the middleware chain and mounts every endpoint. The
// Prometheus and health endpoints bypass auth.
func NewRouter(messages *handler.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	messages.Register(r)

	return r
}
