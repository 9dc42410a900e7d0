package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"telegram-channel-access/internal/infra/metrics"
)

// NewOpsHandler exposes liveness and Prometheus metrics. Registration of
// all collectors happens here, exactly once.
func NewOpsHandler() http.Handler {
	metrics.MustRegister()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
