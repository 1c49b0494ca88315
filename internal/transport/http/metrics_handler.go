package http

import (
	"net/http"

	apierrors "creditdensity/internal/errors"
)

// MetricsHandler exposes the Prometheus scrape endpoint
type MetricsHandler struct {
	prometheus http.Handler
}

// NewMetricsHandler wraps the exporter handler; nil means metrics are
// disabled and the endpoint answers 404.
func NewMetricsHandler(prometheus http.Handler) *MetricsHandler {
	return &MetricsHandler{prometheus: prometheus}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		apierrors.WriteProblem(w, apierrors.NewProblemDetails(
			http.StatusNotFound,
			apierrors.TypeNotFound,
			"Not Found",
			"Metrics export is disabled",
			r.URL.Path,
		))
		return
	}
	h.prometheus.ServeHTTP(w, r)
}
