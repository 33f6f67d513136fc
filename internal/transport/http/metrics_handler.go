package http

import (
	"net/http"
)

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	prometheus http.Handler
}

// NewMetricsHandler wraps the Prometheus exporter handler. A nil
// handler answers 404, which keeps the route safe when metrics are
// disabled.
func NewMetricsHandler(prometheus http.Handler) *MetricsHandler {
	return &MetricsHandler{prometheus: prometheus}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.NotFound(w, r)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}
