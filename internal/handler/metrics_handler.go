package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-core/internal/metrics"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	collector *metrics.Collector
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(collector *metrics.Collector) *MetricsHandler {
	return &MetricsHandler{collector: collector}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.collector == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.collector.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for readiness/liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
