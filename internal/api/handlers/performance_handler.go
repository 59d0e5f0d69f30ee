package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/umorjyoti/trip-sub006/internal/metrics"
)

// PerformanceHandler reports request timings collected in process.
type PerformanceHandler struct {
	collector *metrics.Collector
}

// NewPerformanceHandler creates a new PerformanceHandler.
func NewPerformanceHandler(collector *metrics.Collector) *PerformanceHandler {
	return &PerformanceHandler{collector: collector}
}

// Get handles GET /api/admin/performance
func (h *PerformanceHandler) Get(c *gin.Context) {
	respondOK(c, http.StatusOK, h.collector.Snapshot())
}

// Reset handles DELETE /api/admin/performance
func (h *PerformanceHandler) Reset(c *gin.Context) {
	h.collector.Reset()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Performance samples cleared"})
}
