package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	source CatalogSource
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(source CatalogSource) *HealthHandler {
	return &HealthHandler{source: source}
}

// LivenessProbe checks if the application is running.
func (h *HealthHandler) LivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessProbe reports whether the service can answer queries. Serving
// an empty catalog is still ready; the status endpoint distinguishes the
// no-data-yet state.
func (h *HealthHandler) ReadinessProbe(c *gin.Context) {
	snap := h.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"videos": len(snap.Videos),
		"time":   time.Now(),
	})
}
