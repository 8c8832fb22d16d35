package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	provider string
	model    string
}

// NewHealthHandler creates a new HealthHandler for the configured inference provider.
func NewHealthHandler(provider, model string) *HealthHandler {
	return &HealthHandler{provider: provider, model: model}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The inference client is built at startup,
// so a running process is ready; the provider and model are reported.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.provider == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "no inference provider configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "provider": h.provider, "model": h.model})
}
