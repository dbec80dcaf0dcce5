package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// DBPinger is the database probe used by health checks.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SweeperStatus reports whether the retention sweep loop is active.
type SweeperStatus interface {
	Running() bool
}

// HealthHandler handles health check requests. Health covers both the
// database and the retention sweeper; a stopped sweeper means soft-deleted
// comments are never purged, so it is reported as unhealthy.
type HealthHandler struct {
	db      DBPinger
	sweeper SweeperStatus
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db DBPinger, sweeper SweeperStatus) *HealthHandler {
	return &HealthHandler{db: db, sweeper: sweeper}
}

// HealthResponse represents the response for health check endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Services map[string]string `json:"services,omitempty"`
}

// Health handles GET /health - comprehensive health check.
func (h *HealthHandler) Health(c *gin.Context) {
	services := map[string]string{
		"database": "healthy",
		"sweeper":  "running",
	}
	healthy := true

	if err := h.db.Ping(c.Request.Context()); err != nil {
		services["database"] = "unhealthy"
		healthy = false
	}
	if !h.sweeper.Running() {
		services["sweeper"] = "stopped"
		healthy = false
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Services: services,
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:   "healthy",
		Version:  "1.0.0",
		Services: services,
	})
}

// Ready handles GET /ready - readiness probe for Kubernetes.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Live handles GET /live - liveness probe for Kubernetes.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
