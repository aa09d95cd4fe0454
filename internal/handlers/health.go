package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DBChecker is the slice of the database layer the probes need.
type DBChecker interface {
	// Ping proves a connection can be acquired.
	Ping(ctx context.Context) error
	// VerifyQuery proves an acquired connection can actually serve queries.
	VerifyQuery(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes. Health checks
// connectivity only; ready additionally executes a trivial query, so a
// database that accepts connections but cannot answer stays not-ready.
type HealthHandler struct {
	db DBChecker
}

// NewHealthHandler creates a HealthHandler over the given database.
func NewHealthHandler(db DBChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports liveness: 200 when the database is reachable, 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := h.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     err.Error(),
			"timestamp": now,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": now,
	})
}

// Ready reports readiness: 200 when a no-op query succeeds, 503 otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.db.VerifyQuery(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
