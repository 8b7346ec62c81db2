package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// StorePinger reports store connectivity
type StorePinger interface {
	Ping(ctx context.Context) error
}

// TaskRunner reports whether the background tasks are active
type TaskRunner interface {
	Running() bool
}

// HealthHandler handles liveness checks
type HealthHandler struct {
	store StorePinger
	tasks TaskRunner
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store StorePinger, tasks TaskRunner) *HealthHandler {
	return &HealthHandler{store: store, tasks: tasks}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storeConnected := h.store.Ping(ctx) == nil

	status := http.StatusOK
	if !storeConnected {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"success":    storeConnected,
		"status":     "healthy",
		"store":      storeConnected,
		"automation": h.tasks.Running(),
	})
}
