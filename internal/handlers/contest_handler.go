package handlers

import (
	"net/http"
	"time"

	"github.com/Vishall333/Smartlottery/internal/services"
	"github.com/gin-gonic/gin"
)

// ContestHandler handles contest-related HTTP requests
type ContestHandler struct {
	contestService services.ContestService
}

// NewContestHandler creates a new ContestHandler
func NewContestHandler(contestService services.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService}
}

// ListContests handles GET /api/contests
func (h *ContestHandler) ListContests(c *gin.Context) {
	contests, err := h.contestService.ListContests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Contests are currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"contests":  contests,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
