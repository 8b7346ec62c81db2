package handlers

import (
	"errors"
	"net/http"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
}

// GetUser handles GET /api/user/:uid
func (h *UserHandler) GetUser(c *gin.Context) {
	user, transactions, err := h.userService.GetUser(c.Request.Context(), c.Param("uid"))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "User data is currently unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         user,
		"transactions": transactions,
	})
}

// JoinContest handles POST /api/join-contest
func (h *UserHandler) JoinContest(c *gin.Context) {
	var req models.JoinContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	err := h.userService.JoinContest(c.Request.Context(), req.UID, req.ContestID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Contest joined successfully"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
	case errors.Is(err, services.ErrContestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Contest not found"})
	case errors.Is(err, services.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Insufficient balance"})
	case errors.Is(err, services.ErrContestClosed):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Contest is not open for entries"})
	case errors.Is(err, services.ErrContestFull):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Contest is full"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to join contest"})
	}
}
