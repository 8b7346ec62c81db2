package handlers

import (
	"errors"
	"net/http"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/services"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiatePayment handles POST /api/payments
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	payment, message, err := h.paymentService.RecordPayment(c.Request.Context(), req.UID, req.Amount, models.PaymentMethod(req.Method))
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{
			"success":    true,
			"paymentId":  payment.ID.Hex(),
			"orderRef":   payment.OrderRef,
			"adminGated": payment.Method.AdminGated(),
			"message":    message,
		})
	case errors.Is(err, services.ErrUnknownPaymentMethod):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Unknown payment method"})
	case errors.Is(err, services.ErrAmountBelowMinimum):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Amount is below the minimum deposit"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to initiate payment"})
	}
}

// ConfirmPayment handles POST /api/payments/:id/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		UID string `json:"uid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	payment, err := h.paymentService.ConfirmPayment(c.Request.Context(), c.Param("id"), req.UID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment completed", "payment": payment})
	case errors.Is(err, services.ErrRequiresAdminVerification):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "This payment method requires admin verification"})
	case errors.Is(err, services.ErrAlreadyProcessed):
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment already processed", "payment": payment})
	case errors.Is(err, services.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Payment not found"})
	case errors.Is(err, services.ErrNotPaymentOwner):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Payment does not belong to this user"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to confirm payment"})
	}
}

// GetPaymentStatus handles GET /api/payments/:id
func (h *PaymentHandler) GetPaymentStatus(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("id"), c.Query("uid"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
	case errors.Is(err, services.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Payment not found"})
	case errors.Is(err, services.ErrNotPaymentOwner):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "Payment does not belong to this user"})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Payment data is currently unavailable"})
	}
}

// AdminVerifyPayment handles POST /api/admin/payments/:id/verify
func (h *PaymentHandler) AdminVerifyPayment(c *gin.Context) {
	var req models.AdminVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Action != "accept" && req.Action != "reject" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Action must be accept or reject"})
		return
	}

	payment, err := h.paymentService.AdminDecide(c.Request.Context(), c.Param("id"), req.Action == "accept")
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "payment": payment})
	case errors.Is(err, services.ErrAlreadyProcessed):
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment already processed", "payment": payment})
	case errors.Is(err, services.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Payment not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to process decision"})
	}
}
