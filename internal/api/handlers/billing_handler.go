package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/studio-portal-backend/internal/api/middleware"
	"github.com/lumenworks/studio-portal-backend/internal/models"
	"github.com/lumenworks/studio-portal-backend/internal/service"
)

// ============================================
// Billing Handler
// ============================================

type BillingHandler struct {
	billingService service.BillingService
}

// GetSubscription - GET /billing/subscription
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.billingService.GetSubscription(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubscriptionResponse(sub))
}

// CreateCheckout - POST /billing/checkout
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var req models.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.billingService.CreateCheckout(c.Request.Context(), middleware.GetUserID(c), req.Plan)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCheckoutSessionResponse(session))
}

// GetCheckout - GET /billing/checkout/:id
func (h *BillingHandler) GetCheckout(c *gin.Context) {
	session, err := h.billingService.GetCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if session.UID != middleware.GetUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		return
	}
	c.JSON(http.StatusOK, toCheckoutSessionResponse(session))
}

// Webhook - POST /billing/webhook (authenticated by shared secret)
func (h *BillingHandler) Webhook(c *gin.Context) {
	var event service.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	secret := c.GetHeader("X-Webhook-Secret")
	if err := h.billingService.HandleWebhook(c.Request.Context(), secret, event); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
