package handler

import (
	identityapp "github.com/facturo/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles subscription and plan endpoints
type SubscriptionHandler struct {
	BaseHandler
	subscriptionService *identityapp.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService *identityapp.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// GetCurrent returns the organization's active subscription
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sub, err := h.subscriptionService.GetCurrent(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sub)
}

// StartCheckout opens a payment gateway checkout for a paid plan
func (h *SubscriptionHandler) StartCheckout(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	checkout, err := h.subscriptionService.StartCheckout(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, checkout)
}

// ChangePlan switches the plan on an open subscription
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sub, err := h.subscriptionService.ChangePlan(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sub)
}

// Cancel cancels the organization's subscription
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sub, err := h.subscriptionService.Cancel(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sub)
}
