package handler

import (
	"context"

	billingapp "github.com/facturo/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// QuotationHandler handles quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *billingapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *billingapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create creates a draft quotation
func (h *QuotationHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req billingapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quotation)
}

// GetByID returns one quotation
func (h *QuotationHandler) GetByID(c *gin.Context) {
	orgID, quotationID, ok := h.scope(c)
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), orgID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// List returns quotations with filtering and pagination
func (h *QuotationHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter billingapp.QuotationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	quotations, total, err := h.quotationService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotations, total, filter.Page, filter.PageSize)
}

// Update changes a draft quotation
func (h *QuotationHandler) Update(c *gin.Context) {
	orgID, quotationID, ok := h.scope(c)
	if !ok {
		return
	}

	var req billingapp.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), orgID, quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Send marks a quotation as sent to the customer
func (h *QuotationHandler) Send(c *gin.Context) {
	h.transition(c, h.quotationService.Send)
}

// Accept records the customer's acceptance
func (h *QuotationHandler) Accept(c *gin.Context) {
	h.transition(c, h.quotationService.Accept)
}

// Decline records the customer's rejection
func (h *QuotationHandler) Decline(c *gin.Context) {
	h.transition(c, h.quotationService.Decline)
}

// ConvertToInvoice creates a draft invoice from an accepted quotation
func (h *QuotationHandler) ConvertToInvoice(c *gin.Context) {
	orgID, quotationID, ok := h.scope(c)
	if !ok {
		return
	}

	invoice, err := h.quotationService.ConvertToInvoice(c.Request.Context(), orgID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Delete removes a draft quotation
func (h *QuotationHandler) Delete(c *gin.Context) {
	orgID, quotationID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), orgID, quotationID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *QuotationHandler) transition(c *gin.Context, op func(ctx context.Context, orgID, quotationID uuid.UUID) (*billingapp.QuotationResponse, error)) {
	orgID, quotationID, ok := h.scope(c)
	if !ok {
		return
	}

	quotation, err := op(c.Request.Context(), orgID, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

func (h *QuotationHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	quotationID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return uuid.Nil, uuid.Nil, false
	}

	return orgID, quotationID, true
}
