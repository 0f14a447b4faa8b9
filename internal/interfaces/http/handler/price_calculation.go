package handler

import (
	costingapp "github.com/facturo/backend/internal/application/costing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PriceCalculationHandler handles pricing scenario endpoints
type PriceCalculationHandler struct {
	BaseHandler
	calculationService *costingapp.PriceCalculationService
}

// NewPriceCalculationHandler creates a new PriceCalculationHandler
func NewPriceCalculationHandler(calculationService *costingapp.PriceCalculationService) *PriceCalculationHandler {
	return &PriceCalculationHandler{calculationService: calculationService}
}

// Create saves a pricing scenario
func (h *PriceCalculationHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req costingapp.PriceCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	calc, err := h.calculationService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, calc)
}

// Preview computes a pricing scenario without saving it
func (h *PriceCalculationHandler) Preview(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req costingapp.PriceCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	calc, err := h.calculationService.Preview(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, calc)
}

// GetByID returns one pricing scenario
func (h *PriceCalculationHandler) GetByID(c *gin.Context) {
	orgID, calcID, ok := h.scope(c)
	if !ok {
		return
	}

	calc, err := h.calculationService.GetByID(c.Request.Context(), orgID, calcID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, calc)
}

// List returns pricing scenarios with pagination
func (h *PriceCalculationHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter costingapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	calcs, total, err := h.calculationService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, calcs, total, filter.Page, filter.PageSize)
}

// Update recomputes and saves a pricing scenario
func (h *PriceCalculationHandler) Update(c *gin.Context) {
	orgID, calcID, ok := h.scope(c)
	if !ok {
		return
	}

	var req costingapp.PriceCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	calc, err := h.calculationService.Update(c.Request.Context(), orgID, calcID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, calc)
}

// Delete removes a pricing scenario
func (h *PriceCalculationHandler) Delete(c *gin.Context) {
	orgID, calcID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.calculationService.Delete(c.Request.Context(), orgID, calcID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *PriceCalculationHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	calcID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid calculation ID")
		return uuid.Nil, uuid.Nil, false
	}

	return orgID, calcID, true
}
