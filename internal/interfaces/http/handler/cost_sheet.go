package handler

import (
	"context"

	costingapp "github.com/facturo/backend/internal/application/costing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CostSheetHandler handles per-invoice cost sheet endpoints. Cost sheets are
// addressed by their invoice, not by their own ID.
type CostSheetHandler struct {
	BaseHandler
	costSheetService *costingapp.CostSheetService
}

// NewCostSheetHandler creates a new CostSheetHandler
func NewCostSheetHandler(costSheetService *costingapp.CostSheetService) *CostSheetHandler {
	return &CostSheetHandler{costSheetService: costSheetService}
}

// Get returns the cost sheet for an invoice, creating an empty one on first access
func (h *CostSheetHandler) Get(c *gin.Context) {
	orgID, invoiceID, ok := h.scope(c)
	if !ok {
		return
	}

	sheet, err := h.costSheetService.GetForInvoice(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sheet)
}

// AddItem stages a new cost row
func (h *CostSheetHandler) AddItem(c *gin.Context) {
	orgID, invoiceID, ok := h.scope(c)
	if !ok {
		return
	}

	var req costingapp.CostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sheet, err := h.costSheetService.AddItem(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sheet)
}

// EditItem stages changes to a cost row
func (h *CostSheetHandler) EditItem(c *gin.Context) {
	orgID, invoiceID, ok := h.scope(c)
	if !ok {
		return
	}

	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req costingapp.CostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sheet, err := h.costSheetService.EditItem(c.Request.Context(), orgID, invoiceID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sheet)
}

// RemoveItem stages removal of a cost row
func (h *CostSheetHandler) RemoveItem(c *gin.Context) {
	h.itemTransition(c, h.costSheetService.RemoveItem)
}

// RevertItem drops the staged changes of one cost row
func (h *CostSheetHandler) RevertItem(c *gin.Context) {
	h.itemTransition(c, h.costSheetService.RevertItem)
}

// ApplyTemplate merges a cost template into the sheet
func (h *CostSheetHandler) ApplyTemplate(c *gin.Context) {
	orgID, invoiceID, ok := h.scope(c)
	if !ok {
		return
	}

	var req costingapp.ApplyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sheet, err := h.costSheetService.ApplyTemplate(c.Request.Context(), orgID, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sheet)
}

// Commit makes all staged changes permanent
func (h *CostSheetHandler) Commit(c *gin.Context) {
	h.sheetTransition(c, h.costSheetService.Commit)
}

// Discard drops all staged changes
func (h *CostSheetHandler) Discard(c *gin.Context) {
	h.sheetTransition(c, h.costSheetService.Discard)
}

func (h *CostSheetHandler) sheetTransition(c *gin.Context, op func(ctx context.Context, orgID, invoiceID uuid.UUID) (*costingapp.CostSheetResponse, error)) {
	orgID, invoiceID, ok := h.scope(c)
	if !ok {
		return
	}

	sheet, err := op(c.Request.Context(), orgID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sheet)
}

func (h *CostSheetHandler) itemTransition(c *gin.Context, op func(ctx context.Context, orgID, invoiceID, itemID uuid.UUID) (*costingapp.CostSheetResponse, error)) {
	orgID, invoiceID, ok := h.scope(c)
	if !ok {
		return
	}

	itemID, err := parseIDParam(c, "itemId")
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	sheet, err := op(c.Request.Context(), orgID, invoiceID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sheet)
}

func (h *CostSheetHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	invoiceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return uuid.Nil, uuid.Nil, false
	}

	return orgID, invoiceID, true
}
