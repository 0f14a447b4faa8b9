package handler

import (
	"context"

	payrollapp "github.com/facturo/backend/internal/application/payroll"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PayrollHandler handles payroll record endpoints
type PayrollHandler struct {
	BaseHandler
	payrollService *payrollapp.PayrollService
}

// NewPayrollHandler creates a new PayrollHandler
func NewPayrollHandler(payrollService *payrollapp.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// GeneratePeriodRequest selects the period to generate records for
type GeneratePeriodRequest struct {
	Period string `json:"period" binding:"required"`
}

// Create opens a payroll record for one employee
func (h *PayrollHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req payrollapp.CreatePayrollRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.payrollService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// GenerateForPeriod opens draft records for every active employee missing one
func (h *PayrollHandler) GenerateForPeriod(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req GeneratePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	records, err := h.payrollService.GenerateForPeriod(c.Request.Context(), orgID, req.Period)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, records)
}

// GetByID returns one payroll record
func (h *PayrollHandler) GetByID(c *gin.Context) {
	orgID, recordID, ok := h.scope(c)
	if !ok {
		return
	}

	record, err := h.payrollService.GetByID(c.Request.Context(), orgID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// List returns payroll records with filtering and pagination
func (h *PayrollHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter payrollapp.PayrollRecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	records, total, err := h.payrollService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// Update changes a draft payroll record
func (h *PayrollHandler) Update(c *gin.Context) {
	orgID, recordID, ok := h.scope(c)
	if !ok {
		return
	}

	var req payrollapp.UpdatePayrollRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.payrollService.Update(c.Request.Context(), orgID, recordID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Approve locks the record's amounts
func (h *PayrollHandler) Approve(c *gin.Context) {
	h.transition(c, h.payrollService.Approve)
}

// MarkPaid records the payout
func (h *PayrollHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.payrollService.MarkPaid)
}

// Delete removes a draft payroll record
func (h *PayrollHandler) Delete(c *gin.Context) {
	orgID, recordID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.payrollService.Delete(c.Request.Context(), orgID, recordID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *PayrollHandler) transition(c *gin.Context, op func(ctx context.Context, orgID, recordID uuid.UUID) (*payrollapp.PayrollRecordResponse, error)) {
	orgID, recordID, ok := h.scope(c)
	if !ok {
		return
	}

	record, err := op(c.Request.Context(), orgID, recordID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

func (h *PayrollHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	recordID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid payroll record ID")
		return uuid.Nil, uuid.Nil, false
	}

	return orgID, recordID, true
}
