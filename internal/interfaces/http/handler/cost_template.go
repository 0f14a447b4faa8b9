package handler

import (
	costingapp "github.com/facturo/backend/internal/application/costing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CostTemplateHandler handles cost template endpoints
type CostTemplateHandler struct {
	BaseHandler
	templateService *costingapp.CostTemplateService
}

// NewCostTemplateHandler creates a new CostTemplateHandler
func NewCostTemplateHandler(templateService *costingapp.CostTemplateService) *CostTemplateHandler {
	return &CostTemplateHandler{templateService: templateService}
}

// Create creates a cost template
func (h *CostTemplateHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req costingapp.CreateCostTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// GetByID returns one cost template
func (h *CostTemplateHandler) GetByID(c *gin.Context) {
	orgID, templateID, ok := h.scope(c)
	if !ok {
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), orgID, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// List returns cost templates with pagination
func (h *CostTemplateHandler) List(c *gin.Context) {
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

	templates, total, err := h.templateService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, templates, total, filter.Page, filter.PageSize)
}

// Update changes a cost template
func (h *CostTemplateHandler) Update(c *gin.Context) {
	orgID, templateID, ok := h.scope(c)
	if !ok {
		return
	}

	var req costingapp.UpdateCostTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), orgID, templateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// Delete removes a cost template
func (h *CostTemplateHandler) Delete(c *gin.Context) {
	orgID, templateID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), orgID, templateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *CostTemplateHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	templateID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid template ID")
		return uuid.Nil, uuid.Nil, false
	}

	return orgID, templateID, true
}
