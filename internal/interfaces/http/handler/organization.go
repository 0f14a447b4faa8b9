package handler

import (
	identityapp "github.com/facturo/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// OrganizationHandler handles organization settings endpoints
type OrganizationHandler struct {
	BaseHandler
	organizationService *identityapp.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(organizationService *identityapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{organizationService: organizationService}
}

// Get returns the caller's organization
func (h *OrganizationHandler) Get(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	org, err := h.organizationService.Get(c.Request.Context(), orgID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}

// UpdateProfile updates the organization's contact details
func (h *OrganizationHandler) UpdateProfile(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	org, err := h.organizationService.UpdateProfile(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}

// UpdateInvoiceSettings changes invoice numbering and currency defaults
func (h *OrganizationHandler) UpdateInvoiceSettings(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.UpdateInvoiceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	org, err := h.organizationService.UpdateInvoiceSettings(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}

// Deactivate disables the organization
func (h *OrganizationHandler) Deactivate(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.organizationService.Deactivate(c.Request.Context(), orgID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
