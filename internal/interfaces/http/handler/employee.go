package handler

import (
	payrollapp "github.com/facturo/backend/internal/application/payroll"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *payrollapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *payrollapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create creates an employee
func (h *EmployeeHandler) Create(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req payrollapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), orgID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// GetByID returns one employee
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	orgID, employeeID, ok := h.scope(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), orgID, employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// List returns employees with filtering and pagination
func (h *EmployeeHandler) List(c *gin.Context) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter payrollapp.EmployeeListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	employees, total, err := h.employeeService.List(c.Request.Context(), orgID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, employees, total, filter.Page, filter.PageSize)
}

// Update changes an employee's details
func (h *EmployeeHandler) Update(c *gin.Context) {
	orgID, employeeID, ok := h.scope(c)
	if !ok {
		return
	}

	var req payrollapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), orgID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Terminate records the employee's end of employment
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	orgID, employeeID, ok := h.scope(c)
	if !ok {
		return
	}

	var req payrollapp.TerminateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	employee, err := h.employeeService.Terminate(c.Request.Context(), orgID, employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// Delete removes an employee without payroll history
func (h *EmployeeHandler) Delete(c *gin.Context) {
	orgID, employeeID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), orgID, employeeID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *EmployeeHandler) scope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	orgID, err := getOrgID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	employeeID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return uuid.Nil, uuid.Nil, false
	}

	return orgID, employeeID, true
}
