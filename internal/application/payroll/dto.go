package payroll

import (
	"time"

	"github.com/facturo/backend/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEmployeeRequest represents the data needed to create an employee
type CreateEmployeeRequest struct {
	EmployeeNumber string          `json:"employee_number" binding:"required,min=1,max=50"`
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Email          string          `json:"email" binding:"omitempty,email"`
	Position       string          `json:"position" binding:"omitempty,max=100"`
	BaseSalary     decimal.Decimal `json:"base_salary" binding:"required"`
	HireDate       time.Time       `json:"hire_date" binding:"required" time_format:"2006-01-02"`
}

// UpdateEmployeeRequest represents the data for updating an employee
type UpdateEmployeeRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string          `json:"email" binding:"omitempty,email"`
	Position   *string          `json:"position" binding:"omitempty,max=100"`
	BaseSalary *decimal.Decimal `json:"base_salary"`
}

// TerminateEmployeeRequest carries the termination date
type TerminateEmployeeRequest struct {
	TerminatedAt time.Time `json:"terminated_at" binding:"required" time_format:"2006-01-02"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organization_id"`
	EmployeeNumber string          `json:"employee_number"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Position       string          `json:"position,omitempty"`
	BaseSalary     decimal.Decimal `json:"base_salary"`
	HireDate       time.Time       `json:"hire_date"`
	TerminatedAt   *time.Time      `json:"terminated_at,omitempty"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// EmployeeListFilter represents filter options for the employee list
type EmployeeListFilter struct {
	Active   *bool  `form:"active"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at name employee_number hire_date"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PayComponentRequest represents one addition or deduction on a payroll record
type PayComponentRequest struct {
	Label  string          `json:"label" binding:"required,min=1,max=200"`
	Kind   string          `json:"kind" binding:"required,oneof=ADDITION DEDUCTION"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CreatePayrollRecordRequest represents the data to open a payroll record.
// GrossPay defaults to the employee's base salary when omitted.
type CreatePayrollRecordRequest struct {
	EmployeeID uuid.UUID             `json:"employee_id" binding:"required"`
	Period     string                `json:"period" binding:"required"`
	GrossPay   *decimal.Decimal      `json:"gross_pay"`
	Components []PayComponentRequest `json:"components" binding:"omitempty,dive"`
	Notes      string                `json:"notes" binding:"omitempty,max=1000"`
}

// UpdatePayrollRecordRequest represents changes to a draft payroll record
type UpdatePayrollRecordRequest struct {
	GrossPay   *decimal.Decimal      `json:"gross_pay"`
	Components []PayComponentRequest `json:"components" binding:"omitempty,dive"`
	Notes      *string               `json:"notes" binding:"omitempty,max=1000"`
}

// PayComponentResponse represents one pay component in API responses
type PayComponentResponse struct {
	Label  string          `json:"label"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// PayrollRecordResponse represents a payroll record in API responses
type PayrollRecordResponse struct {
	ID             uuid.UUID              `json:"id"`
	OrganizationID uuid.UUID              `json:"organization_id"`
	EmployeeID     uuid.UUID              `json:"employee_id"`
	EmployeeName   string                 `json:"employee_name"`
	Period         string                 `json:"period"`
	GrossPay       decimal.Decimal        `json:"gross_pay"`
	Components     []PayComponentResponse `json:"components"`
	NetPay         decimal.Decimal        `json:"net_pay"`
	Status         string                 `json:"status"`
	ApprovedAt     *time.Time             `json:"approved_at,omitempty"`
	PaidAt         *time.Time             `json:"paid_at,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// PayrollRecordListFilter represents filter options for the payroll record list
type PayrollRecordListFilter struct {
	EmployeeID *uuid.UUID `form:"employee_id"`
	Period     string     `form:"period"`
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT APPROVED PAID"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at period"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToEmployeeResponse converts a domain employee to a response DTO
func ToEmployeeResponse(e *payroll.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		OrganizationID: e.OrganizationID,
		EmployeeNumber: e.EmployeeNumber,
		Name:           e.Name,
		Email:          e.Email,
		Position:       e.Position,
		BaseSalary:     e.BaseSalary,
		HireDate:       e.HireDate,
		TerminatedAt:   e.TerminatedAt,
		Active:         e.Active,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ToPayrollRecordResponse converts a domain payroll record to a response DTO
func ToPayrollRecordResponse(r *payroll.PayrollRecord) PayrollRecordResponse {
	components := make([]PayComponentResponse, len(r.Components))
	for i, c := range r.Components {
		components[i] = PayComponentResponse{
			Label:  c.Label,
			Kind:   string(c.Kind),
			Amount: c.Amount,
		}
	}
	return PayrollRecordResponse{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		Period:         r.Period.String(),
		GrossPay:       r.GrossPay,
		Components:     components,
		NetPay:         r.NetPay,
		Status:         string(r.Status),
		ApprovedAt:     r.ApprovedAt,
		PaidAt:         r.PaidAt,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toPayComponents(components []PayComponentRequest) []payroll.PayComponent {
	out := make([]payroll.PayComponent, len(components))
	for i, c := range components {
		out[i] = payroll.PayComponent{
			Label:  c.Label,
			Kind:   payroll.PayComponentKind(c.Kind),
			Amount: c.Amount,
		}
	}
	return out
}
