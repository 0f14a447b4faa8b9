package partner

import (
	"time"

	"github.com/facturo/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code         string `json:"code" binding:"required,min=1,max=50"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Email        string `json:"email" binding:"omitempty,email,max=200"`
	Phone        string `json:"phone" binding:"max=50"`
	Address      string `json:"address" binding:"max=500"`
	TaxNumber    string `json:"tax_number" binding:"max=50"`
	PaymentTerms *int   `json:"payment_terms" binding:"omitempty,min=0,max=365"`
	Notes        string `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email        *string `json:"email" binding:"omitempty,email,max=200"`
	Phone        *string `json:"phone" binding:"omitempty,max=50"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	TaxNumber    *string `json:"tax_number" binding:"omitempty,max=50"`
	PaymentTerms *int    `json:"payment_terms" binding:"omitempty,min=0,max=365"`
	Notes        *string `json:"notes"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	TaxNumber      string     `json:"tax_number"`
	PaymentTerms   int        `json:"payment_terms"`
	Notes          string     `json:"notes"`
	Active         bool       `json:"active"`
	ArchivedAt     *time.Time `json:"archived_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		OrganizationID: c.OrganizationID,
		Code:           c.Code,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		TaxNumber:      c.TaxNumber,
		PaymentTerms:   c.PaymentTerms,
		Notes:          c.Notes,
		Active:         c.Active,
		ArchivedAt:     c.ArchivedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}
