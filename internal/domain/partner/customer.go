package partner

import (
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is a billable party. Customers are scoped to an organization and
// referenced by invoices and quotations; they are archived rather than
// deleted once documents exist.
type Customer struct {
	shared.OrgAggregateRoot
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address"`
	TaxNumber    string     `json:"tax_number"`
	PaymentTerms int        `json:"payment_terms"` // days until an invoice is due
	Notes        string     `json:"notes"`
	Active       bool       `json:"active"`
	ArchivedAt   *time.Time `json:"archived_at,omitempty"`
}

// DefaultPaymentTerms is applied when no terms are given
const DefaultPaymentTerms = 14

// NewCustomer creates a new customer
func NewCustomer(organizationID uuid.UUID, code, name, email string) (*Customer, error) {
	code = strings.TrimSpace(code)
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}

	c := &Customer{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Code:             code,
		Name:             name,
		Email:            email,
		PaymentTerms:     DefaultPaymentTerms,
		Active:           true,
	}

	c.AddDomainEvent(NewCustomerCreatedEvent(c))

	return c, nil
}

// Update changes the customer's contact and billing details
func (c *Customer) Update(name, email, phone, address, taxNumber, notes string) error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Cannot update an archived customer")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.TaxNumber = taxNumber
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPaymentTerms changes the default due period for this customer's invoices
func (c *Customer) SetPaymentTerms(days int) error {
	if days < 0 || days > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 365 days")
	}
	c.PaymentTerms = days
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Archive soft-deactivates the customer. Existing invoices keep referencing it.
func (c *Customer) Archive() error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Customer is already archived")
	}
	now := time.Now()
	c.Active = false
	c.ArchivedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerArchivedEvent(c))

	return nil
}

// Restore reactivates an archived customer
func (c *Customer) Restore() error {
	if c.Active {
		return shared.NewDomainError("INVALID_STATE", "Customer is not archived")
	}
	c.Active = true
	c.ArchivedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// IsActive returns true if the customer can be invoiced
func (c *Customer) IsActive() bool {
	return c.Active
}
