package identity

import (
	"regexp"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Organization is the tenant boundary. Every business record in the system
// is scoped to exactly one organization.
type Organization struct {
	shared.BaseAggregateRoot
	Name            string               `json:"name"`
	Slug            string               `json:"slug"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	Address         string               `json:"address"`
	TaxNumber       string               `json:"tax_number"`
	DefaultCurrency valueobject.Currency `json:"default_currency"`
	InvoicePrefix   string               `json:"invoice_prefix"`
	Active          bool                 `json:"active"`
	DeactivatedAt   *time.Time           `json:"deactivated_at,omitempty"`
}

// NewOrganization creates a new organization
func NewOrganization(name, slug, email string, currency valueobject.Currency) (*Organization, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Organization name cannot exceed 200 characters")
	}
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewDomainError("INVALID_SLUG", "Slug must be lowercase letters, digits and hyphens")
	}
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
	}

	org := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Email:             email,
		DefaultCurrency:   currency,
		InvoicePrefix:     "INV",
		Active:            true,
	}

	org.AddDomainEvent(NewOrganizationCreatedEvent(org))

	return org, nil
}

// UpdateProfile updates the organization's contact and billing details
func (o *Organization) UpdateProfile(name, email, phone, address, taxNumber string) error {
	if !o.Active {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a deactivated organization")
	}
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Organization name cannot be empty")
	}

	o.Name = name
	o.Email = email
	o.Phone = phone
	o.Address = address
	o.TaxNumber = taxNumber
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetInvoicePrefix changes the prefix used when numbering issued invoices
func (o *Organization) SetInvoicePrefix(prefix string) error {
	if prefix == "" || len(prefix) > 10 {
		return shared.NewDomainError("INVALID_PREFIX", "Invoice prefix must be 1-10 characters")
	}
	o.InvoicePrefix = prefix
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetDefaultCurrency changes the currency new invoices default to
func (o *Organization) SetDefaultCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
	}
	o.DefaultCurrency = currency
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// Deactivate marks the organization inactive. Existing data is retained.
func (o *Organization) Deactivate() error {
	if !o.Active {
		return shared.NewDomainError("INVALID_STATE", "Organization is already deactivated")
	}
	now := time.Now()
	o.Active = false
	o.DeactivatedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrganizationDeactivatedEvent(o))

	return nil
}

// IsActive returns true if the organization can be used
func (o *Organization) IsActive() bool {
	return o.Active
}
