package billing

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceFilter defines filtering options for invoice queries
type InvoiceFilter struct {
	shared.Filter
	Status     *InvoiceStatus
	CustomerID *uuid.UUID
	IssuedFrom *time.Time
	IssuedTo   *time.Time
	Overdue    bool
}

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*Invoice, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter InvoiceFilter) ([]Invoice, error)
	FindOverdue(ctx context.Context, asOf time.Time) ([]Invoice, error)
	FindIssuedBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter InvoiceFilter) (int64, error)
	ExistsForCustomer(ctx context.Context, orgID, customerID uuid.UUID) (bool, error)

	// NextInvoiceNumber reserves the next sequential number for the
	// organization, formatted with its invoice prefix. Implementations must
	// be safe under concurrent issuance.
	NextInvoiceNumber(ctx context.Context, orgID uuid.UUID, prefix string, year int) (string, error)
}

// QuotationFilter defines filtering options for quotation queries
type QuotationFilter struct {
	shared.Filter
	Status     *QuotationStatus
	CustomerID *uuid.UUID
}

// QuotationRepository defines the persistence interface for quotations
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Quotation, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter QuotationFilter) ([]Quotation, error)
	FindExpirable(ctx context.Context, asOf time.Time) ([]Quotation, error)
	Save(ctx context.Context, quotation *Quotation) error

	// SaveConversion persists the converted quotation together with the
	// invoice created from it in a single transaction, so the datastore
	// never holds one without the other.
	SaveConversion(ctx context.Context, quotation *Quotation, invoice *Invoice) error

	Delete(ctx context.Context, orgID, id uuid.UUID) error
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter QuotationFilter) (int64, error)
	NextQuotationNumber(ctx context.Context, orgID uuid.UUID, year int) (string, error)
}
