package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItems wraps a line item slice with GORM Scanner/Valuer for JSONB storage.
// Invoices and quotations carry a handful of lines each, so a child table
// would only add join overhead.
type LineItems []billing.LineItem

// Value implements driver.Valuer for JSONB storage
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB storage
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into LineItems", value)
	}
}

// InvoiceModel is the persistence model for the Invoice aggregate.
// The invoice number stays empty until the invoice is issued, so uniqueness
// is enforced by the number sequence rather than a partial index.
type InvoiceModel struct {
	OrgAggregateModel
	InvoiceNumber     string                 `gorm:"type:varchar(50);index"`
	CustomerID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	CustomerName      string                 `gorm:"type:varchar(200);not null"`
	Currency          string                 `gorm:"type:varchar(3);not null"`
	IssueDate         *time.Time             `gorm:"index"`
	DueDate           *time.Time             `gorm:"index"`
	Lines             LineItems              `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal          decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	VATTotal          decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Total             decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount        decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status            billing.InvoiceStatus  `gorm:"type:varchar(20);not null;index"`
	PaymentRecords    billing.PaymentRecords `gorm:"type:jsonb;not null;default:'[]'"`
	QuotationID       *uuid.UUID             `gorm:"type:uuid;index"`
	Notes             string                 `gorm:"type:text"`
	PaidAt            *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		OrgAggregateRoot:  m.ToDomainOrgAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		Currency:          valueobject.Currency(m.Currency),
		IssueDate:         m.IssueDate,
		DueDate:           m.DueDate,
		Lines:             m.Lines,
		Subtotal:          m.Subtotal,
		VATTotal:          m.VATTotal,
		Total:             m.Total,
		PaidAmount:        m.PaidAmount,
		OutstandingAmount: m.OutstandingAmount,
		Status:            m.Status,
		PaymentRecords:    m.PaymentRecords,
		QuotationID:       m.QuotationID,
		Notes:             m.Notes,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainOrgAggregateRoot(inv.OrgAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.CustomerID = inv.CustomerID
	m.CustomerName = inv.CustomerName
	m.Currency = string(inv.Currency)
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Lines = inv.Lines
	m.Subtotal = inv.Subtotal
	m.VATTotal = inv.VATTotal
	m.Total = inv.Total
	m.PaidAmount = inv.PaidAmount
	m.OutstandingAmount = inv.OutstandingAmount
	m.Status = inv.Status
	m.PaymentRecords = inv.PaymentRecords
	m.QuotationID = inv.QuotationID
	m.Notes = inv.Notes
	m.PaidAt = inv.PaidAt
	m.CancelledAt = inv.CancelledAt
	m.CancelReason = inv.CancelReason
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// QuotationModel is the persistence model for the Quotation aggregate.
type QuotationModel struct {
	OrgAggregateModel
	QuotationNumber    string                  `gorm:"type:varchar(50);not null;index"`
	CustomerID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	CustomerName       string                  `gorm:"type:varchar(200);not null"`
	Currency           string                  `gorm:"type:varchar(3);not null"`
	ValidUntil         *time.Time              `gorm:"index"`
	Lines              LineItems               `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal           decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	VATTotal           decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Total              decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Status             billing.QuotationStatus `gorm:"type:varchar(20);not null;index"`
	ConvertedInvoiceID *uuid.UUID              `gorm:"type:uuid"`
	Notes              string                  `gorm:"type:text"`
	SentAt             *time.Time
	DecidedAt          *time.Time
}

// TableName returns the table name for GORM
func (QuotationModel) TableName() string {
	return "quotations"
}

// ToDomain converts the persistence model to a domain Quotation entity.
func (m *QuotationModel) ToDomain() *billing.Quotation {
	return &billing.Quotation{
		OrgAggregateRoot:   m.ToDomainOrgAggregateRoot(),
		QuotationNumber:    m.QuotationNumber,
		CustomerID:         m.CustomerID,
		CustomerName:       m.CustomerName,
		Currency:           valueobject.Currency(m.Currency),
		ValidUntil:         m.ValidUntil,
		Lines:              m.Lines,
		Subtotal:           m.Subtotal,
		VATTotal:           m.VATTotal,
		Total:              m.Total,
		Status:             m.Status,
		ConvertedInvoiceID: m.ConvertedInvoiceID,
		Notes:              m.Notes,
		SentAt:             m.SentAt,
		DecidedAt:          m.DecidedAt,
	}
}

// FromDomain populates the persistence model from a domain Quotation entity.
func (m *QuotationModel) FromDomain(q *billing.Quotation) {
	m.FromDomainOrgAggregateRoot(q.OrgAggregateRoot)
	m.QuotationNumber = q.QuotationNumber
	m.CustomerID = q.CustomerID
	m.CustomerName = q.CustomerName
	m.Currency = string(q.Currency)
	m.ValidUntil = q.ValidUntil
	m.Lines = q.Lines
	m.Subtotal = q.Subtotal
	m.VATTotal = q.VATTotal
	m.Total = q.Total
	m.Status = q.Status
	m.ConvertedInvoiceID = q.ConvertedInvoiceID
	m.Notes = q.Notes
	m.SentAt = q.SentAt
	m.DecidedAt = q.DecidedAt
}

// QuotationModelFromDomain creates a new persistence model from a domain Quotation entity.
func QuotationModelFromDomain(q *billing.Quotation) *QuotationModel {
	m := &QuotationModel{}
	m.FromDomain(q)
	return m
}

// NumberSequenceModel backs the per-organization document numbering.
// One row per (organization, kind, year); the last value is bumped
// atomically with an upsert so concurrent issuance never reuses a number.
type NumberSequenceModel struct {
	OrganizationID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind           string    `gorm:"type:varchar(20);primaryKey"`
	Year           int       `gorm:"primaryKey"`
	LastValue      int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (NumberSequenceModel) TableName() string {
	return "number_sequences"
}
