package billing

import (
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "DRAFT"
	QuotationStatusSent     QuotationStatus = "SENT"
	QuotationStatusAccepted QuotationStatus = "ACCEPTED"
	QuotationStatusDeclined QuotationStatus = "DECLINED"
	QuotationStatusExpired  QuotationStatus = "EXPIRED"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusAccepted,
		QuotationStatusDeclined, QuotationStatusExpired:
		return true
	}
	return false
}

// IsTerminal returns true once no further customer decision is possible
func (s QuotationStatus) IsTerminal() bool {
	return s == QuotationStatusDeclined || s == QuotationStatusExpired
}

// Quotation is a priced offer that can be converted into an invoice once
// accepted. It shares the line-item shape with invoices.
type Quotation struct {
	shared.OrgAggregateRoot
	QuotationNumber    string               `json:"quotation_number"`
	CustomerID         uuid.UUID            `json:"customer_id"`
	CustomerName       string               `json:"customer_name"`
	Currency           valueobject.Currency `json:"currency"`
	ValidUntil         *time.Time           `json:"valid_until,omitempty"`
	Lines              []LineItem           `json:"lines"`
	Subtotal           decimal.Decimal      `json:"subtotal"`
	VATTotal           decimal.Decimal      `json:"vat_total"`
	Total              decimal.Decimal      `json:"total"`
	Status             QuotationStatus      `json:"status"`
	ConvertedInvoiceID *uuid.UUID           `json:"converted_invoice_id,omitempty"`
	Notes              string               `json:"notes"`
	SentAt             *time.Time           `json:"sent_at,omitempty"`
	DecidedAt          *time.Time           `json:"decided_at,omitempty"`
}

// NewQuotation creates a new draft quotation
func NewQuotation(
	organizationID uuid.UUID,
	quotationNumber string,
	customerID uuid.UUID,
	customerName string,
	currency valueobject.Currency,
	validUntil *time.Time,
	lines []LineItem,
) (*Quotation, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if quotationNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quotation number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if !currency.IsValid() {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
	}

	q := &Quotation{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		QuotationNumber:  quotationNumber,
		CustomerID:       customerID,
		CustomerName:     customerName,
		Currency:         currency,
		ValidUntil:       validUntil,
		Lines:            lines,
		Status:           QuotationStatusDraft,
	}
	q.recalculateTotals()

	q.AddDomainEvent(NewQuotationCreatedEvent(q))

	return q, nil
}

func (q *Quotation) recalculateTotals() {
	totals := CalculateTotals(q.Lines)
	q.Subtotal = totals.Subtotal
	q.VATTotal = totals.VATTotal
	q.Total = totals.Total
}

// ReplaceLines replaces the draft's line items. Only allowed before sending.
func (q *Quotation) ReplaceLines(lines []LineItem) error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Line items can only be changed on a draft quotation")
	}
	q.Lines = lines
	q.recalculateTotals()
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
	return nil
}

// Send marks the quotation as sent to the customer
func (q *Quotation) Send() error {
	if q.Status != QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send quotation in %s status", q.Status))
	}
	if len(q.Lines) == 0 {
		return shared.NewDomainError("EMPTY_QUOTATION", "Cannot send a quotation without line items")
	}

	now := time.Now()
	q.Status = QuotationStatusSent
	q.SentAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationSentEvent(q))

	return nil
}

// Accept records the customer's acceptance
func (q *Quotation) Accept() error {
	if q.Status != QuotationStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot accept quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusAccepted
	q.DecidedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationDecidedEvent(q))

	return nil
}

// Decline records the customer's rejection
func (q *Quotation) Decline() error {
	if q.Status != QuotationStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot decline quotation in %s status", q.Status))
	}

	now := time.Now()
	q.Status = QuotationStatusDeclined
	q.DecidedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationDecidedEvent(q))

	return nil
}

// Expire marks a sent quotation as expired once its validity has lapsed
func (q *Quotation) Expire() error {
	if q.Status != QuotationStatusSent {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot expire quotation in %s status", q.Status))
	}
	if q.ValidUntil == nil || time.Now().Before(*q.ValidUntil) {
		return shared.NewDomainError("NOT_EXPIRED", "Quotation validity has not lapsed")
	}

	now := time.Now()
	q.Status = QuotationStatusExpired
	q.DecidedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationDecidedEvent(q))

	return nil
}

// MarkConverted records the invoice created from this quotation.
// A quotation can be converted exactly once, and only after acceptance.
func (q *Quotation) MarkConverted(invoiceID uuid.UUID) error {
	if q.Status != QuotationStatusAccepted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot convert quotation in %s status", q.Status))
	}
	if q.ConvertedInvoiceID != nil {
		return shared.NewDomainError("ALREADY_CONVERTED", "Quotation has already been converted to an invoice")
	}
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}

	q.ConvertedInvoiceID = &invoiceID
	q.UpdatedAt = time.Now()
	q.IncrementVersion()

	q.AddDomainEvent(NewQuotationConvertedEvent(q))

	return nil
}

// SetNotes sets free-form notes
func (q *Quotation) SetNotes(notes string) {
	q.Notes = notes
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}

// IsConverted returns true once an invoice was created from this quotation
func (q *Quotation) IsConverted() bool {
	return q.ConvertedInvoiceID != nil
}

// IsExpirable returns true if a nightly pass should expire this quotation
func (q *Quotation) IsExpirable() bool {
	return q.Status == QuotationStatusSent && q.ValidUntil != nil && time.Now().After(*q.ValidUntil)
}
