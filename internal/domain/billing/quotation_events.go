package billing

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationCreatedEvent is raised when a draft quotation is created
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID       `json:"quotation_id"`
	QuotationNumber string          `json:"quotation_number"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	Total           decimal.Decimal `json:"total"`
}

// EventType returns the event type name
func (e *QuotationCreatedEvent) EventType() string {
	return "QuotationCreated"
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuotationCreated", "Quotation", q.ID, q.OrganizationID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
		Total:           q.Total,
	}
}

// QuotationSentEvent is raised when a quotation is sent to the customer
type QuotationSentEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
}

// EventType returns the event type name
func (e *QuotationSentEvent) EventType() string {
	return "QuotationSent"
}

// NewQuotationSentEvent creates a new QuotationSentEvent
func NewQuotationSentEvent(q *Quotation) *QuotationSentEvent {
	return &QuotationSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuotationSent", "Quotation", q.ID, q.OrganizationID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
	}
}

// QuotationDecidedEvent is raised when a quotation is accepted, declined or expired
type QuotationDecidedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID       `json:"quotation_id"`
	QuotationNumber string          `json:"quotation_number"`
	Status          QuotationStatus `json:"status"`
}

// EventType returns the event type name
func (e *QuotationDecidedEvent) EventType() string {
	return "QuotationDecided"
}

// NewQuotationDecidedEvent creates a new QuotationDecidedEvent
func NewQuotationDecidedEvent(q *Quotation) *QuotationDecidedEvent {
	return &QuotationDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuotationDecided", "Quotation", q.ID, q.OrganizationID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		Status:          q.Status,
	}
}

// QuotationConvertedEvent is raised when a quotation is converted to an invoice
type QuotationConvertedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
}

// EventType returns the event type name
func (e *QuotationConvertedEvent) EventType() string {
	return "QuotationConverted"
}

// NewQuotationConvertedEvent creates a new QuotationConvertedEvent
func NewQuotationConvertedEvent(q *Quotation) *QuotationConvertedEvent {
	var invoiceID uuid.UUID
	if q.ConvertedInvoiceID != nil {
		invoiceID = *q.ConvertedInvoiceID
	}
	return &QuotationConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("QuotationConverted", "Quotation", q.ID, q.OrganizationID),
		QuotationID:     q.ID,
		InvoiceID:       invoiceID,
	}
}
