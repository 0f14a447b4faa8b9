package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "DRAFT"          // Editable, no number assigned
	InvoiceStatusIssued        InvoiceStatus = "ISSUED"         // Numbered and sent, unpaid
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID" // 0 < paid < total
	InvoiceStatusPaid          InvoiceStatus = "PAID"           // Fully paid
	InvoiceStatusCancelled     InvoiceStatus = "CANCELLED"      // Voided before any payment
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the invoice is in a terminal state
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusCancelled
}

// CanRecordPayment returns true if payments can be recorded in this status
func (s InvoiceStatus) CanRecordPayment() bool {
	return s == InvoiceStatusIssued || s == InvoiceStatusPartiallyPaid
}

// PaymentMethod represents how an invoice payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodGateway      PaymentMethod = "GATEWAY"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodGateway:
		return true
	}
	return false
}

// PaymentRecord represents a payment received against an invoice.
// It is a value object within the Invoice aggregate, stored as JSONB.
type PaymentRecord struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     PaymentMethod   `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
	Note       string          `json:"note,omitempty"`
}

// PaymentRecords is a slice of PaymentRecord that implements GORM Scanner/Valuer for JSONB storage
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentRecords{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Invoice is a billable document with line items, derived totals, a paid
// amount and a status. Invoices are scoped to one organization and reference
// one customer.
type Invoice struct {
	shared.OrgAggregateRoot
	InvoiceNumber     string               `json:"invoice_number"` // Empty until issued
	CustomerID        uuid.UUID            `json:"customer_id"`
	CustomerName      string               `json:"customer_name"`
	Currency          valueobject.Currency `json:"currency"`
	IssueDate         *time.Time           `json:"issue_date,omitempty"`
	DueDate           *time.Time           `json:"due_date,omitempty"`
	Lines             []LineItem           `json:"lines"`
	Subtotal          decimal.Decimal      `json:"subtotal"`
	VATTotal          decimal.Decimal      `json:"vat_total"`
	Total             decimal.Decimal      `json:"total"`
	PaidAmount        decimal.Decimal      `json:"paid_amount"`
	OutstandingAmount decimal.Decimal      `json:"outstanding_amount"`
	Status            InvoiceStatus        `json:"status"`
	PaymentRecords    PaymentRecords       `json:"payment_records"`
	QuotationID       *uuid.UUID           `json:"quotation_id,omitempty"` // Set when created by conversion
	Notes             string               `json:"notes"`
	PaidAt            *time.Time           `json:"paid_at,omitempty"`
	CancelledAt       *time.Time           `json:"cancelled_at,omitempty"`
	CancelReason      string               `json:"cancel_reason,omitempty"`
}

// NewInvoice creates a new draft invoice
func NewInvoice(
	organizationID uuid.UUID,
	customerID uuid.UUID,
	customerName string,
	currency valueobject.Currency,
	dueDate *time.Time,
	lines []LineItem,
) (*Invoice, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
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

	inv := &Invoice{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		CustomerID:       customerID,
		CustomerName:     customerName,
		Currency:         currency,
		DueDate:          dueDate,
		Lines:            lines,
		PaidAmount:       decimal.Zero,
		Status:           InvoiceStatusDraft,
		PaymentRecords:   PaymentRecords{},
	}
	inv.recalculateTotals()

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// recalculateTotals rederives subtotal, VAT, total and outstanding from lines
func (inv *Invoice) recalculateTotals() {
	totals := CalculateTotals(inv.Lines)
	inv.Subtotal = totals.Subtotal
	inv.VATTotal = totals.VATTotal
	inv.Total = totals.Total
	inv.OutstandingAmount = inv.Total.Sub(inv.PaidAmount)
}

// ReplaceLines replaces the draft's line items. Only allowed before issuing.
func (inv *Invoice) ReplaceLines(lines []LineItem) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Line items can only be changed on a draft invoice")
	}
	inv.Lines = lines
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// UpdateDraft applies a draft edit in one step so the version moves exactly
// once per update, keeping the optimistic-lock check meaningful.
func (inv *Invoice) UpdateDraft(lines []LineItem, dueDate *time.Time, notes string) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft invoice can be updated")
	}
	inv.Lines = lines
	inv.DueDate = dueDate
	inv.Notes = notes
	inv.recalculateTotals()
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// Issue assigns the invoice number and freezes the line items
func (inv *Invoice) Issue(invoiceNumber string, issueDate time.Time) error {
	if inv.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot issue invoice in %s status", inv.Status))
	}
	if invoiceNumber == "" {
		return shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if len(inv.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot issue an invoice without line items")
	}

	inv.InvoiceNumber = invoiceNumber
	inv.IssueDate = &issueDate
	inv.Status = InvoiceStatusIssued
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceIssuedEvent(inv))

	return nil
}

// RecordPayment records a payment against the invoice.
// The amount must be positive, in the invoice currency, and must not exceed
// the outstanding amount.
func (inv *Invoice) RecordPayment(amount valueobject.Money, method PaymentMethod, reference, note string) (*PaymentRecord, error) {
	if !inv.Status.CanRecordPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record payment on invoice in %s status", inv.Status))
	}
	if amount.Currency() != inv.Currency {
		return nil, shared.ErrCurrencyMismatch
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(inv.OutstandingAmount) {
		return nil, shared.NewDomainError("EXCEEDS_OUTSTANDING",
			fmt.Sprintf("Payment amount %s exceeds outstanding amount %s",
				amount.Amount().StringFixed(2), inv.OutstandingAmount.StringFixed(2)))
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}

	record := PaymentRecord{
		ID:         uuid.New(),
		Amount:     amount.Amount(),
		Method:     method,
		Reference:  reference,
		ReceivedAt: time.Now(),
		Note:       note,
	}
	inv.PaymentRecords = append(inv.PaymentRecords, record)

	inv.PaidAmount = inv.PaidAmount.Add(amount.Amount())
	inv.OutstandingAmount = inv.Total.Sub(inv.PaidAmount)

	if inv.OutstandingAmount.IsZero() {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
		inv.AddDomainEvent(NewInvoicePaidEvent(inv))
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
		inv.AddDomainEvent(NewInvoicePaymentRecordedEvent(inv, &record))
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return &record, nil
}

// Cancel voids the invoice. Only allowed before any payment has been recorded.
func (inv *Invoice) Cancel(reason string) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel invoice in %s status", inv.Status))
	}
	if inv.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.ErrHasPayments
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	inv.Status = InvoiceStatusCancelled
	inv.CancelledAt = &now
	inv.CancelReason = reason
	inv.OutstandingAmount = decimal.Zero
	inv.UpdatedAt = now
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// SetDueDate updates the due date
func (inv *Invoice) SetDueDate(dueDate *time.Time) error {
	if inv.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify due date in terminal state")
	}
	inv.DueDate = dueDate
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// SetNotes sets free-form notes
func (inv *Invoice) SetNotes(notes string) {
	inv.Notes = notes
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
}

// MarkFromQuotation links the invoice to the quotation it was converted from
func (inv *Invoice) MarkFromQuotation(quotationID uuid.UUID) {
	inv.QuotationID = &quotationID
}

// GetTotalMoney returns the grand total as Money
func (inv *Invoice) GetTotalMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.Total, inv.Currency)
	return m
}

// GetOutstandingMoney returns the outstanding amount as Money
func (inv *Invoice) GetOutstandingMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(inv.OutstandingAmount, inv.Currency)
	return m
}

// NetRevenue returns revenue excluding VAT (the basis for margin reporting)
func (inv *Invoice) NetRevenue() decimal.Decimal {
	return inv.Subtotal
}

// IsOverdue returns true if the invoice is past due and not settled
func (inv *Invoice) IsOverdue() bool {
	if inv.Status.IsTerminal() || inv.Status == InvoiceStatusDraft {
		return false
	}
	if inv.DueDate == nil {
		return false
	}
	return time.Now().After(*inv.DueDate)
}

// DaysOverdue returns the number of days past due (0 if not overdue)
func (inv *Invoice) DaysOverdue() int {
	if !inv.IsOverdue() {
		return 0
	}
	return int(time.Since(*inv.DueDate).Hours() / 24)
}

// PaymentCount returns the number of payments recorded
func (inv *Invoice) PaymentCount() int {
	return len(inv.PaymentRecords)
}
