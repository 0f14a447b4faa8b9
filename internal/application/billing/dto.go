package billing

import (
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItemRequest represents one document line in a request
type LineItemRequest struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	VATRate     decimal.Decimal `json:"vat_rate"`
}

// LineItemResponse represents one document line in API responses
type LineItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	Position    int             `json:"position"`
}

func toLineInputs(lines []LineItemRequest) []billing.LineItemInput {
	inputs := make([]billing.LineItemInput, len(lines))
	for i, l := range lines {
		inputs[i] = billing.LineItemInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
		}
	}
	return inputs
}

func toLineResponses(lines []billing.LineItem) []LineItemResponse {
	responses := make([]LineItemResponse, len(lines))
	for i, l := range lines {
		responses[i] = LineItemResponse{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
			LineTotal:   l.LineTotal,
			VATAmount:   l.VATAmount,
			Position:    l.Position,
		}
	}
	return responses
}

// CreateInvoiceRequest represents a request to create a draft invoice
type CreateInvoiceRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	Currency   string            `json:"currency" binding:"omitempty,len=3"`
	DueDate    *time.Time        `json:"due_date"`
	Lines      []LineItemRequest `json:"lines" binding:"omitempty,dive"`
	Notes      string            `json:"notes"`
}

// UpdateInvoiceRequest represents a request to update a draft invoice
type UpdateInvoiceRequest struct {
	DueDate *time.Time        `json:"due_date"`
	Lines   []LineItemRequest `json:"lines" binding:"omitempty,dive"`
	Notes   *string           `json:"notes"`
}

// UpdateDueDateRequest changes the payment deadline of an invoice
type UpdateDueDateRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// RecordPaymentRequest represents a payment against an issued invoice
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD GATEWAY"`
	Reference string          `json:"reference" binding:"max=100"`
	Note      string          `json:"note" binding:"max=500"`
}

// CancelInvoiceRequest represents an invoice cancellation
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// PaymentRecordResponse represents one recorded payment
type PaymentRecordResponse struct {
	ID         uuid.UUID       `json:"id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"`
	Reference  string          `json:"reference,omitempty"`
	ReceivedAt time.Time       `json:"received_at"`
	Note       string          `json:"note,omitempty"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID                uuid.UUID               `json:"id"`
	OrganizationID    uuid.UUID               `json:"organization_id"`
	InvoiceNumber     string                  `json:"invoice_number,omitempty"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	CustomerName      string                  `json:"customer_name"`
	Currency          string                  `json:"currency"`
	IssueDate         *time.Time              `json:"issue_date,omitempty"`
	DueDate           *time.Time              `json:"due_date,omitempty"`
	Lines             []LineItemResponse      `json:"lines"`
	Subtotal          decimal.Decimal         `json:"subtotal"`
	VATTotal          decimal.Decimal         `json:"vat_total"`
	Total             decimal.Decimal         `json:"total"`
	PaidAmount        decimal.Decimal         `json:"paid_amount"`
	OutstandingAmount decimal.Decimal         `json:"outstanding_amount"`
	Status            string                  `json:"status"`
	Payments          []PaymentRecordResponse `json:"payments"`
	QuotationID       *uuid.UUID              `json:"quotation_id,omitempty"`
	Notes             string                  `json:"notes,omitempty"`
	Overdue           bool                    `json:"overdue"`
	DaysOverdue       int                     `json:"days_overdue"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	CancelledAt       *time.Time              `json:"cancelled_at,omitempty"`
	CancelReason      string                  `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	UpdatedAt         time.Time               `json:"updated_at"`
	Version           int                     `json:"version"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT ISSUED PARTIALLY_PAID PAID CANCELLED"`
	CustomerID *uuid.UUID `form:"customer_id"`
	IssuedFrom *time.Time `form:"issued_from" time_format:"2006-01-02"`
	IssuedTo   *time.Time `form:"issued_to" time_format:"2006-01-02"`
	Overdue    bool       `form:"overdue"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToInvoiceResponse converts a domain invoice to a response DTO
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	payments := make([]PaymentRecordResponse, len(inv.PaymentRecords))
	for i, p := range inv.PaymentRecords {
		payments[i] = PaymentRecordResponse{
			ID:         p.ID,
			Amount:     p.Amount,
			Method:     string(p.Method),
			Reference:  p.Reference,
			ReceivedAt: p.ReceivedAt,
			Note:       p.Note,
		}
	}

	return InvoiceResponse{
		ID:                inv.ID,
		OrganizationID:    inv.OrganizationID,
		InvoiceNumber:     inv.InvoiceNumber,
		CustomerID:        inv.CustomerID,
		CustomerName:      inv.CustomerName,
		Currency:          string(inv.Currency),
		IssueDate:         inv.IssueDate,
		DueDate:           inv.DueDate,
		Lines:             toLineResponses(inv.Lines),
		Subtotal:          inv.Subtotal,
		VATTotal:          inv.VATTotal,
		Total:             inv.Total,
		PaidAmount:        inv.PaidAmount,
		OutstandingAmount: inv.OutstandingAmount,
		Status:            string(inv.Status),
		Payments:          payments,
		QuotationID:       inv.QuotationID,
		Notes:             inv.Notes,
		Overdue:           inv.IsOverdue(),
		DaysOverdue:       inv.DaysOverdue(),
		PaidAt:            inv.PaidAt,
		CancelledAt:       inv.CancelledAt,
		CancelReason:      inv.CancelReason,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
		Version:           inv.Version,
	}
}

// CreateQuotationRequest represents a request to create a draft quotation
type CreateQuotationRequest struct {
	CustomerID uuid.UUID         `json:"customer_id" binding:"required"`
	Currency   string            `json:"currency" binding:"omitempty,len=3"`
	ValidUntil *time.Time        `json:"valid_until"`
	Lines      []LineItemRequest `json:"lines" binding:"omitempty,dive"`
	Notes      string            `json:"notes"`
}

// UpdateQuotationRequest represents a request to update a draft quotation
type UpdateQuotationRequest struct {
	ValidUntil *time.Time        `json:"valid_until"`
	Lines      []LineItemRequest `json:"lines" binding:"omitempty,dive"`
	Notes      *string           `json:"notes"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID                 uuid.UUID          `json:"id"`
	OrganizationID     uuid.UUID          `json:"organization_id"`
	QuotationNumber    string             `json:"quotation_number"`
	CustomerID         uuid.UUID          `json:"customer_id"`
	CustomerName       string             `json:"customer_name"`
	Currency           string             `json:"currency"`
	ValidUntil         *time.Time         `json:"valid_until,omitempty"`
	Lines              []LineItemResponse `json:"lines"`
	Subtotal           decimal.Decimal    `json:"subtotal"`
	VATTotal           decimal.Decimal    `json:"vat_total"`
	Total              decimal.Decimal    `json:"total"`
	Status             string             `json:"status"`
	ConvertedInvoiceID *uuid.UUID         `json:"converted_invoice_id,omitempty"`
	Notes              string             `json:"notes,omitempty"`
	SentAt             *time.Time         `json:"sent_at,omitempty"`
	DecidedAt          *time.Time         `json:"decided_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	Version            int                `json:"version"`
}

// QuotationListFilter represents filter options for the quotation list
type QuotationListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=DRAFT SENT ACCEPTED DECLINED EXPIRED"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToQuotationResponse converts a domain quotation to a response DTO
func ToQuotationResponse(q *billing.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:                 q.ID,
		OrganizationID:     q.OrganizationID,
		QuotationNumber:    q.QuotationNumber,
		CustomerID:         q.CustomerID,
		CustomerName:       q.CustomerName,
		Currency:           string(q.Currency),
		ValidUntil:         q.ValidUntil,
		Lines:              toLineResponses(q.Lines),
		Subtotal:           q.Subtotal,
		VATTotal:           q.VATTotal,
		Total:              q.Total,
		Status:             string(q.Status),
		ConvertedInvoiceID: q.ConvertedInvoiceID,
		Notes:              q.Notes,
		SentAt:             q.SentAt,
		DecidedAt:          q.DecidedAt,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
		Version:            q.Version,
	}
}
