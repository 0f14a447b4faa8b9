package billing

import (
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is a billable row on an invoice or quotation. Amounts are derived
// from quantity and unit price; they are never accepted from input.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"` // percent, 0-100
	LineTotal   decimal.Decimal `json:"line_total"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	Position    int             `json:"position"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewLineItem creates a validated line item with derived amounts
func NewLineItem(description string, quantity, unitPrice, vatRate decimal.Decimal, position int) (LineItem, error) {
	if description == "" {
		return LineItem{}, shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
	}
	if len(description) > 500 {
		return LineItem{}, shared.NewDomainError("INVALID_LINE", "Line description cannot exceed 500 characters")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_UNIT_PRICE", "Line unit price cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(hundred) {
		return LineItem{}, shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}

	lineTotal := quantity.Mul(unitPrice).Round(2)
	return LineItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		VATRate:     vatRate,
		LineTotal:   lineTotal,
		VATAmount:   lineTotal.Mul(vatRate).Div(hundred).Round(2),
		Position:    position,
		CreatedAt:   time.Now(),
	}, nil
}

// DocumentTotals holds the derived totals of a line-item document
type DocumentTotals struct {
	Subtotal decimal.Decimal
	VATTotal decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals recomputes subtotal, VAT and grand total from line items
func CalculateTotals(lines []LineItem) DocumentTotals {
	subtotal := decimal.Zero
	vatTotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
		vatTotal = vatTotal.Add(line.VATAmount)
	}
	return DocumentTotals{
		Subtotal: subtotal,
		VATTotal: vatTotal,
		Total:    subtotal.Add(vatTotal),
	}
}

// LineItemInput is the raw input used to build document lines
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
}

// BuildLineItems validates and converts raw inputs into ordered line items
func BuildLineItems(inputs []LineItemInput) ([]LineItem, error) {
	lines := make([]LineItem, 0, len(inputs))
	for i, in := range inputs {
		line, err := NewLineItem(in.Description, in.Quantity, in.UnitPrice, in.VATRate, i)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}
