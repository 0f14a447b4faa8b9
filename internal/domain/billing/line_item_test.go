package billing

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineItem(t *testing.T) {
	tests := []struct {
		name        string
		description string
		quantity    decimal.Decimal
		unitPrice   decimal.Decimal
		vatRate     decimal.Decimal
		wantErr     bool
		errCode     string
	}{
		{
			name:        "valid line",
			description: "Consulting services",
			quantity:    decimal.NewFromInt(10),
			unitPrice:   decimal.NewFromFloat(85.50),
			vatRate:     decimal.NewFromInt(19),
			wantErr:     false,
		},
		{
			name:        "empty description",
			description: "",
			quantity:    decimal.NewFromInt(1),
			unitPrice:   decimal.NewFromInt(100),
			vatRate:     decimal.NewFromInt(19),
			wantErr:     true,
			errCode:     "INVALID_LINE",
		},
		{
			name:        "description too long",
			description: strings.Repeat("x", 501),
			quantity:    decimal.NewFromInt(1),
			unitPrice:   decimal.NewFromInt(100),
			vatRate:     decimal.NewFromInt(19),
			wantErr:     true,
			errCode:     "INVALID_LINE",
		},
		{
			name:        "zero quantity",
			description: "Widget",
			quantity:    decimal.Zero,
			unitPrice:   decimal.NewFromInt(100),
			vatRate:     decimal.NewFromInt(19),
			wantErr:     true,
			errCode:     "INVALID_QUANTITY",
		},
		{
			name:        "negative quantity",
			description: "Widget",
			quantity:    decimal.NewFromInt(-1),
			unitPrice:   decimal.NewFromInt(100),
			vatRate:     decimal.NewFromInt(19),
			wantErr:     true,
			errCode:     "INVALID_QUANTITY",
		},
		{
			name:        "negative unit price",
			description: "Widget",
			quantity:    decimal.NewFromInt(1),
			unitPrice:   decimal.NewFromInt(-5),
			vatRate:     decimal.NewFromInt(19),
			wantErr:     true,
			errCode:     "INVALID_UNIT_PRICE",
		},
		{
			name:        "zero unit price is allowed",
			description: "Free sample",
			quantity:    decimal.NewFromInt(1),
			unitPrice:   decimal.Zero,
			vatRate:     decimal.NewFromInt(19),
			wantErr:     false,
		},
		{
			name:        "VAT rate over 100",
			description: "Widget",
			quantity:    decimal.NewFromInt(1),
			unitPrice:   decimal.NewFromInt(100),
			vatRate:     decimal.NewFromInt(101),
			wantErr:     true,
			errCode:     "INVALID_VAT_RATE",
		},
		{
			name:        "negative VAT rate",
			description: "Widget",
			quantity:    decimal.NewFromInt(1),
			unitPrice:   decimal.NewFromInt(100),
			vatRate:     decimal.NewFromInt(-1),
			wantErr:     true,
			errCode:     "INVALID_VAT_RATE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := NewLineItem(tt.description, tt.quantity, tt.unitPrice, tt.vatRate, 0)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errCode)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, "", line.ID.String())
			assert.Equal(t, tt.description, line.Description)
		})
	}
}

func TestLineItemDerivedAmounts(t *testing.T) {
	line, err := NewLineItem("Consulting", decimal.NewFromInt(10), decimal.NewFromFloat(85.50), decimal.NewFromInt(19), 0)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromFloat(855.00).Equal(line.LineTotal))
	assert.True(t, decimal.NewFromFloat(162.45).Equal(line.VATAmount))
}

func TestLineItemRounding(t *testing.T) {
	// 3 * 0.333 = 0.999, VAT 19% of 1.00 = 0.19
	line, err := NewLineItem("Tiny parts", decimal.NewFromInt(3), decimal.NewFromFloat(0.333), decimal.NewFromInt(19), 0)
	require.NoError(t, err)

	assert.Equal(t, "1.00", line.LineTotal.StringFixed(2))
	assert.Equal(t, "0.19", line.VATAmount.StringFixed(2))
}

func TestCalculateTotals(t *testing.T) {
	t.Run("empty lines produce zero totals", func(t *testing.T) {
		totals := CalculateTotals(nil)
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.VATTotal.IsZero())
		assert.True(t, totals.Total.IsZero())
	})

	t.Run("totals sum over lines", func(t *testing.T) {
		l1, err := NewLineItem("A", decimal.NewFromInt(2), decimal.NewFromInt(100), decimal.NewFromInt(19), 0)
		require.NoError(t, err)
		l2, err := NewLineItem("B", decimal.NewFromInt(1), decimal.NewFromInt(50), decimal.NewFromInt(7), 1)
		require.NoError(t, err)

		totals := CalculateTotals([]LineItem{l1, l2})
		assert.Equal(t, "250.00", totals.Subtotal.StringFixed(2))
		assert.Equal(t, "41.50", totals.VATTotal.StringFixed(2))
		assert.Equal(t, "291.50", totals.Total.StringFixed(2))
	})
}

func TestBuildLineItems(t *testing.T) {
	t.Run("assigns positions in input order", func(t *testing.T) {
		lines, err := BuildLineItems([]LineItemInput{
			{Description: "First", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), VATRate: decimal.NewFromInt(19)},
			{Description: "Second", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20), VATRate: decimal.NewFromInt(19)},
		})
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, 0, lines[0].Position)
		assert.Equal(t, 1, lines[1].Position)
	})

	t.Run("fails on first invalid input", func(t *testing.T) {
		_, err := BuildLineItems([]LineItemInput{
			{Description: "Valid", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), VATRate: decimal.NewFromInt(19)},
			{Description: "", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10), VATRate: decimal.NewFromInt(19)},
		})
		assert.Error(t, err)
	})
}
