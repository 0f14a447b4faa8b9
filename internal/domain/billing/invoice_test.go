package billing

import (
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLines(t *testing.T) []LineItem {
	t.Helper()
	lines, err := BuildLineItems([]LineItemInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100), VATRate: decimal.NewFromInt(19)},
		{Description: "Travel", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200), VATRate: decimal.NewFromInt(7)},
	})
	require.NoError(t, err)
	return lines
}

func createTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	due := time.Now().AddDate(0, 0, 14)
	inv, err := NewInvoice(uuid.New(), uuid.New(), "Acme GmbH", valueobject.EUR, &due, testLines(t))
	require.NoError(t, err)
	return inv
}

func createIssuedInvoice(t *testing.T) *Invoice {
	t.Helper()
	inv := createTestInvoice(t)
	require.NoError(t, inv.Issue("INV-2026-0001", time.Now()))
	return inv
}

func eur(t *testing.T, amount float64) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyFromFloat(amount, valueobject.EUR)
	require.NoError(t, err)
	return m
}

func TestNewInvoice(t *testing.T) {
	tests := []struct {
		name         string
		orgID        uuid.UUID
		customerID   uuid.UUID
		customerName string
		currency     valueobject.Currency
		wantErr      bool
		errCode      string
	}{
		{
			name:         "valid invoice",
			orgID:        uuid.New(),
			customerID:   uuid.New(),
			customerName: "Acme GmbH",
			currency:     valueobject.EUR,
			wantErr:      false,
		},
		{
			name:         "empty organization",
			orgID:        uuid.Nil,
			customerID:   uuid.New(),
			customerName: "Acme GmbH",
			currency:     valueobject.EUR,
			wantErr:      true,
			errCode:      "INVALID_ORGANIZATION",
		},
		{
			name:         "empty customer",
			orgID:        uuid.New(),
			customerID:   uuid.Nil,
			customerName: "Acme GmbH",
			currency:     valueobject.EUR,
			wantErr:      true,
			errCode:      "INVALID_CUSTOMER",
		},
		{
			name:         "empty customer name",
			orgID:        uuid.New(),
			customerID:   uuid.New(),
			customerName: "",
			currency:     valueobject.EUR,
			wantErr:      true,
			errCode:      "INVALID_CUSTOMER_NAME",
		},
		{
			name:         "invalid currency",
			orgID:        uuid.New(),
			customerID:   uuid.New(),
			customerName: "Acme GmbH",
			currency:     valueobject.Currency("XXX"),
			wantErr:      true,
			errCode:      "INVALID_CURRENCY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := NewInvoice(tt.orgID, tt.customerID, tt.customerName, tt.currency, nil, nil)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, InvoiceStatusDraft, inv.Status)
			assert.Equal(t, "", inv.InvoiceNumber)
			assert.Nil(t, inv.IssueDate)
			assert.Len(t, inv.GetDomainEvents(), 1)
		})
	}
}

func TestInvoiceTotals(t *testing.T) {
	inv := createTestInvoice(t)

	// 10*100 + 1*200 = 1200, VAT 190 + 14 = 204
	assert.Equal(t, "1200.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "204.00", inv.VATTotal.StringFixed(2))
	assert.Equal(t, "1404.00", inv.Total.StringFixed(2))
	assert.Equal(t, "1404.00", inv.OutstandingAmount.StringFixed(2))
	assert.True(t, inv.PaidAmount.IsZero())
	assert.Equal(t, "1200.00", inv.NetRevenue().StringFixed(2))
}

func TestInvoiceUpdateDraft(t *testing.T) {
	t.Run("applies lines, due date and notes with one version bump", func(t *testing.T) {
		inv := createTestInvoice(t)
		versionBefore := inv.Version

		lines, err := BuildLineItems([]LineItemInput{
			{Description: "Revised item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(250), VATRate: decimal.Zero},
		})
		require.NoError(t, err)
		due := time.Now().AddDate(0, 1, 0)

		require.NoError(t, inv.UpdateDraft(lines, &due, "revised scope"))

		assert.Equal(t, "250.00", inv.Total.StringFixed(2))
		assert.Equal(t, "revised scope", inv.Notes)
		require.NotNil(t, inv.DueDate)
		assert.Equal(t, versionBefore+1, inv.Version)
	})

	t.Run("rejects update after issuing", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		err := inv.UpdateDraft(testLines(t), nil, "")
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestInvoiceReplaceLines(t *testing.T) {
	t.Run("replaces lines and recalculates on draft", func(t *testing.T) {
		inv := createTestInvoice(t)

		lines, err := BuildLineItems([]LineItemInput{
			{Description: "Single item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), VATRate: decimal.Zero},
		})
		require.NoError(t, err)

		require.NoError(t, inv.ReplaceLines(lines))
		assert.Equal(t, "100.00", inv.Total.StringFixed(2))
		assert.Equal(t, "100.00", inv.OutstandingAmount.StringFixed(2))
	})

	t.Run("rejects replacement after issuing", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		err := inv.ReplaceLines(testLines(t))
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestInvoiceIssue(t *testing.T) {
	t.Run("issues a draft with lines", func(t *testing.T) {
		inv := createTestInvoice(t)
		issueDate := time.Now()

		err := inv.Issue("INV-2026-0042", issueDate)

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusIssued, inv.Status)
		assert.Equal(t, "INV-2026-0042", inv.InvoiceNumber)
		require.NotNil(t, inv.IssueDate)
		assert.WithinDuration(t, issueDate, *inv.IssueDate, time.Second)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		inv := createTestInvoice(t)
		err := inv.Issue("", time.Now())
		assert.ErrorContains(t, err, "INVALID_NUMBER")
	})

	t.Run("rejects invoice without lines", func(t *testing.T) {
		due := time.Now().AddDate(0, 0, 14)
		inv, err := NewInvoice(uuid.New(), uuid.New(), "Acme GmbH", valueobject.EUR, &due, nil)
		require.NoError(t, err)

		err = inv.Issue("INV-2026-0001", time.Now())
		assert.ErrorContains(t, err, "EMPTY_INVOICE")
	})

	t.Run("rejects double issue", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		err := inv.Issue("INV-2026-0002", time.Now())
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestInvoiceRecordPayment(t *testing.T) {
	t.Run("partial payment moves to partially paid", func(t *testing.T) {
		inv := createIssuedInvoice(t)

		record, err := inv.RecordPayment(eur(t, 404), PaymentMethodBankTransfer, "TRX-1", "")

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPartiallyPaid, inv.Status)
		assert.Equal(t, "404.00", inv.PaidAmount.StringFixed(2))
		assert.Equal(t, "1000.00", inv.OutstandingAmount.StringFixed(2))
		assert.Equal(t, "TRX-1", record.Reference)
		assert.Equal(t, 1, inv.PaymentCount())
	})

	t.Run("full payment settles the invoice", func(t *testing.T) {
		inv := createIssuedInvoice(t)

		_, err := inv.RecordPayment(eur(t, 1404), PaymentMethodCard, "", "")

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.OutstandingAmount.IsZero())
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("sequence of payments settles exactly", func(t *testing.T) {
		inv := createIssuedInvoice(t)

		_, err := inv.RecordPayment(eur(t, 1000), PaymentMethodBankTransfer, "", "")
		require.NoError(t, err)
		_, err = inv.RecordPayment(eur(t, 404), PaymentMethodCash, "", "final")
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.Equal(t, 2, inv.PaymentCount())
	})

	t.Run("rejects payment on draft", func(t *testing.T) {
		inv := createTestInvoice(t)
		_, err := inv.RecordPayment(eur(t, 100), PaymentMethodCash, "", "")
		assert.ErrorContains(t, err, "INVALID_STATE")
	})

	t.Run("rejects currency mismatch", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		usd, err := valueobject.NewMoneyFromFloat(100, valueobject.USD)
		require.NoError(t, err)

		_, err = inv.RecordPayment(usd, PaymentMethodCash, "", "")
		assert.ErrorIs(t, err, shared.ErrCurrencyMismatch)
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		_, err := inv.RecordPayment(eur(t, 1404.01), PaymentMethodCash, "", "")
		assert.ErrorContains(t, err, "EXCEEDS_OUTSTANDING")
	})

	t.Run("rejects zero amount", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		zero := valueobject.ZeroEUR()
		_, err := inv.RecordPayment(zero, PaymentMethodCash, "", "")
		assert.ErrorContains(t, err, "INVALID_AMOUNT")
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		_, err := inv.RecordPayment(eur(t, 100), PaymentMethod("CHEQUE"), "", "")
		assert.ErrorContains(t, err, "INVALID_METHOD")
	})

	t.Run("rejects payment on paid invoice", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		_, err := inv.RecordPayment(eur(t, 1404), PaymentMethodCard, "", "")
		require.NoError(t, err)

		_, err = inv.RecordPayment(eur(t, 1), PaymentMethodCash, "", "")
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestInvoiceCancel(t *testing.T) {
	t.Run("cancels an unpaid issued invoice", func(t *testing.T) {
		inv := createIssuedInvoice(t)

		err := inv.Cancel("customer withdrew the order")

		require.NoError(t, err)
		assert.Equal(t, InvoiceStatusCancelled, inv.Status)
		assert.True(t, inv.OutstandingAmount.IsZero())
		assert.NotNil(t, inv.CancelledAt)
		assert.Equal(t, "customer withdrew the order", inv.CancelReason)
	})

	t.Run("cancels a draft", func(t *testing.T) {
		inv := createTestInvoice(t)
		assert.NoError(t, inv.Cancel("duplicate"))
	})

	t.Run("rejects cancellation once payments exist", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		_, err := inv.RecordPayment(eur(t, 100), PaymentMethodCash, "", "")
		require.NoError(t, err)

		err = inv.Cancel("too late")
		assert.ErrorIs(t, err, shared.ErrHasPayments)
	})

	t.Run("requires a reason", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		err := inv.Cancel("")
		assert.ErrorContains(t, err, "INVALID_REASON")
	})

	t.Run("rejects cancelling a paid invoice", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		_, err := inv.RecordPayment(eur(t, 1404), PaymentMethodCard, "", "")
		require.NoError(t, err)

		err = inv.Cancel("no")
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestInvoiceSetDueDate(t *testing.T) {
	t.Run("moves the due date of an issued invoice", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		versionBefore := inv.Version
		due := time.Now().AddDate(0, 1, 0)

		require.NoError(t, inv.SetDueDate(&due))

		require.NotNil(t, inv.DueDate)
		assert.True(t, inv.DueDate.Equal(due))
		assert.Equal(t, versionBefore+1, inv.Version)
	})

	t.Run("clears the due date", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		due := time.Now().AddDate(0, 0, 30)
		require.NoError(t, inv.SetDueDate(&due))

		require.NoError(t, inv.SetDueDate(nil))
		assert.Nil(t, inv.DueDate)
	})

	t.Run("rejects a cancelled invoice", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		require.NoError(t, inv.Cancel("duplicate"))
		due := time.Now().AddDate(0, 0, 30)

		err := inv.SetDueDate(&due)
		assert.ErrorContains(t, err, "INVALID_STATE")
	})

	t.Run("rejects a paid invoice", func(t *testing.T) {
		inv := createIssuedInvoice(t)
		_, err := inv.RecordPayment(eur(t, 1404), PaymentMethodCard, "", "")
		require.NoError(t, err)
		due := time.Now().AddDate(0, 0, 30)

		err = inv.SetDueDate(&due)
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestInvoiceOverdue(t *testing.T) {
	t.Run("issued invoice past due date is overdue", func(t *testing.T) {
		inv := createTestInvoice(t)
		past := time.Now().AddDate(0, 0, -5)
		inv.DueDate = &past
		require.NoError(t, inv.Issue("INV-2026-0001", time.Now().AddDate(0, 0, -10)))

		assert.True(t, inv.IsOverdue())
		assert.Equal(t, 5, inv.DaysOverdue())
	})

	t.Run("draft is never overdue", func(t *testing.T) {
		inv := createTestInvoice(t)
		past := time.Now().AddDate(0, 0, -5)
		inv.DueDate = &past

		assert.False(t, inv.IsOverdue())
		assert.Equal(t, 0, inv.DaysOverdue())
	})

	t.Run("paid invoice is not overdue", func(t *testing.T) {
		inv := createTestInvoice(t)
		past := time.Now().AddDate(0, 0, -5)
		inv.DueDate = &past
		require.NoError(t, inv.Issue("INV-2026-0001", time.Now().AddDate(0, 0, -10)))
		_, err := inv.RecordPayment(eur(t, 1404), PaymentMethodCard, "", "")
		require.NoError(t, err)

		assert.False(t, inv.IsOverdue())
	})

	t.Run("no due date means not overdue", func(t *testing.T) {
		inv := createTestInvoice(t)
		inv.DueDate = nil
		require.NoError(t, inv.Issue("INV-2026-0001", time.Now()))

		assert.False(t, inv.IsOverdue())
	})
}

func TestInvoiceQuotationLink(t *testing.T) {
	inv := createTestInvoice(t)
	quotationID := uuid.New()

	inv.MarkFromQuotation(quotationID)

	require.NotNil(t, inv.QuotationID)
	assert.Equal(t, quotationID, *inv.QuotationID)
}

func TestPaymentRecordsScanValue(t *testing.T) {
	t.Run("nil slice serializes to empty array", func(t *testing.T) {
		var records PaymentRecords
		v, err := records.Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("round trip through JSONB", func(t *testing.T) {
		records := PaymentRecords{
			{ID: uuid.New(), Amount: decimal.NewFromInt(100), Method: PaymentMethodCash, ReceivedAt: time.Now().UTC()},
		}

		v, err := records.Value()
		require.NoError(t, err)

		var scanned PaymentRecords
		require.NoError(t, scanned.Scan(v))
		require.Len(t, scanned, 1)
		assert.Equal(t, records[0].ID, scanned[0].ID)
		assert.True(t, records[0].Amount.Equal(scanned[0].Amount))
	})

	t.Run("scan nil yields empty slice", func(t *testing.T) {
		var scanned PaymentRecords
		require.NoError(t, scanned.Scan(nil))
		assert.Empty(t, scanned)
	})

	t.Run("scan rejects unsupported type", func(t *testing.T) {
		var scanned PaymentRecords
		assert.Error(t, scanned.Scan(42))
	})
}
