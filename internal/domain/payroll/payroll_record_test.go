package payroll

import (
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRecord(t *testing.T) *PayrollRecord {
	t.Helper()
	emp := createTestEmployee(t)
	record, err := NewPayrollRecord(emp.OrganizationID, emp, NewPeriod(2026, time.July), emp.BaseSalary, []PayComponent{
		{Label: "Overtime", Kind: PayComponentAddition, Amount: decimal.NewFromInt(300)},
		{Label: "Income tax", Kind: PayComponentDeduction, Amount: decimal.NewFromInt(1100)},
	})
	require.NoError(t, err)
	return record
}

func TestParsePeriod(t *testing.T) {
	t.Run("valid period", func(t *testing.T) {
		p, err := ParsePeriod("2026-07")
		require.NoError(t, err)
		assert.Equal(t, "2026-07", p.String())
		assert.Equal(t, "2026-06", p.Previous().String())
		assert.Equal(t, "2026-08", p.Next().String())
	})

	t.Run("invalid formats", func(t *testing.T) {
		for _, s := range []string{"2026", "2026-13", "07-2026", "2026-7", "garbage"} {
			_, err := ParsePeriod(s)
			assert.Error(t, err, s)
		}
	})
}

func TestNewPayrollRecord(t *testing.T) {
	t.Run("derives net pay from gross and components", func(t *testing.T) {
		record := createTestRecord(t)

		// 4200 + 300 - 1100
		assert.Equal(t, "3400.00", record.NetPay.StringFixed(2))
		assert.Equal(t, PayrollStatusDraft, record.Status)
		assert.True(t, record.IsDeletable())
	})

	t.Run("no components means net equals gross", func(t *testing.T) {
		emp := createTestEmployee(t)
		record, err := NewPayrollRecord(emp.OrganizationID, emp, NewPeriod(2026, time.July), decimal.NewFromInt(4200), nil)

		require.NoError(t, err)
		assert.Equal(t, "4200.00", record.NetPay.StringFixed(2))
	})

	t.Run("rejects employee from another organization", func(t *testing.T) {
		emp := createTestEmployee(t)
		_, err := NewPayrollRecord(uuid.New(), emp, NewPeriod(2026, time.July), emp.BaseSalary, nil)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("rejects period before hire", func(t *testing.T) {
		emp := createTestEmployee(t) // hired 2024-03-01
		_, err := NewPayrollRecord(emp.OrganizationID, emp, NewPeriod(2023, time.December), emp.BaseSalary, nil)
		assert.ErrorContains(t, err, "NOT_EMPLOYED")
	})

	t.Run("rejects negative gross", func(t *testing.T) {
		emp := createTestEmployee(t)
		_, err := NewPayrollRecord(emp.OrganizationID, emp, NewPeriod(2026, time.July), decimal.NewFromInt(-1), nil)
		assert.ErrorContains(t, err, "INVALID_GROSS")
	})

	t.Run("rejects invalid component", func(t *testing.T) {
		emp := createTestEmployee(t)
		tests := []struct {
			name string
			comp PayComponent
		}{
			{"empty label", PayComponent{Label: "", Kind: PayComponentAddition, Amount: decimal.NewFromInt(1)}},
			{"unknown kind", PayComponent{Label: "X", Kind: PayComponentKind("REFUND"), Amount: decimal.NewFromInt(1)}},
			{"zero amount", PayComponent{Label: "X", Kind: PayComponentAddition, Amount: decimal.Zero}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewPayrollRecord(emp.OrganizationID, emp, NewPeriod(2026, time.July), emp.BaseSalary, []PayComponent{tt.comp})
				assert.ErrorContains(t, err, "INVALID_COMPONENT")
			})
		}
	})
}

func TestPayrollRecordUpdateDraft(t *testing.T) {
	t.Run("applies amounts and notes with one version bump", func(t *testing.T) {
		record := createTestRecord(t)
		versionBefore := record.Version

		err := record.UpdateDraft(decimal.NewFromInt(5000), []PayComponent{
			{Label: "Income tax", Kind: PayComponentDeduction, Amount: decimal.NewFromInt(1500)},
		}, "salary review")
		require.NoError(t, err)

		assert.Equal(t, "3500.00", record.NetPay.StringFixed(2))
		assert.Equal(t, "salary review", record.Notes)
		assert.Equal(t, versionBefore+1, record.Version)
	})

	t.Run("rejects edits after approval", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Approve())

		err := record.UpdateDraft(decimal.NewFromInt(100), nil, "")
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestPayrollRecordUpdateAmounts(t *testing.T) {
	t.Run("rederives net pay", func(t *testing.T) {
		record := createTestRecord(t)

		err := record.UpdateAmounts(decimal.NewFromInt(4500), []PayComponent{
			{Label: "Income tax", Kind: PayComponentDeduction, Amount: decimal.NewFromInt(1200)},
		})

		require.NoError(t, err)
		assert.Equal(t, "3300.00", record.NetPay.StringFixed(2))
	})

	t.Run("rejected after approval", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Approve())

		err := record.UpdateAmounts(decimal.NewFromInt(1), nil)
		assert.ErrorContains(t, err, "INVALID_STATE")
	})
}

func TestPayrollRecordLifecycle(t *testing.T) {
	t.Run("draft to approved to paid", func(t *testing.T) {
		record := createTestRecord(t)

		require.NoError(t, record.Approve())
		assert.Equal(t, PayrollStatusApproved, record.Status)
		assert.NotNil(t, record.ApprovedAt)
		assert.False(t, record.IsDeletable())

		require.NoError(t, record.MarkPaid())
		assert.Equal(t, PayrollStatusPaid, record.Status)
		assert.NotNil(t, record.PaidAt)
	})

	t.Run("cannot pay a draft", func(t *testing.T) {
		record := createTestRecord(t)
		assert.ErrorContains(t, record.MarkPaid(), "INVALID_STATE")
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Approve())
		assert.ErrorContains(t, record.Approve(), "INVALID_STATE")
	})

	t.Run("cannot approve negative net pay", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.UpdateAmounts(decimal.NewFromInt(1000), []PayComponent{
			{Label: "Advance repayment", Kind: PayComponentDeduction, Amount: decimal.NewFromInt(1500)},
		}))

		assert.ErrorContains(t, record.Approve(), "NEGATIVE_NET")
	})

	t.Run("cannot pay twice", func(t *testing.T) {
		record := createTestRecord(t)
		require.NoError(t, record.Approve())
		require.NoError(t, record.MarkPaid())
		assert.ErrorContains(t, record.MarkPaid(), "INVALID_STATE")
	})
}
