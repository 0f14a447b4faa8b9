package billing

import (
	"context"
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMaintenanceService() (*MaintenanceService, *MockInvoiceRepository, *MockQuotationRepository) {
	invoiceRepo := new(MockInvoiceRepository)
	quotationRepo := new(MockQuotationRepository)
	svc := NewMaintenanceService(invoiceRepo, quotationRepo, zap.NewNop())
	return svc, invoiceRepo, quotationRepo
}

func expirableQuotation(t *testing.T, orgID uuid.UUID, number string) *billing.Quotation {
	t.Helper()
	lines, err := billing.BuildLineItems([]billing.LineItemInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(5), UnitPrice: decimal.NewFromInt(120), VATRate: decimal.NewFromInt(19)},
	})
	require.NoError(t, err)
	validUntil := time.Now().AddDate(0, 0, -3)
	q, err := billing.NewQuotation(orgID, number, uuid.New(), "Acme GmbH", valueobject.EUR, &validUntil, lines)
	require.NoError(t, err)
	require.NoError(t, q.Send())
	return q
}

func TestMaintenanceServiceExpireStaleQuotations(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	asOf := time.Now()

	t.Run("expires every lapsed sent quotation", func(t *testing.T) {
		svc, _, quotationRepo := newMaintenanceService()
		first := expirableQuotation(t, orgID, "QUO-2026-0001")
		second := expirableQuotation(t, orgID, "QUO-2026-0002")

		quotationRepo.On("FindExpirable", ctx, asOf).Return([]billing.Quotation{*first, *second}, nil)
		quotationRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quotation")).Return(nil)

		expired, err := svc.ExpireStaleQuotations(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 2, expired)
		quotationRepo.AssertNumberOfCalls(t, "Save", 2)
	})

	t.Run("skips quotations that can no longer expire", func(t *testing.T) {
		svc, _, quotationRepo := newMaintenanceService()
		stale := expirableQuotation(t, orgID, "QUO-2026-0003")
		accepted := expirableQuotation(t, orgID, "QUO-2026-0004")
		require.NoError(t, accepted.Accept())

		quotationRepo.On("FindExpirable", ctx, asOf).Return([]billing.Quotation{*accepted, *stale}, nil)
		quotationRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quotation")).Return(nil)

		expired, err := svc.ExpireStaleQuotations(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 1, expired)
		quotationRepo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("keeps sweeping when a save fails", func(t *testing.T) {
		svc, _, quotationRepo := newMaintenanceService()
		first := expirableQuotation(t, orgID, "QUO-2026-0005")
		second := expirableQuotation(t, orgID, "QUO-2026-0006")

		quotationRepo.On("FindExpirable", ctx, asOf).Return([]billing.Quotation{*first, *second}, nil)
		quotationRepo.On("Save", ctx, mock.MatchedBy(func(q *billing.Quotation) bool {
			return q.ID == first.ID
		})).Return(assert.AnError)
		quotationRepo.On("Save", ctx, mock.MatchedBy(func(q *billing.Quotation) bool {
			return q.ID == second.ID
		})).Return(nil)

		expired, err := svc.ExpireStaleQuotations(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 1, expired)
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		svc, _, quotationRepo := newMaintenanceService()
		quotationRepo.On("FindExpirable", ctx, asOf).Return([]billing.Quotation(nil), assert.AnError)

		_, err := svc.ExpireStaleQuotations(ctx, asOf)

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestMaintenanceServiceCountOverdueInvoices(t *testing.T) {
	ctx := context.Background()
	asOf := time.Now()

	t.Run("counts invoices across organizations", func(t *testing.T) {
		svc, invoiceRepo, _ := newMaintenanceService()
		firstOrg := uuid.New()
		secondOrg := uuid.New()
		invoices := []billing.Invoice{
			*draftInvoice(t, firstOrg),
			*draftInvoice(t, firstOrg),
			*draftInvoice(t, secondOrg),
		}

		invoiceRepo.On("FindOverdue", ctx, asOf).Return(invoices, nil)

		count, err := svc.CountOverdueInvoices(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("returns zero when nothing is overdue", func(t *testing.T) {
		svc, invoiceRepo, _ := newMaintenanceService()
		invoiceRepo.On("FindOverdue", ctx, asOf).Return([]billing.Invoice{}, nil)

		count, err := svc.CountOverdueInvoices(ctx, asOf)

		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestMaintenanceServiceRunNightly(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	asOf := time.Now()

	t.Run("reports both sweep results", func(t *testing.T) {
		svc, invoiceRepo, quotationRepo := newMaintenanceService()
		stale := expirableQuotation(t, orgID, "QUO-2026-0007")

		quotationRepo.On("FindExpirable", ctx, asOf).Return([]billing.Quotation{*stale}, nil)
		quotationRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quotation")).Return(nil)
		invoiceRepo.On("FindOverdue", ctx, asOf).Return([]billing.Invoice{*draftInvoice(t, orgID)}, nil)

		result, err := svc.RunNightly(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 1, result.QuotationsExpired)
		assert.Equal(t, 1, result.OverdueInvoices)
	})

	t.Run("stops on quotation sweep failure", func(t *testing.T) {
		svc, invoiceRepo, quotationRepo := newMaintenanceService()
		quotationRepo.On("FindExpirable", ctx, asOf).Return([]billing.Quotation(nil), assert.AnError)

		_, err := svc.RunNightly(ctx, asOf)

		assert.ErrorIs(t, err, assert.AnError)
		invoiceRepo.AssertNotCalled(t, "FindOverdue")
	})
}
