package billing

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// MaintenanceService runs the recurring billing housekeeping: expiring stale
// quotations and surfacing overdue invoices. Invoked by the scheduler.
type MaintenanceService struct {
	invoiceRepo   billing.InvoiceRepository
	quotationRepo billing.QuotationRepository
	logger        *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	invoiceRepo billing.InvoiceRepository,
	quotationRepo billing.QuotationRepository,
	logger *zap.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		invoiceRepo:   invoiceRepo,
		quotationRepo: quotationRepo,
		logger:        logger,
	}
}

// MaintenanceResult summarizes one housekeeping pass
type MaintenanceResult struct {
	QuotationsExpired int `json:"quotations_expired"`
	OverdueInvoices   int `json:"overdue_invoices"`
}

// ExpireStaleQuotations expires sent quotations whose validity lapsed before
// asOf. One failing quotation does not stop the sweep.
func (s *MaintenanceService) ExpireStaleQuotations(ctx context.Context, asOf time.Time) (int, error) {
	quotations, err := s.quotationRepo.FindExpirable(ctx, asOf)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range quotations {
		q := &quotations[i]
		if err := q.Expire(); err != nil {
			s.logger.Warn("Skipping quotation that cannot be expired",
				zap.String("quotation_id", q.ID.String()),
				zap.String("quotation_number", q.QuotationNumber),
				zap.Error(err))
			continue
		}
		if err := s.quotationRepo.Save(ctx, q); err != nil {
			s.logger.Error("Failed to save expired quotation",
				zap.String("quotation_id", q.ID.String()),
				zap.Error(err))
			continue
		}
		expired++
	}
	return expired, nil
}

// CountOverdueInvoices counts invoices past due as of the given time. The
// overdue state is derived from the due date rather than stored, so the
// nightly pass only reports it.
func (s *MaintenanceService) CountOverdueInvoices(ctx context.Context, asOf time.Time) (int, error) {
	invoices, err := s.invoiceRepo.FindOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}

	byOrg := make(map[string]int)
	for i := range invoices {
		byOrg[invoices[i].OrganizationID.String()]++
	}
	for orgID, count := range byOrg {
		s.logger.Info("Organization has overdue invoices",
			zap.String("organization_id", orgID),
			zap.Int("count", count))
	}
	return len(invoices), nil
}

// RunNightly executes one full housekeeping pass
func (s *MaintenanceService) RunNightly(ctx context.Context, asOf time.Time) (*MaintenanceResult, error) {
	expired, err := s.ExpireStaleQuotations(ctx, asOf)
	if err != nil {
		return nil, err
	}

	overdue, err := s.CountOverdueInvoices(ctx, asOf)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Billing maintenance pass finished",
		zap.Int("quotations_expired", expired),
		zap.Int("overdue_invoices", overdue))

	return &MaintenanceResult{
		QuotationsExpired: expired,
		OverdueInvoices:   overdue,
	}, nil
}
