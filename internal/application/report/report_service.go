package report

import (
	"context"
	"sort"
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/costing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const openInvoicePageSize = 1000

// ReportService derives read-only reporting views over billing and costing data
type ReportService struct {
	invoiceRepo billing.InvoiceRepository
	sheetRepo   costing.CostSheetRepository
}

// NewReportService creates a new report service
func NewReportService(invoiceRepo billing.InvoiceRepository, sheetRepo costing.CostSheetRepository) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		sheetRepo:   sheetRepo,
	}
}

// RevenueSummary aggregates issued invoices over the given issue-date range.
// Cancelled invoices are excluded.
func (s *ReportService) RevenueSummary(ctx context.Context, orgID uuid.UUID, req PeriodRequest) (*RevenueSummaryResponse, error) {
	if req.To.Before(req.From) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must not precede period start")
	}

	invoices, err := s.invoiceRepo.FindIssuedBetween(ctx, orgID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	resp := &RevenueSummaryResponse{
		From:             req.From,
		To:               req.To,
		InvoicedTotal:    decimal.Zero,
		NetTotal:         decimal.Zero,
		VATTotal:         decimal.Zero,
		PaidTotal:        decimal.Zero,
		OutstandingTotal: decimal.Zero,
	}

	months := make(map[string]*MonthlyRevenue)
	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == billing.InvoiceStatusCancelled {
			continue
		}

		resp.InvoicedTotal = resp.InvoicedTotal.Add(inv.Total)
		resp.NetTotal = resp.NetTotal.Add(inv.Subtotal)
		resp.VATTotal = resp.VATTotal.Add(inv.VATTotal)
		resp.PaidTotal = resp.PaidTotal.Add(inv.PaidAmount)
		resp.OutstandingTotal = resp.OutstandingTotal.Add(inv.OutstandingAmount)
		resp.InvoiceCount++
		if inv.Status == billing.InvoiceStatusPaid {
			resp.PaidCount++
		}

		if inv.IssueDate == nil {
			continue
		}
		key := inv.IssueDate.Format("2006-01")
		bucket, ok := months[key]
		if !ok {
			bucket = &MonthlyRevenue{
				Month:       key,
				Invoiced:    decimal.Zero,
				Paid:        decimal.Zero,
				Outstanding: decimal.Zero,
			}
			months[key] = bucket
		}
		bucket.Invoiced = bucket.Invoiced.Add(inv.Total)
		bucket.Paid = bucket.Paid.Add(inv.PaidAmount)
		bucket.Outstanding = bucket.Outstanding.Add(inv.OutstandingAmount)
		bucket.Count++
	}

	resp.Monthly = make([]MonthlyRevenue, 0, len(months))
	for _, bucket := range months {
		resp.Monthly = append(resp.Monthly, *bucket)
	}
	sort.Slice(resp.Monthly, func(i, j int) bool {
		return resp.Monthly[i].Month < resp.Monthly[j].Month
	})

	return resp, nil
}

// MarginReport joins committed cost sheets against invoice revenue for the
// period. Invoices without a cost sheet report zero committed cost.
func (s *ReportService) MarginReport(ctx context.Context, orgID uuid.UUID, req PeriodRequest) (*MarginReportResponse, error) {
	if req.To.Before(req.From) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end must not precede period start")
	}

	invoices, err := s.invoiceRepo.FindIssuedBetween(ctx, orgID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(invoices))
	for i := range invoices {
		if invoices[i].Status != billing.InvoiceStatusCancelled {
			ids = append(ids, invoices[i].ID)
		}
	}

	sheetsByInvoice := make(map[uuid.UUID]*costing.CostSheet, len(ids))
	if len(ids) > 0 {
		sheets, err := s.sheetRepo.FindByInvoiceIDs(ctx, orgID, ids)
		if err != nil {
			return nil, err
		}
		for i := range sheets {
			sheetsByInvoice[sheets[i].InvoiceID] = &sheets[i]
		}
	}

	resp := &MarginReportResponse{
		From:               req.From,
		To:                 req.To,
		Rows:               make([]MarginRow, 0, len(ids)),
		TotalNetRevenue:    decimal.Zero,
		TotalCommittedCost: decimal.Zero,
		TotalGrossProfit:   decimal.Zero,
		MarginPercent:      decimal.Zero,
	}

	for i := range invoices {
		inv := &invoices[i]
		if inv.Status == billing.InvoiceStatusCancelled {
			continue
		}

		committed := decimal.Zero
		sheet, hasSheet := sheetsByInvoice[inv.ID]
		if hasSheet {
			committed = sheet.CommittedCost()
		}

		margin := costing.ComputeMargin(inv.NetRevenue(), committed)
		resp.Rows = append(resp.Rows, MarginRow{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			NetRevenue:    margin.NetRevenue,
			CommittedCost: margin.CommittedCost,
			GrossProfit:   margin.GrossProfit,
			MarginPercent: margin.MarginPercent,
			HasCostSheet:  hasSheet,
		})

		resp.TotalNetRevenue = resp.TotalNetRevenue.Add(margin.NetRevenue)
		resp.TotalCommittedCost = resp.TotalCommittedCost.Add(margin.CommittedCost)
	}

	resp.TotalGrossProfit = resp.TotalNetRevenue.Sub(resp.TotalCommittedCost)
	if !resp.TotalNetRevenue.IsZero() {
		resp.MarginPercent = resp.TotalGrossProfit.
			Div(resp.TotalNetRevenue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return resp, nil
}

// AgingReport buckets open invoices by how many days they are overdue as of now
func (s *ReportService) AgingReport(ctx context.Context, orgID uuid.UUID) (*AgingReportResponse, error) {
	asOf := time.Now()

	open, err := s.findOpenInvoices(ctx, orgID)
	if err != nil {
		return nil, err
	}

	buckets := []AgingBucket{
		{Label: "current", Outstanding: decimal.Zero},
		{Label: "1-30", Outstanding: decimal.Zero},
		{Label: "31-60", Outstanding: decimal.Zero},
		{Label: "61-90", Outstanding: decimal.Zero},
		{Label: "90+", Outstanding: decimal.Zero},
	}

	resp := &AgingReportResponse{
		AsOf:             asOf,
		Invoices:         make([]AgingInvoice, 0, len(open)),
		OutstandingTotal: decimal.Zero,
	}

	for i := range open {
		inv := &open[i]
		days := inv.DaysOverdue()

		idx := 0
		switch {
		case days <= 0:
			idx = 0
		case days <= 30:
			idx = 1
		case days <= 60:
			idx = 2
		case days <= 90:
			idx = 3
		default:
			idx = 4
		}

		buckets[idx].Outstanding = buckets[idx].Outstanding.Add(inv.OutstandingAmount)
		buckets[idx].Count++
		resp.OutstandingTotal = resp.OutstandingTotal.Add(inv.OutstandingAmount)

		resp.Invoices = append(resp.Invoices, AgingInvoice{
			InvoiceID:     inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			CustomerName:  inv.CustomerName,
			DueDate:       inv.DueDate,
			Outstanding:   inv.OutstandingAmount,
			DaysOverdue:   days,
		})
	}

	sort.Slice(resp.Invoices, func(i, j int) bool {
		return resp.Invoices[i].DaysOverdue > resp.Invoices[j].DaysOverdue
	})

	resp.Buckets = buckets
	return resp, nil
}

// findOpenInvoices collects invoices that still carry an outstanding balance
func (s *ReportService) findOpenInvoices(ctx context.Context, orgID uuid.UUID) ([]billing.Invoice, error) {
	var open []billing.Invoice
	for _, status := range []billing.InvoiceStatus{billing.InvoiceStatusIssued, billing.InvoiceStatusPartiallyPaid} {
		st := status
		filter := billing.InvoiceFilter{
			Filter: shared.Filter{Page: 1, PageSize: openInvoicePageSize, OrderBy: "due_date", OrderDir: "asc"},
			Status: &st,
		}
		invoices, err := s.invoiceRepo.FindAllForOrg(ctx, orgID, filter)
		if err != nil {
			return nil, err
		}
		open = append(open, invoices...)
	}
	return open, nil
}
