package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodRequest bounds a report to an issue-date range
type PeriodRequest struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// MonthlyRevenue is one month's slice of the revenue summary
type MonthlyRevenue struct {
	Month       string          `json:"month"` // YYYY-MM
	Invoiced    decimal.Decimal `json:"invoiced"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Count       int             `json:"count"`
}

// RevenueSummaryResponse aggregates issued invoices over a period
type RevenueSummaryResponse struct {
	From             time.Time        `json:"from"`
	To               time.Time        `json:"to"`
	InvoicedTotal    decimal.Decimal  `json:"invoiced_total"`
	NetTotal         decimal.Decimal  `json:"net_total"`
	VATTotal         decimal.Decimal  `json:"vat_total"`
	PaidTotal        decimal.Decimal  `json:"paid_total"`
	OutstandingTotal decimal.Decimal  `json:"outstanding_total"`
	InvoiceCount     int              `json:"invoice_count"`
	PaidCount        int              `json:"paid_count"`
	Monthly          []MonthlyRevenue `json:"monthly"`
}

// MarginRow is the profitability of a single invoice
type MarginRow struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	CommittedCost decimal.Decimal `json:"committed_cost"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	HasCostSheet  bool            `json:"has_cost_sheet"`
}

// MarginReportResponse joins committed cost sheets against invoice revenue
type MarginReportResponse struct {
	From               time.Time       `json:"from"`
	To                 time.Time       `json:"to"`
	Rows               []MarginRow     `json:"rows"`
	TotalNetRevenue    decimal.Decimal `json:"total_net_revenue"`
	TotalCommittedCost decimal.Decimal `json:"total_committed_cost"`
	TotalGrossProfit   decimal.Decimal `json:"total_gross_profit"`
	MarginPercent      decimal.Decimal `json:"margin_percent"`
}

// AgingBucket groups outstanding amounts by days overdue
type AgingBucket struct {
	Label       string          `json:"label"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Count       int             `json:"count"`
}

// AgingInvoice is one open invoice in the aging report
type AgingInvoice struct {
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerName  string          `json:"customer_name"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	DaysOverdue   int             `json:"days_overdue"`
}

// AgingReportResponse buckets open invoices by how long they are overdue
type AgingReportResponse struct {
	AsOf             time.Time      `json:"as_of"`
	Buckets          []AgingBucket  `json:"buckets"`
	Invoices         []AgingInvoice `json:"invoices"`
	OutstandingTotal decimal.Decimal `json:"outstanding_total"`
}
