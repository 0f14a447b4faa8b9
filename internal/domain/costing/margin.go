package costing

import "github.com/shopspring/decimal"

// Margin is the profitability of one invoice: committed cost compared against
// the invoice's net revenue (revenue excluding VAT).
type Margin struct {
	NetRevenue    decimal.Decimal `json:"net_revenue"`
	CommittedCost decimal.Decimal `json:"committed_cost"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// ComputeMargin derives profit and margin percent. Margin percent is zero when
// net revenue is zero, so fully discounted invoices report 0% rather than
// dividing by zero.
func ComputeMargin(netRevenue, committedCost decimal.Decimal) Margin {
	profit := netRevenue.Sub(committedCost)

	marginPercent := decimal.Zero
	if !netRevenue.IsZero() {
		marginPercent = profit.Div(netRevenue).Mul(hundred).Round(2)
	}

	return Margin{
		NetRevenue:    netRevenue,
		CommittedCost: committedCost,
		GrossProfit:   profit,
		MarginPercent: marginPercent,
	}
}
