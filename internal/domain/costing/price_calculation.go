package costing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceInput is one cost line feeding a price calculation
type PriceInput struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// PriceInputs is stored as JSONB on the calculation
type PriceInputs []PriceInput

// Value implements driver.Valuer for JSONB storage
func (p PriceInputs) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB storage
func (p *PriceInputs) Scan(value interface{}) error {
	if value == nil {
		*p = PriceInputs{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PriceInputs: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PriceInputs{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// PriceCalculation is a saved pricing scenario: cost inputs plus a markup and
// VAT rate, with the suggested prices always rederived from the inputs.
type PriceCalculation struct {
	shared.OrgAggregateRoot
	Name            string          `json:"name"`
	Inputs          PriceInputs     `json:"inputs"`
	MarkupPercent   decimal.Decimal `json:"markup_percent"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	SuggestedNet    decimal.Decimal `json:"suggested_net"`
	SuggestedGross  decimal.Decimal `json:"suggested_gross"`
	ProjectedProfit decimal.Decimal `json:"projected_profit"`
}

func validatePriceInputs(inputs []PriceInput, markupPercent, vatRate decimal.Decimal) error {
	for _, in := range inputs {
		if in.Label == "" {
			return shared.NewDomainError("INVALID_LABEL", "Price input label cannot be empty")
		}
		if in.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Price input amount cannot be negative")
		}
	}
	if markupPercent.IsNegative() {
		return shared.NewDomainError("INVALID_MARKUP", "Markup percent cannot be negative")
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}
	return nil
}

// NewPriceCalculation creates a saved pricing scenario
func NewPriceCalculation(organizationID uuid.UUID, name string, inputs []PriceInput, markupPercent, vatRate decimal.Decimal) (*PriceCalculation, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Calculation name cannot be empty")
	}
	if err := validatePriceInputs(inputs, markupPercent, vatRate); err != nil {
		return nil, err
	}

	calc := &PriceCalculation{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Inputs:           inputs,
		MarkupPercent:    markupPercent,
		VATRate:          vatRate,
	}
	calc.recalculate()

	return calc, nil
}

// Update replaces the scenario's inputs and rates, rederiving the prices
func (c *PriceCalculation) Update(name string, inputs []PriceInput, markupPercent, vatRate decimal.Decimal) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Calculation name cannot be empty")
	}
	if err := validatePriceInputs(inputs, markupPercent, vatRate); err != nil {
		return err
	}

	c.Name = name
	c.Inputs = inputs
	c.MarkupPercent = markupPercent
	c.VATRate = vatRate
	c.recalculate()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

func (c *PriceCalculation) recalculate() {
	total := decimal.Zero
	for _, in := range c.Inputs {
		total = total.Add(in.Amount)
	}
	c.TotalCost = total.Round(2)
	c.SuggestedNet = c.TotalCost.Mul(hundred.Add(c.MarkupPercent)).Div(hundred).Round(2)
	c.SuggestedGross = c.SuggestedNet.Mul(hundred.Add(c.VATRate)).Div(hundred).Round(2)
	c.ProjectedProfit = c.SuggestedNet.Sub(c.TotalCost)
}
