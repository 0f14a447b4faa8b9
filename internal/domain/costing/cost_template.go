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

// TemplateRow is one reusable cost row inside a template
type TemplateRow struct {
	Label    string          `json:"label"`
	Category CostCategory    `json:"category"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// TemplateRows is stored as JSONB on the template
type TemplateRows []TemplateRow

// Value implements driver.Valuer for JSONB storage
func (r TemplateRows) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for JSONB storage
func (r *TemplateRows) Scan(value interface{}) error {
	if value == nil {
		*r = TemplateRows{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TemplateRows: unsupported type")
	}

	if len(bytes) == 0 {
		*r = TemplateRows{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// CostTemplate is an org-scoped named set of cost rows that can be loaded
// into a cost sheet. Applying a template never mutates the template.
type CostTemplate struct {
	shared.OrgAggregateRoot
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Rows        TemplateRows `json:"rows"`
}

func validateTemplateRows(rows []TemplateRow) error {
	for _, row := range rows {
		if _, err := newCostItemValues(row.Label, row.Category, row.Quantity, row.UnitCost); err != nil {
			return err
		}
	}
	return nil
}

// NewCostTemplate creates a new cost template
func NewCostTemplate(organizationID uuid.UUID, name, description string, rows []TemplateRow) (*CostTemplate, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 100 characters")
	}
	if err := validateTemplateRows(rows); err != nil {
		return nil, err
	}

	return &CostTemplate{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Name:             name,
		Description:      description,
		Rows:             rows,
	}, nil
}

// Rename updates name and description
func (t *CostTemplate) Rename(name, description string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot exceed 100 characters")
	}

	t.Name = name
	t.Description = description
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// ReplaceRows swaps the template's rows
func (t *CostTemplate) ReplaceRows(rows []TemplateRow) error {
	if err := validateTemplateRows(rows); err != nil {
		return err
	}

	t.Rows = rows
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// EstimatedTotal sums the template rows' amounts
func (t *CostTemplate) EstimatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, row := range t.Rows {
		total = total.Add(row.Quantity.Mul(row.UnitCost).Round(2))
	}
	return total
}
