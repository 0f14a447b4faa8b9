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

var hundred = decimal.NewFromInt(100)

// CostCategory classifies a cost row
type CostCategory string

const (
	CostCategoryMaterial    CostCategory = "MATERIAL"
	CostCategoryLabor       CostCategory = "LABOR"
	CostCategorySubcontract CostCategory = "SUBCONTRACT"
	CostCategoryOverhead    CostCategory = "OVERHEAD"
	CostCategoryOther       CostCategory = "OTHER"
)

// IsValid checks if the category is a known value
func (c CostCategory) IsValid() bool {
	switch c {
	case CostCategoryMaterial, CostCategoryLabor, CostCategorySubcontract,
		CostCategoryOverhead, CostCategoryOther:
		return true
	}
	return false
}

// CostItemState tracks a row's staged state relative to the last commit
type CostItemState string

const (
	CostItemStateNew     CostItemState = "NEW"     // Added since the last commit
	CostItemStateClean   CostItemState = "CLEAN"   // Matches the committed snapshot
	CostItemStateDirty   CostItemState = "DIRTY"   // Edited since the last commit
	CostItemStateRemoved CostItemState = "REMOVED" // Deletion pending commit
)

// CostItemValues is the editable payload of a cost row. The committed copy is
// kept alongside the working copy so staged edits can be reverted.
type CostItemValues struct {
	Label    string          `json:"label"`
	Category CostCategory    `json:"category"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Amount   decimal.Decimal `json:"amount"`
}

func newCostItemValues(label string, category CostCategory, quantity, unitCost decimal.Decimal) (CostItemValues, error) {
	if label == "" {
		return CostItemValues{}, shared.NewDomainError("INVALID_LABEL", "Cost item label cannot be empty")
	}
	if len(label) > 200 {
		return CostItemValues{}, shared.NewDomainError("INVALID_LABEL", "Cost item label cannot exceed 200 characters")
	}
	if !category.IsValid() {
		return CostItemValues{}, shared.NewDomainError("INVALID_CATEGORY", "Unknown cost category")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return CostItemValues{}, shared.NewDomainError("INVALID_QUANTITY", "Cost item quantity must be positive")
	}
	if unitCost.IsNegative() {
		return CostItemValues{}, shared.NewDomainError("INVALID_UNIT_COST", "Cost item unit cost cannot be negative")
	}

	return CostItemValues{
		Label:    label,
		Category: category,
		Quantity: quantity,
		UnitCost: unitCost,
		Amount:   quantity.Mul(unitCost).Round(2),
	}, nil
}

// CostItem is a child entity of CostSheet. Working holds the staged values;
// Committed holds the snapshot from the last commit (nil while NEW).
type CostItem struct {
	ID        uuid.UUID       `json:"id"`
	State     CostItemState   `json:"state"`
	Working   CostItemValues  `json:"working"`
	Committed *CostItemValues `json:"committed,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CountsTowardStaged reports whether the row contributes to the staged total
func (i *CostItem) CountsTowardStaged() bool {
	return i.State != CostItemStateRemoved
}

// CostItems is a slice of CostItem stored as JSONB on the cost sheet
type CostItems []CostItem

// Value implements driver.Valuer for JSONB storage
func (c CostItems) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB storage
func (c *CostItems) Scan(value interface{}) error {
	if value == nil {
		*c = CostItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan CostItems: unsupported type")
	}

	if len(bytes) == 0 {
		*c = CostItems{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}
