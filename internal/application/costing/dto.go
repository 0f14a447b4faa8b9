package costing

import (
	"time"

	"github.com/facturo/backend/internal/domain/costing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostItemRequest represents a staged cost row to add or edit
type CostItemRequest struct {
	Label    string          `json:"label" binding:"required,min=1,max=200"`
	Category string          `json:"category" binding:"required,oneof=MATERIAL LABOR SUBCONTRACT OVERHEAD OTHER"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

// ApplyTemplateRequest selects a template and how to merge it into the sheet
type ApplyTemplateRequest struct {
	TemplateID uuid.UUID `json:"template_id" binding:"required"`
	Mode       string    `json:"mode" binding:"required,oneof=REPLACE APPEND"`
}

// CommittedValuesResponse is the last committed snapshot of a cost row
type CommittedValuesResponse struct {
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Amount   decimal.Decimal `json:"amount"`
}

// CostItemResponse represents a cost row with its staging state
type CostItemResponse struct {
	ID        uuid.UUID                `json:"id"`
	State     string                   `json:"state"`
	Label     string                   `json:"label"`
	Category  string                   `json:"category"`
	Quantity  decimal.Decimal          `json:"quantity"`
	UnitCost  decimal.Decimal          `json:"unit_cost"`
	Amount    decimal.Decimal          `json:"amount"`
	Committed *CommittedValuesResponse `json:"committed,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// CostSheetResponse represents an invoice's cost sheet in API responses
type CostSheetResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrganizationID  uuid.UUID          `json:"organization_id"`
	InvoiceID       uuid.UUID          `json:"invoice_id"`
	Items           []CostItemResponse `json:"items"`
	Dirty           bool               `json:"dirty"`
	StagedTotal     decimal.Decimal    `json:"staged_total"`
	CommittedTotal  decimal.Decimal    `json:"committed_total"`
	LastCommittedAt *time.Time         `json:"last_committed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Version         int                `json:"version"`
}

// TemplateRowRequest represents one row of a cost template
type TemplateRowRequest struct {
	Label    string          `json:"label" binding:"required,min=1,max=200"`
	Category string          `json:"category" binding:"required,oneof=MATERIAL LABOR SUBCONTRACT OVERHEAD OTHER"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreateCostTemplateRequest represents the data needed to create a template
type CreateCostTemplateRequest struct {
	Name        string               `json:"name" binding:"required,min=1,max=100"`
	Description string               `json:"description" binding:"omitempty,max=500"`
	Rows        []TemplateRowRequest `json:"rows" binding:"required,min=1,dive"`
}

// UpdateCostTemplateRequest represents the data for updating a template
type UpdateCostTemplateRequest struct {
	Name        *string              `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string              `json:"description" binding:"omitempty,max=500"`
	Rows        []TemplateRowRequest `json:"rows" binding:"omitempty,min=1,dive"`
}

// TemplateRowResponse represents one row of a template in API responses
type TemplateRowResponse struct {
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// CostTemplateResponse represents a cost template in API responses
type CostTemplateResponse struct {
	ID             uuid.UUID             `json:"id"`
	OrganizationID uuid.UUID             `json:"organization_id"`
	Name           string                `json:"name"`
	Description    string                `json:"description,omitempty"`
	Rows           []TemplateRowResponse `json:"rows"`
	EstimatedTotal decimal.Decimal       `json:"estimated_total"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// PriceInputRequest represents one cost block of a pricing scenario
type PriceInputRequest struct {
	Label  string          `json:"label" binding:"required,min=1,max=200"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// PriceCalculationRequest carries a pricing scenario to create, update or preview
type PriceCalculationRequest struct {
	Name          string              `json:"name" binding:"required,min=1,max=100"`
	Inputs        []PriceInputRequest `json:"inputs" binding:"required,min=1,dive"`
	MarkupPercent decimal.Decimal     `json:"markup_percent"`
	VATRate       decimal.Decimal     `json:"vat_rate"`
}

// PriceCalculationResponse represents a pricing scenario in API responses
type PriceCalculationResponse struct {
	ID              uuid.UUID            `json:"id"`
	OrganizationID  uuid.UUID            `json:"organization_id"`
	Name            string               `json:"name"`
	Inputs          []PriceInputResponse `json:"inputs"`
	MarkupPercent   decimal.Decimal      `json:"markup_percent"`
	VATRate         decimal.Decimal      `json:"vat_rate"`
	TotalCost       decimal.Decimal      `json:"total_cost"`
	SuggestedNet    decimal.Decimal      `json:"suggested_net"`
	SuggestedGross  decimal.Decimal      `json:"suggested_gross"`
	ProjectedProfit decimal.Decimal      `json:"projected_profit"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// PriceInputResponse represents one cost block in API responses
type PriceInputResponse struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// ListFilter represents pagination options for template and scenario lists
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at name"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}

// ToCostItemResponse converts a domain cost item to a response DTO
func ToCostItemResponse(item *costing.CostItem) CostItemResponse {
	resp := CostItemResponse{
		ID:        item.ID,
		State:     string(item.State),
		Label:     item.Working.Label,
		Category:  string(item.Working.Category),
		Quantity:  item.Working.Quantity,
		UnitCost:  item.Working.UnitCost,
		Amount:    item.Working.Amount,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Committed != nil {
		resp.Committed = &CommittedValuesResponse{
			Label:    item.Committed.Label,
			Category: string(item.Committed.Category),
			Quantity: item.Committed.Quantity,
			UnitCost: item.Committed.UnitCost,
			Amount:   item.Committed.Amount,
		}
	}
	return resp
}

// ToCostSheetResponse converts a domain cost sheet to a response DTO
func ToCostSheetResponse(sheet *costing.CostSheet) CostSheetResponse {
	items := make([]CostItemResponse, len(sheet.Items))
	for i := range sheet.Items {
		items[i] = ToCostItemResponse(&sheet.Items[i])
	}
	return CostSheetResponse{
		ID:              sheet.ID,
		OrganizationID:  sheet.OrganizationID,
		InvoiceID:       sheet.InvoiceID,
		Items:           items,
		Dirty:           sheet.IsDirty(),
		StagedTotal:     sheet.StagedTotal(),
		CommittedTotal:  sheet.CommittedTotal,
		LastCommittedAt: sheet.LastCommittedAt,
		CreatedAt:       sheet.CreatedAt,
		UpdatedAt:       sheet.UpdatedAt,
		Version:         sheet.Version,
	}
}

// ToCostTemplateResponse converts a domain template to a response DTO
func ToCostTemplateResponse(template *costing.CostTemplate) CostTemplateResponse {
	rows := make([]TemplateRowResponse, len(template.Rows))
	for i, r := range template.Rows {
		rows[i] = TemplateRowResponse{
			Label:    r.Label,
			Category: string(r.Category),
			Quantity: r.Quantity,
			UnitCost: r.UnitCost,
		}
	}
	return CostTemplateResponse{
		ID:             template.ID,
		OrganizationID: template.OrganizationID,
		Name:           template.Name,
		Description:    template.Description,
		Rows:           rows,
		EstimatedTotal: template.EstimatedTotal(),
		CreatedAt:      template.CreatedAt,
		UpdatedAt:      template.UpdatedAt,
	}
}

// ToPriceCalculationResponse converts a domain pricing scenario to a response DTO
func ToPriceCalculationResponse(calc *costing.PriceCalculation) PriceCalculationResponse {
	inputs := make([]PriceInputResponse, len(calc.Inputs))
	for i, in := range calc.Inputs {
		inputs[i] = PriceInputResponse{Label: in.Label, Amount: in.Amount}
	}
	return PriceCalculationResponse{
		ID:              calc.ID,
		OrganizationID:  calc.OrganizationID,
		Name:            calc.Name,
		Inputs:          inputs,
		MarkupPercent:   calc.MarkupPercent,
		VATRate:         calc.VATRate,
		TotalCost:       calc.TotalCost,
		SuggestedNet:    calc.SuggestedNet,
		SuggestedGross:  calc.SuggestedGross,
		ProjectedProfit: calc.ProjectedProfit,
		CreatedAt:       calc.CreatedAt,
		UpdatedAt:       calc.UpdatedAt,
	}
}

func toTemplateRows(rows []TemplateRowRequest) []costing.TemplateRow {
	out := make([]costing.TemplateRow, len(rows))
	for i, r := range rows {
		out[i] = costing.TemplateRow{
			Label:    r.Label,
			Category: costing.CostCategory(r.Category),
			Quantity: r.Quantity,
			UnitCost: r.UnitCost,
		}
	}
	return out
}

func toPriceInputs(inputs []PriceInputRequest) []costing.PriceInput {
	out := make([]costing.PriceInput, len(inputs))
	for i, in := range inputs {
		out[i] = costing.PriceInput{Label: in.Label, Amount: in.Amount}
	}
	return out
}
