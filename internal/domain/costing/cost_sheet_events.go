package costing

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostSheetCommittedEvent is raised when staged cost changes are committed
type CostSheetCommittedEvent struct {
	shared.BaseDomainEvent
	CostSheetID    uuid.UUID       `json:"cost_sheet_id"`
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	CommittedTotal decimal.Decimal `json:"committed_total"`
	ItemCount      int             `json:"item_count"`
}

// EventType returns the event type name
func (e *CostSheetCommittedEvent) EventType() string {
	return "CostSheetCommitted"
}

// NewCostSheetCommittedEvent creates a new CostSheetCommittedEvent
func NewCostSheetCommittedEvent(s *CostSheet) *CostSheetCommittedEvent {
	return &CostSheetCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CostSheetCommitted", "CostSheet", s.ID, s.OrganizationID),
		CostSheetID:     s.ID,
		InvoiceID:       s.InvoiceID,
		CommittedTotal:  s.CommittedTotal,
		ItemCount:       s.ItemCount(),
	}
}

// CostSheetTemplateAppliedEvent is raised when a template is loaded into a sheet
type CostSheetTemplateAppliedEvent struct {
	shared.BaseDomainEvent
	CostSheetID uuid.UUID         `json:"cost_sheet_id"`
	TemplateID  uuid.UUID         `json:"template_id"`
	Mode        TemplateApplyMode `json:"mode"`
}

// EventType returns the event type name
func (e *CostSheetTemplateAppliedEvent) EventType() string {
	return "CostSheetTemplateApplied"
}

// NewCostSheetTemplateAppliedEvent creates a new CostSheetTemplateAppliedEvent
func NewCostSheetTemplateAppliedEvent(s *CostSheet, templateID uuid.UUID, mode TemplateApplyMode) *CostSheetTemplateAppliedEvent {
	return &CostSheetTemplateAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CostSheetTemplateApplied", "CostSheet", s.ID, s.OrganizationID),
		CostSheetID:     s.ID,
		TemplateID:      templateID,
		Mode:            mode,
	}
}
