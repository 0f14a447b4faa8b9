package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/costing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostSheetModel is the persistence model for the CostSheet aggregate.
// Cost items live in a JSONB column so working and committed values of a
// row travel together through the dirty-tracking lifecycle.
type CostSheetModel struct {
	OrgAggregateModel
	InvoiceID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	Items           costing.CostItems `gorm:"type:jsonb;not null;default:'[]'"`
	CommittedTotal  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	LastCommittedAt *time.Time
}

// TableName returns the table name for GORM
func (CostSheetModel) TableName() string {
	return "cost_sheets"
}

// ToDomain converts the persistence model to a domain CostSheet entity.
func (m *CostSheetModel) ToDomain() *costing.CostSheet {
	return &costing.CostSheet{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		InvoiceID:        m.InvoiceID,
		Items:            m.Items,
		CommittedTotal:   m.CommittedTotal,
		LastCommittedAt:  m.LastCommittedAt,
	}
}

// FromDomain populates the persistence model from a domain CostSheet entity.
func (m *CostSheetModel) FromDomain(s *costing.CostSheet) {
	m.FromDomainOrgAggregateRoot(s.OrgAggregateRoot)
	m.InvoiceID = s.InvoiceID
	m.Items = s.Items
	m.CommittedTotal = s.CommittedTotal
	m.LastCommittedAt = s.LastCommittedAt
}

// CostSheetModelFromDomain creates a new persistence model from a domain CostSheet entity.
func CostSheetModelFromDomain(s *costing.CostSheet) *CostSheetModel {
	m := &CostSheetModel{}
	m.FromDomain(s)
	return m
}

// CostTemplateModel is the persistence model for the CostTemplate aggregate.
type CostTemplateModel struct {
	OrgAggregateModel
	Name        string               `gorm:"type:varchar(200);not null;index"`
	Description string               `gorm:"type:text"`
	Rows        costing.TemplateRows `gorm:"type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (CostTemplateModel) TableName() string {
	return "cost_templates"
}

// ToDomain converts the persistence model to a domain CostTemplate entity.
func (m *CostTemplateModel) ToDomain() *costing.CostTemplate {
	return &costing.CostTemplate{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Name:             m.Name,
		Description:      m.Description,
		Rows:             m.Rows,
	}
}

// FromDomain populates the persistence model from a domain CostTemplate entity.
func (m *CostTemplateModel) FromDomain(t *costing.CostTemplate) {
	m.FromDomainOrgAggregateRoot(t.OrgAggregateRoot)
	m.Name = t.Name
	m.Description = t.Description
	m.Rows = t.Rows
}

// CostTemplateModelFromDomain creates a new persistence model from a domain CostTemplate entity.
func CostTemplateModelFromDomain(t *costing.CostTemplate) *CostTemplateModel {
	m := &CostTemplateModel{}
	m.FromDomain(t)
	return m
}

// PriceCalculationModel is the persistence model for saved pricing scenarios.
type PriceCalculationModel struct {
	OrgAggregateModel
	Name            string              `gorm:"type:varchar(200);not null"`
	Inputs          costing.PriceInputs `gorm:"type:jsonb;not null;default:'[]'"`
	MarkupPercent   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	VATRate         decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	SuggestedNet    decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	SuggestedGross  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	ProjectedProfit decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PriceCalculationModel) TableName() string {
	return "price_calculations"
}

// ToDomain converts the persistence model to a domain PriceCalculation entity.
func (m *PriceCalculationModel) ToDomain() *costing.PriceCalculation {
	return &costing.PriceCalculation{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Name:             m.Name,
		Inputs:           m.Inputs,
		MarkupPercent:    m.MarkupPercent,
		VATRate:          m.VATRate,
		TotalCost:        m.TotalCost,
		SuggestedNet:     m.SuggestedNet,
		SuggestedGross:   m.SuggestedGross,
		ProjectedProfit:  m.ProjectedProfit,
	}
}

// FromDomain populates the persistence model from a domain PriceCalculation entity.
func (m *PriceCalculationModel) FromDomain(c *costing.PriceCalculation) {
	m.FromDomainOrgAggregateRoot(c.OrgAggregateRoot)
	m.Name = c.Name
	m.Inputs = c.Inputs
	m.MarkupPercent = c.MarkupPercent
	m.VATRate = c.VATRate
	m.TotalCost = c.TotalCost
	m.SuggestedNet = c.SuggestedNet
	m.SuggestedGross = c.SuggestedGross
	m.ProjectedProfit = c.ProjectedProfit
}

// PriceCalculationModelFromDomain creates a new persistence model from a domain PriceCalculation entity.
func PriceCalculationModelFromDomain(c *costing.PriceCalculation) *PriceCalculationModel {
	m := &PriceCalculationModel{}
	m.FromDomain(c)
	return m
}
