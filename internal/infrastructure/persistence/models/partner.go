package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	OrgAggregateModel
	Code         string `gorm:"type:varchar(50);not null;index"`
	Name         string `gorm:"type:varchar(200);not null"`
	Email        string `gorm:"type:varchar(200);index"`
	Phone        string `gorm:"type:varchar(50)"`
	Address      string `gorm:"type:text"`
	TaxNumber    string `gorm:"type:varchar(50)"`
	PaymentTerms int    `gorm:"not null;default:14"`
	Notes        string `gorm:"type:text"`
	Active       bool   `gorm:"not null;default:true;index"`
	ArchivedAt   *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		Code:             m.Code,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		TaxNumber:        m.TaxNumber,
		PaymentTerms:     m.PaymentTerms,
		Notes:            m.Notes,
		Active:           m.Active,
		ArchivedAt:       m.ArchivedAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainOrgAggregateRoot(c.OrgAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.TaxNumber = c.TaxNumber
	m.PaymentTerms = c.PaymentTerms
	m.Notes = c.Notes
	m.Active = c.Active
	m.ArchivedAt = c.ArchivedAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
