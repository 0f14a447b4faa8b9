package models

import (
	"time"

	"github.com/facturo/backend/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeModel is the persistence model for the Employee aggregate.
type EmployeeModel struct {
	OrgAggregateModel
	EmployeeNumber string          `gorm:"type:varchar(50);not null;index"`
	Name           string          `gorm:"type:varchar(200);not null"`
	Email          string          `gorm:"type:varchar(200)"`
	Position       string          `gorm:"type:varchar(100)"`
	BaseSalary     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	HireDate       time.Time       `gorm:"not null"`
	TerminatedAt   *time.Time
	Active         bool `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee entity.
func (m *EmployeeModel) ToDomain() *payroll.Employee {
	return &payroll.Employee{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		EmployeeNumber:   m.EmployeeNumber,
		Name:             m.Name,
		Email:            m.Email,
		Position:         m.Position,
		BaseSalary:       m.BaseSalary,
		HireDate:         m.HireDate,
		TerminatedAt:     m.TerminatedAt,
		Active:           m.Active,
	}
}

// FromDomain populates the persistence model from a domain Employee entity.
func (m *EmployeeModel) FromDomain(e *payroll.Employee) {
	m.FromDomainOrgAggregateRoot(e.OrgAggregateRoot)
	m.EmployeeNumber = e.EmployeeNumber
	m.Name = e.Name
	m.Email = e.Email
	m.Position = e.Position
	m.BaseSalary = e.BaseSalary
	m.HireDate = e.HireDate
	m.TerminatedAt = e.TerminatedAt
	m.Active = e.Active
}

// EmployeeModelFromDomain creates a new persistence model from a domain Employee entity.
func EmployeeModelFromDomain(e *payroll.Employee) *EmployeeModel {
	m := &EmployeeModel{}
	m.FromDomain(e)
	return m
}

// PayrollRecordModel is the persistence model for the PayrollRecord aggregate.
type PayrollRecordModel struct {
	OrgAggregateModel
	EmployeeID   uuid.UUID             `gorm:"type:uuid;not null;index"`
	EmployeeName string                `gorm:"type:varchar(200);not null"`
	Period       payroll.Period        `gorm:"type:varchar(7);not null;index"`
	GrossPay     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Components   payroll.PayComponents `gorm:"type:jsonb;not null;default:'[]'"`
	NetPay       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status       payroll.PayrollStatus `gorm:"type:varchar(20);not null;index"`
	ApprovedAt   *time.Time
	PaidAt       *time.Time
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PayrollRecordModel) TableName() string {
	return "payroll_records"
}

// ToDomain converts the persistence model to a domain PayrollRecord entity.
func (m *PayrollRecordModel) ToDomain() *payroll.PayrollRecord {
	return &payroll.PayrollRecord{
		OrgAggregateRoot: m.ToDomainOrgAggregateRoot(),
		EmployeeID:       m.EmployeeID,
		EmployeeName:     m.EmployeeName,
		Period:           m.Period,
		GrossPay:         m.GrossPay,
		Components:       m.Components,
		NetPay:           m.NetPay,
		Status:           m.Status,
		ApprovedAt:       m.ApprovedAt,
		PaidAt:           m.PaidAt,
		Notes:            m.Notes,
	}
}

// FromDomain populates the persistence model from a domain PayrollRecord entity.
func (m *PayrollRecordModel) FromDomain(rec *payroll.PayrollRecord) {
	m.FromDomainOrgAggregateRoot(rec.OrgAggregateRoot)
	m.EmployeeID = rec.EmployeeID
	m.EmployeeName = rec.EmployeeName
	m.Period = rec.Period
	m.GrossPay = rec.GrossPay
	m.Components = rec.Components
	m.NetPay = rec.NetPay
	m.Status = rec.Status
	m.ApprovedAt = rec.ApprovedAt
	m.PaidAt = rec.PaidAt
	m.Notes = rec.Notes
}

// PayrollRecordModelFromDomain creates a new persistence model from a domain PayrollRecord entity.
func PayrollRecordModelFromDomain(rec *payroll.PayrollRecord) *PayrollRecordModel {
	m := &PayrollRecordModel{}
	m.FromDomain(rec)
	return m
}
