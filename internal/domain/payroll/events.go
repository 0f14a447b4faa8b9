package payroll

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeHiredEvent is raised when an employee record is created
type EmployeeHiredEvent struct {
	shared.BaseDomainEvent
	EmployeeID     uuid.UUID `json:"employee_id"`
	EmployeeNumber string    `json:"employee_number"`
	Name           string    `json:"name"`
}

// EventType returns the event type name
func (e *EmployeeHiredEvent) EventType() string {
	return "EmployeeHired"
}

// NewEmployeeHiredEvent creates a new EmployeeHiredEvent
func NewEmployeeHiredEvent(emp *Employee) *EmployeeHiredEvent {
	return &EmployeeHiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("EmployeeHired", "Employee", emp.ID, emp.OrganizationID),
		EmployeeID:      emp.ID,
		EmployeeNumber:  emp.EmployeeNumber,
		Name:            emp.Name,
	}
}

// EmployeeTerminatedEvent is raised when employment ends
type EmployeeTerminatedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID `json:"employee_id"`
}

// EventType returns the event type name
func (e *EmployeeTerminatedEvent) EventType() string {
	return "EmployeeTerminated"
}

// NewEmployeeTerminatedEvent creates a new EmployeeTerminatedEvent
func NewEmployeeTerminatedEvent(emp *Employee) *EmployeeTerminatedEvent {
	return &EmployeeTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("EmployeeTerminated", "Employee", emp.ID, emp.OrganizationID),
		EmployeeID:      emp.ID,
	}
}

// PayrollRecordCreatedEvent is raised when a draft payroll record is created
type PayrollRecordCreatedEvent struct {
	shared.BaseDomainEvent
	RecordID   uuid.UUID       `json:"record_id"`
	EmployeeID uuid.UUID       `json:"employee_id"`
	Period     Period          `json:"period"`
	NetPay     decimal.Decimal `json:"net_pay"`
}

// EventType returns the event type name
func (e *PayrollRecordCreatedEvent) EventType() string {
	return "PayrollRecordCreated"
}

// NewPayrollRecordCreatedEvent creates a new PayrollRecordCreatedEvent
func NewPayrollRecordCreatedEvent(r *PayrollRecord) *PayrollRecordCreatedEvent {
	return &PayrollRecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayrollRecordCreated", "PayrollRecord", r.ID, r.OrganizationID),
		RecordID:        r.ID,
		EmployeeID:      r.EmployeeID,
		Period:          r.Period,
		NetPay:          r.NetPay,
	}
}

// PayrollRecordApprovedEvent is raised when amounts are frozen
type PayrollRecordApprovedEvent struct {
	shared.BaseDomainEvent
	RecordID uuid.UUID       `json:"record_id"`
	NetPay   decimal.Decimal `json:"net_pay"`
}

// EventType returns the event type name
func (e *PayrollRecordApprovedEvent) EventType() string {
	return "PayrollRecordApproved"
}

// NewPayrollRecordApprovedEvent creates a new PayrollRecordApprovedEvent
func NewPayrollRecordApprovedEvent(r *PayrollRecord) *PayrollRecordApprovedEvent {
	return &PayrollRecordApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayrollRecordApproved", "PayrollRecord", r.ID, r.OrganizationID),
		RecordID:        r.ID,
		NetPay:          r.NetPay,
	}
}

// PayrollRecordPaidEvent is raised when the record is disbursed
type PayrollRecordPaidEvent struct {
	shared.BaseDomainEvent
	RecordID uuid.UUID       `json:"record_id"`
	NetPay   decimal.Decimal `json:"net_pay"`
}

// EventType returns the event type name
func (e *PayrollRecordPaidEvent) EventType() string {
	return "PayrollRecordPaid"
}

// NewPayrollRecordPaidEvent creates a new PayrollRecordPaidEvent
func NewPayrollRecordPaidEvent(r *PayrollRecord) *PayrollRecordPaidEvent {
	return &PayrollRecordPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("PayrollRecordPaid", "PayrollRecord", r.ID, r.OrganizationID),
		RecordID:        r.ID,
		NetPay:          r.NetPay,
	}
}
