package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollStatus is the lifecycle state of a payroll record
type PayrollStatus string

const (
	PayrollStatusDraft    PayrollStatus = "DRAFT"    // Editable
	PayrollStatusApproved PayrollStatus = "APPROVED" // Amounts frozen
	PayrollStatusPaid     PayrollStatus = "PAID"     // Disbursed
)

// IsValid checks if the status is a known value
func (s PayrollStatus) IsValid() bool {
	switch s {
	case PayrollStatusDraft, PayrollStatusApproved, PayrollStatusPaid:
		return true
	}
	return false
}

// PayComponentKind distinguishes additions from deductions
type PayComponentKind string

const (
	PayComponentAddition  PayComponentKind = "ADDITION"  // Bonus, overtime, allowance
	PayComponentDeduction PayComponentKind = "DEDUCTION" // Tax, insurance, advance
)

// PayComponent is one itemized addition or deduction on a payroll record
type PayComponent struct {
	Label  string           `json:"label"`
	Kind   PayComponentKind `json:"kind"`
	Amount decimal.Decimal  `json:"amount"` // Always positive; Kind sets the sign
}

// PayComponents is stored as JSONB on the payroll record
type PayComponents []PayComponent

// Value implements driver.Valuer for JSONB storage
func (c PayComponents) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB storage
func (c *PayComponents) Scan(value interface{}) error {
	if value == nil {
		*c = PayComponents{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PayComponents: unsupported type")
	}

	if len(bytes) == 0 {
		*c = PayComponents{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// PayrollRecord is one employee's pay for one period. Net pay is always
// derived from gross pay and the components, never accepted from input.
type PayrollRecord struct {
	shared.OrgAggregateRoot
	EmployeeID   uuid.UUID       `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Period       Period          `json:"period"` // Unique per employee
	GrossPay     decimal.Decimal `json:"gross_pay"`
	Components   PayComponents   `json:"components"`
	NetPay       decimal.Decimal `json:"net_pay"`
	Status       PayrollStatus   `json:"status"`
	ApprovedAt   *time.Time      `json:"approved_at,omitempty"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	Notes        string          `json:"notes"`
}

func validateComponents(components []PayComponent) error {
	for _, comp := range components {
		if comp.Label == "" {
			return shared.NewDomainError("INVALID_COMPONENT", "Pay component label cannot be empty")
		}
		if comp.Kind != PayComponentAddition && comp.Kind != PayComponentDeduction {
			return shared.NewDomainError("INVALID_COMPONENT", fmt.Sprintf("Unknown pay component kind %q", comp.Kind))
		}
		if comp.Amount.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_COMPONENT", "Pay component amount must be positive")
		}
	}
	return nil
}

// NewPayrollRecord creates a draft payroll record for an employee and period
func NewPayrollRecord(organizationID uuid.UUID, employee *Employee, period Period, grossPay decimal.Decimal, components []PayComponent) (*PayrollRecord, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if employee == nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee is required")
	}
	if employee.OrganizationID != organizationID {
		return nil, shared.ErrForbidden
	}
	if !employee.IsEmployedIn(period) {
		return nil, shared.NewDomainError("NOT_EMPLOYED", "Employee was not employed during the period")
	}
	if grossPay.IsNegative() {
		return nil, shared.NewDomainError("INVALID_GROSS", "Gross pay cannot be negative")
	}
	if err := validateComponents(components); err != nil {
		return nil, err
	}

	record := &PayrollRecord{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		EmployeeID:       employee.ID,
		EmployeeName:     employee.Name,
		Period:           period,
		GrossPay:         grossPay,
		Components:       components,
		Status:           PayrollStatusDraft,
	}
	record.recalculateNet()

	record.AddDomainEvent(NewPayrollRecordCreatedEvent(record))

	return record, nil
}

func (r *PayrollRecord) recalculateNet() {
	net := r.GrossPay
	for _, comp := range r.Components {
		switch comp.Kind {
		case PayComponentAddition:
			net = net.Add(comp.Amount)
		case PayComponentDeduction:
			net = net.Sub(comp.Amount)
		}
	}
	r.NetPay = net.Round(2)
}

// UpdateDraft applies a draft edit in one step so the version moves exactly
// once per update, keeping the optimistic-lock check meaningful.
func (r *PayrollRecord) UpdateDraft(grossPay decimal.Decimal, components []PayComponent, notes string) error {
	if err := r.UpdateAmounts(grossPay, components); err != nil {
		return err
	}
	r.Notes = notes
	return nil
}

// UpdateAmounts replaces gross pay and components on a draft record
func (r *PayrollRecord) UpdateAmounts(grossPay decimal.Decimal, components []PayComponent) error {
	if r.Status != PayrollStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit payroll record in %s status", r.Status))
	}
	if grossPay.IsNegative() {
		return shared.NewDomainError("INVALID_GROSS", "Gross pay cannot be negative")
	}
	if err := validateComponents(components); err != nil {
		return err
	}

	r.GrossPay = grossPay
	r.Components = components
	r.recalculateNet()
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Approve freezes the amounts
func (r *PayrollRecord) Approve() error {
	if r.Status != PayrollStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve payroll record in %s status", r.Status))
	}
	if r.NetPay.IsNegative() {
		return shared.NewDomainError("NEGATIVE_NET", "Net pay cannot be negative at approval")
	}

	now := time.Now()
	r.Status = PayrollStatusApproved
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewPayrollRecordApprovedEvent(r))

	return nil
}

// MarkPaid stamps the disbursement
func (r *PayrollRecord) MarkPaid() error {
	if r.Status != PayrollStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay payroll record in %s status", r.Status))
	}

	now := time.Now()
	r.Status = PayrollStatusPaid
	r.PaidAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewPayrollRecordPaidEvent(r))

	return nil
}

// SetNotes sets free-form notes
func (r *PayrollRecord) SetNotes(notes string) {
	r.Notes = notes
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// IsDeletable reports whether the record may still be removed
func (r *PayrollRecord) IsDeletable() bool {
	return r.Status == PayrollStatusDraft
}
