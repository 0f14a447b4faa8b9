package payroll

import (
	"regexp"
	"strings"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Employee is an org-scoped staff record carrying the monthly base salary
// payroll records are generated from.
type Employee struct {
	shared.OrgAggregateRoot
	EmployeeNumber string          `json:"employee_number"` // Unique per organization
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Position       string          `json:"position"`
	BaseSalary     decimal.Decimal `json:"base_salary"` // Monthly gross
	HireDate       time.Time       `json:"hire_date"`
	TerminatedAt   *time.Time      `json:"terminated_at,omitempty"`
	Active         bool            `json:"active"`
}

// NewEmployee creates a new active employee
func NewEmployee(organizationID uuid.UUID, employeeNumber, name, email, position string, baseSalary decimal.Decimal, hireDate time.Time) (*Employee, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if employeeNumber == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Employee number cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !emailRegex.MatchString(email) {
			return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	if baseSalary.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SALARY", "Base salary cannot be negative")
	}
	if hireDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_HIRE_DATE", "Hire date is required")
	}

	emp := &Employee{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		EmployeeNumber:   employeeNumber,
		Name:             name,
		Email:            email,
		Position:         position,
		BaseSalary:       baseSalary,
		HireDate:         hireDate,
		Active:           true,
	}

	emp.AddDomainEvent(NewEmployeeHiredEvent(emp))

	return emp, nil
}

// Update changes the employee's profile fields
func (e *Employee) Update(name, email, position string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !emailRegex.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}

	e.Name = name
	e.Email = email
	e.Position = position
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// ChangeSalary sets a new monthly base salary. Existing payroll records keep
// the amounts they were generated with.
func (e *Employee) ChangeSalary(baseSalary decimal.Decimal) error {
	if !e.Active {
		return shared.NewDomainError("INVALID_STATE", "Cannot change salary of a terminated employee")
	}
	if baseSalary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Base salary cannot be negative")
	}

	e.BaseSalary = baseSalary
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Terminate ends the employment as of the given date
func (e *Employee) Terminate(terminatedAt time.Time) error {
	if !e.Active {
		return shared.NewDomainError("INVALID_STATE", "Employee is already terminated")
	}
	if terminatedAt.Before(e.HireDate) {
		return shared.NewDomainError("INVALID_DATE", "Termination date cannot precede the hire date")
	}

	e.Active = false
	e.TerminatedAt = &terminatedAt
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmployeeTerminatedEvent(e))

	return nil
}

// IsEmployedIn reports whether the employee was on payroll during the period
func (e *Employee) IsEmployedIn(period Period) bool {
	periodEnd := period.End()
	if e.HireDate.After(periodEnd) {
		return false
	}
	if e.TerminatedAt != nil && e.TerminatedAt.Before(period.Start()) {
		return false
	}
	return true
}
