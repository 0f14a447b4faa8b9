package payroll

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeFilter defines filtering options for employee queries
type EmployeeFilter struct {
	shared.Filter
	Active *bool
}

// EmployeeRepository defines the persistence interface for employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Employee, error)
	FindByNumber(ctx context.Context, orgID uuid.UUID, employeeNumber string) (*Employee, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter EmployeeFilter) ([]Employee, error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ExistsByNumber(ctx context.Context, orgID uuid.UUID, employeeNumber string) (bool, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter EmployeeFilter) (int64, error)
}

// PayrollRecordFilter defines filtering options for payroll record queries
type PayrollRecordFilter struct {
	shared.Filter
	EmployeeID *uuid.UUID
	Period     *Period
	Status     *PayrollStatus
}

// PayrollRecordRepository defines the persistence interface for payroll records
type PayrollRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PayrollRecord, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*PayrollRecord, error)
	FindByEmployeeAndPeriod(ctx context.Context, orgID, employeeID uuid.UUID, period Period) (*PayrollRecord, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter PayrollRecordFilter) ([]PayrollRecord, error)
	Save(ctx context.Context, record *PayrollRecord) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ExistsForPeriod(ctx context.Context, orgID, employeeID uuid.UUID, period Period) (bool, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter PayrollRecordFilter) (int64, error)
}
