package payroll

import (
	"context"

	"github.com/facturo/backend/internal/domain/payroll"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeService handles employee management operations
type EmployeeService struct {
	employeeRepo payroll.EmployeeRepository
	recordRepo   payroll.PayrollRecordRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo payroll.EmployeeRepository, recordRepo payroll.PayrollRecordRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		recordRepo:   recordRepo,
	}
}

// Create creates a new employee
func (s *EmployeeService) Create(ctx context.Context, orgID uuid.UUID, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	exists, err := s.employeeRepo.ExistsByNumber(ctx, orgID, req.EmployeeNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An employee with this number already exists")
	}

	employee, err := payroll.NewEmployee(orgID, req.EmployeeNumber, req.Name, req.Email, req.Position, req.BaseSalary, req.HireDate)
	if err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, orgID, employeeID uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOrg(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, orgID uuid.UUID, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "employee_number"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := payroll.EmployeeFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Active: filter.Active,
	}

	employees, err := s.employeeRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.employeeRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = ToEmployeeResponse(&employees[i])
	}

	return responses, total, nil
}

// Update updates an employee's details and salary
func (s *EmployeeService) Update(ctx context.Context, orgID, employeeID uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOrg(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}

	name := employee.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := employee.Email
	if req.Email != nil {
		email = *req.Email
	}
	position := employee.Position
	if req.Position != nil {
		position = *req.Position
	}
	if err := employee.Update(name, email, position); err != nil {
		return nil, err
	}

	if req.BaseSalary != nil {
		if err := employee.ChangeSalary(*req.BaseSalary); err != nil {
			return nil, err
		}
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Terminate ends an employee's employment
func (s *EmployeeService) Terminate(ctx context.Context, orgID, employeeID uuid.UUID, req TerminateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByIDForOrg(ctx, orgID, employeeID)
	if err != nil {
		return nil, err
	}

	if err := employee.Terminate(req.TerminatedAt); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// Delete removes an employee who never had a payroll record
func (s *EmployeeService) Delete(ctx context.Context, orgID, employeeID uuid.UUID) error {
	employee, err := s.employeeRepo.FindByIDForOrg(ctx, orgID, employeeID)
	if err != nil {
		return err
	}

	filter := payroll.PayrollRecordFilter{EmployeeID: &employee.ID}
	count, err := s.recordRepo.CountForOrg(ctx, orgID, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_PAYROLL_RECORDS", "Employees with payroll history cannot be deleted, terminate them instead")
	}

	return s.employeeRepo.Delete(ctx, orgID, employee.ID)
}
