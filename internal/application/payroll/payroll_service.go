package payroll

import (
	"context"

	"github.com/facturo/backend/internal/domain/payroll"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PayrollService handles the monthly payroll run
type PayrollService struct {
	recordRepo   payroll.PayrollRecordRepository
	employeeRepo payroll.EmployeeRepository
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(recordRepo payroll.PayrollRecordRepository, employeeRepo payroll.EmployeeRepository) *PayrollService {
	return &PayrollService{
		recordRepo:   recordRepo,
		employeeRepo: employeeRepo,
	}
}

// Create opens a draft payroll record for an employee and period. Gross pay
// defaults to the employee's base salary.
func (s *PayrollService) Create(ctx context.Context, orgID uuid.UUID, req CreatePayrollRecordRequest) (*PayrollRecordResponse, error) {
	period, err := payroll.ParsePeriod(req.Period)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByIDForOrg(ctx, orgID, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.recordRepo.ExistsForPeriod(ctx, orgID, employee.ID, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A payroll record for this employee and period already exists")
	}

	grossPay := employee.BaseSalary
	if req.GrossPay != nil {
		grossPay = *req.GrossPay
	}

	record, err := payroll.NewPayrollRecord(orgID, employee, period, grossPay, toPayComponents(req.Components))
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		record.SetNotes(req.Notes)
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToPayrollRecordResponse(record)
	return &response, nil
}

// GenerateForPeriod opens draft records for every employee employed in the
// period that does not have one yet. Existing records are left untouched.
func (s *PayrollService) GenerateForPeriod(ctx context.Context, orgID uuid.UUID, periodStr string) ([]PayrollRecordResponse, error) {
	period, err := payroll.ParsePeriod(periodStr)
	if err != nil {
		return nil, err
	}

	filter := payroll.EmployeeFilter{Filter: shared.Filter{Page: 1, PageSize: 1000, OrderBy: "employee_number", OrderDir: "asc"}}
	employees, err := s.employeeRepo.FindAllForOrg(ctx, orgID, filter)
	if err != nil {
		return nil, err
	}

	created := make([]PayrollRecordResponse, 0, len(employees))
	for i := range employees {
		employee := &employees[i]
		if !employee.IsEmployedIn(period) {
			continue
		}

		exists, err := s.recordRepo.ExistsForPeriod(ctx, orgID, employee.ID, period)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		record, err := payroll.NewPayrollRecord(orgID, employee, period, employee.BaseSalary, nil)
		if err != nil {
			return nil, err
		}
		if err := s.recordRepo.Save(ctx, record); err != nil {
			return nil, err
		}
		created = append(created, ToPayrollRecordResponse(record))
	}

	return created, nil
}

// GetByID retrieves a payroll record by ID
func (s *PayrollService) GetByID(ctx context.Context, orgID, recordID uuid.UUID) (*PayrollRecordResponse, error) {
	record, err := s.recordRepo.FindByIDForOrg(ctx, orgID, recordID)
	if err != nil {
		return nil, err
	}

	response := ToPayrollRecordResponse(record)
	return &response, nil
}

// List retrieves payroll records with filtering and pagination
func (s *PayrollService) List(ctx context.Context, orgID uuid.UUID, filter PayrollRecordListFilter) ([]PayrollRecordResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "period"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := payroll.PayrollRecordFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		EmployeeID: filter.EmployeeID,
	}
	if filter.Period != "" {
		period, err := payroll.ParsePeriod(filter.Period)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.Period = &period
	}
	if filter.Status != "" {
		status := payroll.PayrollStatus(filter.Status)
		domainFilter.Status = &status
	}

	records, err := s.recordRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.recordRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PayrollRecordResponse, len(records))
	for i := range records {
		responses[i] = ToPayrollRecordResponse(&records[i])
	}

	return responses, total, nil
}

// Update changes the amounts of a draft payroll record
func (s *PayrollService) Update(ctx context.Context, orgID, recordID uuid.UUID, req UpdatePayrollRecordRequest) (*PayrollRecordResponse, error) {
	record, err := s.recordRepo.FindByIDForOrg(ctx, orgID, recordID)
	if err != nil {
		return nil, err
	}

	grossPay := record.GrossPay
	if req.GrossPay != nil {
		grossPay = *req.GrossPay
	}
	components := []payroll.PayComponent(record.Components)
	if req.Components != nil {
		components = toPayComponents(req.Components)
	}
	notes := record.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	if err := record.UpdateDraft(grossPay, components, notes); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToPayrollRecordResponse(record)
	return &response, nil
}

// Approve freezes a draft payroll record
func (s *PayrollService) Approve(ctx context.Context, orgID, recordID uuid.UUID) (*PayrollRecordResponse, error) {
	return s.transition(ctx, orgID, recordID, (*payroll.PayrollRecord).Approve)
}

// MarkPaid records that an approved payroll record was paid out
func (s *PayrollService) MarkPaid(ctx context.Context, orgID, recordID uuid.UUID) (*PayrollRecordResponse, error) {
	return s.transition(ctx, orgID, recordID, (*payroll.PayrollRecord).MarkPaid)
}

func (s *PayrollService) transition(ctx context.Context, orgID, recordID uuid.UUID, op func(*payroll.PayrollRecord) error) (*PayrollRecordResponse, error) {
	record, err := s.recordRepo.FindByIDForOrg(ctx, orgID, recordID)
	if err != nil {
		return nil, err
	}

	if err := op(record); err != nil {
		return nil, err
	}

	if err := s.recordRepo.Save(ctx, record); err != nil {
		return nil, err
	}

	response := ToPayrollRecordResponse(record)
	return &response, nil
}

// Delete removes a draft payroll record
func (s *PayrollService) Delete(ctx context.Context, orgID, recordID uuid.UUID) error {
	record, err := s.recordRepo.FindByIDForOrg(ctx, orgID, recordID)
	if err != nil {
		return err
	}

	if !record.IsDeletable() {
		return shared.NewDomainError("INVALID_STATE", "Only draft payroll records can be deleted")
	}

	return s.recordRepo.Delete(ctx, orgID, record.ID)
}
