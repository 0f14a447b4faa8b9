package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/facturo/backend/internal/domain/payroll"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by its ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds an employee by ID within an organization
func (r *GormEmployeeRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*payroll.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an employee by number within an organization
func (r *GormEmployeeRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, employeeNumber string) (*payroll.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND employee_number = ?", orgID, strings.TrimSpace(employeeNumber)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds all employees for an organization matching the filter
func (r *GormEmployeeRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter payroll.EmployeeFilter) ([]payroll.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("organization_id = ?", orgID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}

	employees := make([]payroll.Employee, len(employeeModels))
	for i, model := range employeeModels {
		employees[i] = *model.ToDomain()
	}
	return employees, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *payroll.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an employee within an organization
func (r *GormEmployeeRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EmployeeModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByNumber checks if an employee number is taken within the organization
func (r *GormEmployeeRepository) ExistsByNumber(ctx context.Context, orgID uuid.UUID, employeeNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EmployeeModel{}).
		Where("organization_id = ? AND employee_number = ?", orgID, strings.TrimSpace(employeeNumber)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForOrg counts employees for an organization matching the filter
func (r *GormEmployeeRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter payroll.EmployeeFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Where("organization_id = ?", orgID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter payroll.EmployeeFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter.Filter, "employee_number ASC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormEmployeeRepository) applyFilterWithoutPagination(query *gorm.DB, filter payroll.EmployeeFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR employee_number ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	return query
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ payroll.EmployeeRepository = (*GormEmployeeRepository)(nil)
