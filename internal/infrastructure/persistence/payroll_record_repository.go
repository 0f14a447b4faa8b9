package persistence

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/domain/payroll"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPayrollRecordRepository implements PayrollRecordRepository using GORM
type GormPayrollRecordRepository struct {
	db *gorm.DB
}

// NewGormPayrollRecordRepository creates a new GormPayrollRecordRepository
func NewGormPayrollRecordRepository(db *gorm.DB) *GormPayrollRecordRepository {
	return &GormPayrollRecordRepository{db: db}
}

// FindByID finds a payroll record by its ID
func (r *GormPayrollRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.PayrollRecord, error) {
	var model models.PayrollRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds a payroll record by ID within an organization
func (r *GormPayrollRecordRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*payroll.PayrollRecord, error) {
	var model models.PayrollRecordModel
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

// FindByEmployeeAndPeriod finds the payroll record of an employee for a period
func (r *GormPayrollRecordRepository) FindByEmployeeAndPeriod(ctx context.Context, orgID, employeeID uuid.UUID, period payroll.Period) (*payroll.PayrollRecord, error) {
	var model models.PayrollRecordModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND employee_id = ? AND period = ?", orgID, employeeID, period).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOrg finds all payroll records for an organization matching the filter
func (r *GormPayrollRecordRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter payroll.PayrollRecordFilter) ([]payroll.PayrollRecord, error) {
	var recordModels []models.PayrollRecordModel
	query := r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}).Where("organization_id = ?", orgID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]payroll.PayrollRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// Save creates or updates a payroll record with optimistic locking
func (r *GormPayrollRecordRepository) Save(ctx context.Context, record *payroll.PayrollRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.PayrollRecordModelFromDomain(record)

		var current models.PayrollRecordModel
		if err := tx.Select("version").Where("id = ?", record.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(model).Error
			}
			return err
		}

		expectedVersion := record.Version - 1
		if current.Version != expectedVersion {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(model).
			Where("id = ? AND version = ?", record.ID, expectedVersion).
			Save(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Delete deletes a payroll record within an organization
func (r *GormPayrollRecordRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PayrollRecordModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsForPeriod checks if a payroll record exists for the employee and period
func (r *GormPayrollRecordRepository) ExistsForPeriod(ctx context.Context, orgID, employeeID uuid.UUID, period payroll.Period) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PayrollRecordModel{}).
		Where("organization_id = ? AND employee_id = ? AND period = ?", orgID, employeeID, period).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForOrg counts payroll records for an organization matching the filter
func (r *GormPayrollRecordRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter payroll.PayrollRecordFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PayrollRecordModel{}).Where("organization_id = ?", orgID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormPayrollRecordRepository) applyFilter(query *gorm.DB, filter payroll.PayrollRecordFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter.Filter, "period DESC, employee_name ASC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPayrollRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter payroll.PayrollRecordFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("employee_name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Period != nil {
		query = query.Where("period = ?", *filter.Period)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// Ensure GormPayrollRecordRepository implements PayrollRecordRepository
var _ payroll.PayrollRecordRepository = (*GormPayrollRecordRepository)(nil)
