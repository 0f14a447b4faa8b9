package persistence

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/domain/costing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCostSheetRepository implements CostSheetRepository using GORM
type GormCostSheetRepository struct {
	db *gorm.DB
}

// NewGormCostSheetRepository creates a new GormCostSheetRepository
func NewGormCostSheetRepository(db *gorm.DB) *GormCostSheetRepository {
	return &GormCostSheetRepository{db: db}
}

// FindByID finds a cost sheet by its ID
func (r *GormCostSheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*costing.CostSheet, error) {
	var model models.CostSheetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoiceID finds the cost sheet attached to an invoice
func (r *GormCostSheetRepository) FindByInvoiceID(ctx context.Context, orgID, invoiceID uuid.UUID) (*costing.CostSheet, error) {
	var model models.CostSheetModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND invoice_id = ?", orgID, invoiceID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInvoiceIDs finds cost sheets for a batch of invoices
func (r *GormCostSheetRepository) FindByInvoiceIDs(ctx context.Context, orgID uuid.UUID, invoiceIDs []uuid.UUID) ([]costing.CostSheet, error) {
	if len(invoiceIDs) == 0 {
		return []costing.CostSheet{}, nil
	}

	var sheetModels []models.CostSheetModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND invoice_id IN ?", orgID, invoiceIDs).
		Find(&sheetModels).Error; err != nil {
		return nil, err
	}

	sheets := make([]costing.CostSheet, len(sheetModels))
	for i, model := range sheetModels {
		sheets[i] = *model.ToDomain()
	}
	return sheets, nil
}

// Save creates or updates a cost sheet with optimistic locking. Staged edits
// from two sessions against the same sheet cannot silently overwrite each other.
func (r *GormCostSheetRepository) Save(ctx context.Context, sheet *costing.CostSheet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CostSheetModelFromDomain(sheet)

		var current models.CostSheetModel
		if err := tx.Select("version").Where("id = ?", sheet.ID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(model).Error
			}
			return err
		}

		expectedVersion := sheet.Version - 1
		if current.Version != expectedVersion {
			return shared.ErrConcurrencyConflict
		}

		result := tx.Model(model).
			Where("id = ? AND version = ?", sheet.ID, expectedVersion).
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

// Delete deletes a cost sheet
func (r *GormCostSheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CostSheetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCostSheetRepository implements CostSheetRepository
var _ costing.CostSheetRepository = (*GormCostSheetRepository)(nil)
