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

// GormPriceCalculationRepository implements PriceCalculationRepository using GORM
type GormPriceCalculationRepository struct {
	db *gorm.DB
}

// NewGormPriceCalculationRepository creates a new GormPriceCalculationRepository
func NewGormPriceCalculationRepository(db *gorm.DB) *GormPriceCalculationRepository {
	return &GormPriceCalculationRepository{db: db}
}

// FindByID finds a price calculation by its ID
func (r *GormPriceCalculationRepository) FindByID(ctx context.Context, id uuid.UUID) (*costing.PriceCalculation, error) {
	var model models.PriceCalculationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds a price calculation by ID within an organization
func (r *GormPriceCalculationRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*costing.PriceCalculation, error) {
	var model models.PriceCalculationModel
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

// FindAllForOrg finds all price calculations for an organization
func (r *GormPriceCalculationRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]costing.PriceCalculation, error) {
	var calcModels []models.PriceCalculationModel
	query := r.db.WithContext(ctx).Model(&models.PriceCalculationModel{}).Where("organization_id = ?", orgID)
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applyPaginationAndOrder(query, filter, "created_at DESC")

	if err := query.Find(&calcModels).Error; err != nil {
		return nil, err
	}

	calcs := make([]costing.PriceCalculation, len(calcModels))
	for i, model := range calcModels {
		calcs[i] = *model.ToDomain()
	}
	return calcs, nil
}

// Save creates or updates a price calculation
func (r *GormPriceCalculationRepository) Save(ctx context.Context, calc *costing.PriceCalculation) error {
	model := models.PriceCalculationModelFromDomain(calc)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a price calculation within an organization
func (r *GormPriceCalculationRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PriceCalculationModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForOrg counts price calculations for an organization
func (r *GormPriceCalculationRepository) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PriceCalculationModel{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPriceCalculationRepository implements PriceCalculationRepository
var _ costing.PriceCalculationRepository = (*GormPriceCalculationRepository)(nil)
