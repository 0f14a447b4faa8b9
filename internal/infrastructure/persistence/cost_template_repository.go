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

// GormCostTemplateRepository implements CostTemplateRepository using GORM
type GormCostTemplateRepository struct {
	db *gorm.DB
}

// NewGormCostTemplateRepository creates a new GormCostTemplateRepository
func NewGormCostTemplateRepository(db *gorm.DB) *GormCostTemplateRepository {
	return &GormCostTemplateRepository{db: db}
}

// FindByID finds a cost template by its ID
func (r *GormCostTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*costing.CostTemplate, error) {
	var model models.CostTemplateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds a cost template by ID within an organization
func (r *GormCostTemplateRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*costing.CostTemplate, error) {
	var model models.CostTemplateModel
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

// FindAllForOrg finds all cost templates for an organization
func (r *GormCostTemplateRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]costing.CostTemplate, error) {
	var templateModels []models.CostTemplateModel
	query := r.db.WithContext(ctx).Model(&models.CostTemplateModel{}).Where("organization_id = ?", orgID)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchPattern, searchPattern)
	}
	query = applyPaginationAndOrder(query, filter, "name ASC")

	if err := query.Find(&templateModels).Error; err != nil {
		return nil, err
	}

	templates := make([]costing.CostTemplate, len(templateModels))
	for i, model := range templateModels {
		templates[i] = *model.ToDomain()
	}
	return templates, nil
}

// Save creates or updates a cost template
func (r *GormCostTemplateRepository) Save(ctx context.Context, template *costing.CostTemplate) error {
	model := models.CostTemplateModelFromDomain(template)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a cost template within an organization
func (r *GormCostTemplateRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CostTemplateModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByName checks if a template with the given name exists in the organization
func (r *GormCostTemplateRepository) ExistsByName(ctx context.Context, orgID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CostTemplateModel{}).
		Where("organization_id = ? AND name = ?", orgID, name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForOrg counts cost templates for an organization
func (r *GormCostTemplateRepository) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CostTemplateModel{}).
		Where("organization_id = ?", orgID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormCostTemplateRepository implements CostTemplateRepository
var _ costing.CostTemplateRepository = (*GormCostTemplateRepository)(nil)
