package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// quotationNumberPrefix is fixed; only invoices use the organization's
// configurable prefix.
const quotationNumberPrefix = "QUO"

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quotation, error) {
	var model models.QuotationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForOrg finds a quotation by ID within an organization
func (r *GormQuotationRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Quotation, error) {
	var model models.QuotationModel
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

// FindAllForOrg finds all quotations for an organization matching the filter
func (r *GormQuotationRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.QuotationFilter) ([]billing.Quotation, error) {
	var quotationModels []models.QuotationModel
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{}).Where("organization_id = ?", orgID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&quotationModels).Error; err != nil {
		return nil, err
	}

	quotations := make([]billing.Quotation, len(quotationModels))
	for i, model := range quotationModels {
		quotations[i] = *model.ToDomain()
	}
	return quotations, nil
}

// FindExpirable finds sent quotations whose validity has lapsed, across all
// organizations. Used by the scheduler.
func (r *GormQuotationRepository) FindExpirable(ctx context.Context, asOf time.Time) ([]billing.Quotation, error) {
	var quotationModels []models.QuotationModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?", billing.QuotationStatusSent, asOf).
		Order("valid_until ASC").
		Find(&quotationModels).Error; err != nil {
		return nil, err
	}

	quotations := make([]billing.Quotation, len(quotationModels))
	for i, model := range quotationModels {
		quotations[i] = *model.ToDomain()
	}
	return quotations, nil
}

// Save creates or updates a quotation
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *billing.Quotation) error {
	model := models.QuotationModelFromDomain(quotation)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveConversion writes the converted quotation and its new invoice in one
// transaction. A conversion always creates a fresh invoice, so a plain insert
// suffices; any failure aborts the transaction and leaves the quotation
// unconverted.
func (r *GormQuotationRepository) SaveConversion(ctx context.Context, quotation *billing.Quotation, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(models.QuotationModelFromDomain(quotation)).Error; err != nil {
			return err
		}
		return tx.Create(models.InvoiceModelFromDomain(invoice)).Error
	})
}

// Delete deletes a quotation within an organization
func (r *GormQuotationRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.QuotationModel{}, "organization_id = ? AND id = ?", orgID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForOrg counts quotations for an organization matching the filter
func (r *GormQuotationRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter billing.QuotationFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.QuotationModel{}).Where("organization_id = ?", orgID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextQuotationNumber reserves the next sequential quotation number for the organization
func (r *GormQuotationRepository) NextQuotationNumber(ctx context.Context, orgID uuid.UUID, year int) (string, error) {
	seq, err := nextSequenceValue(ctx, r.db, orgID, sequenceKindQuotation, year)
	if err != nil {
		return "", err
	}
	return formatDocumentNumber(quotationNumberPrefix, year, seq), nil
}

// applyFilter applies filter options to the query
func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter billing.QuotationFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter.Filter, "created_at DESC")
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuotationRepository) applyFilterWithoutPagination(query *gorm.DB, filter billing.QuotationFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("quotation_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	return query
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ billing.QuotationRepository = (*GormQuotationRepository)(nil)
