package persistence

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubscriptionRepository implements SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByID finds a subscription by its ID
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCurrentForOrg finds the organization's non-cancelled subscription.
// There is at most one: a new subscription replaces the cancelled one.
func (r *GormSubscriptionRepository) FindCurrentForOrg(ctx context.Context, orgID uuid.UUID) (*identity.Subscription, error) {
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND status <> ?", orgID, identity.SubscriptionStatusCancelled).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByGatewayReference finds a subscription by its payment-gateway reference
func (r *GormSubscriptionRepository) FindByGatewayReference(ctx context.Context, reference string) (*identity.Subscription, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Gateway reference cannot be empty")
	}
	var model models.SubscriptionModel
	if err := r.db.WithContext(ctx).
		Where("gateway_reference = ?", reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *identity.Subscription) error {
	model := models.SubscriptionModelFromDomain(sub)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSubscriptionRepository implements SubscriptionRepository
var _ identity.SubscriptionRepository = (*GormSubscriptionRepository)(nil)
