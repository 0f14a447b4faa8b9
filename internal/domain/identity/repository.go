package identity

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)

	// FindBySlug finds an organization by its slug
	FindBySlug(ctx context.Context, slug string) (*Organization, error)

	// FindAll lists organizations with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Organization, error)

	// Save creates or updates an organization
	Save(ctx context.Context, org *Organization) error

	// ExistsBySlug checks if a slug is already taken
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Count counts organizations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email (emails are unique across the deployment)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAllForOrg lists users belonging to an organization
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// CountForOrg counts users in an organization
	CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// SubscriptionRepository defines the interface for subscription persistence
type SubscriptionRepository interface {
	// FindByID finds a subscription by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindCurrentForOrg finds the organization's non-cancelled subscription, if any
	FindCurrentForOrg(ctx context.Context, orgID uuid.UUID) (*Subscription, error)

	// FindByGatewayReference finds a subscription by its payment-gateway reference
	FindByGatewayReference(ctx context.Context, reference string) (*Subscription, error)

	// Save creates or updates a subscription
	Save(ctx context.Context, sub *Subscription) error
}
