package partner

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerFilter defines filtering options for customer queries
type CustomerFilter struct {
	shared.Filter
	Active *bool // Filter by active/archived state
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForOrg finds a customer by ID within an organization
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*Customer, error)

	// FindByCode finds a customer by code within an organization
	FindByCode(ctx context.Context, orgID uuid.UUID, code string) (*Customer, error)

	// FindAllForOrg lists customers of an organization with filtering
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter CustomerFilter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Delete hard-deletes a customer. Callers must verify no invoices reference it.
	Delete(ctx context.Context, orgID, id uuid.UUID) error

	// ExistsByCode checks if a code is taken within an organization
	ExistsByCode(ctx context.Context, orgID uuid.UUID, code string) (bool, error)

	// CountForOrg counts customers of an organization matching the filter
	CountForOrg(ctx context.Context, orgID uuid.UUID, filter CustomerFilter) (int64, error)
}
