package costing

import (
	"context"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CostSheetRepository defines the persistence interface for cost sheets
type CostSheetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CostSheet, error)
	FindByInvoiceID(ctx context.Context, orgID, invoiceID uuid.UUID) (*CostSheet, error)
	FindByInvoiceIDs(ctx context.Context, orgID uuid.UUID, invoiceIDs []uuid.UUID) ([]CostSheet, error)
	Save(ctx context.Context, sheet *CostSheet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CostTemplateRepository defines the persistence interface for cost templates
type CostTemplateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CostTemplate, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*CostTemplate, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]CostTemplate, error)
	Save(ctx context.Context, template *CostTemplate) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	ExistsByName(ctx context.Context, orgID uuid.UUID, name string) (bool, error)
	CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}

// PriceCalculationRepository defines the persistence interface for saved
// pricing scenarios
type PriceCalculationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PriceCalculation, error)
	FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*PriceCalculation, error)
	FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]PriceCalculation, error)
	Save(ctx context.Context, calc *PriceCalculation) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error)
}
