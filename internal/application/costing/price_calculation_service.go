package costing

import (
	"context"

	"github.com/facturo/backend/internal/domain/costing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PriceCalculationService manages saved pricing scenarios
type PriceCalculationService struct {
	calcRepo costing.PriceCalculationRepository
}

// NewPriceCalculationService creates a new PriceCalculationService
func NewPriceCalculationService(calcRepo costing.PriceCalculationRepository) *PriceCalculationService {
	return &PriceCalculationService{calcRepo: calcRepo}
}

// Create saves a new pricing scenario
func (s *PriceCalculationService) Create(ctx context.Context, orgID uuid.UUID, req PriceCalculationRequest) (*PriceCalculationResponse, error) {
	calc, err := costing.NewPriceCalculation(orgID, req.Name, toPriceInputs(req.Inputs), req.MarkupPercent, req.VATRate)
	if err != nil {
		return nil, err
	}

	if err := s.calcRepo.Save(ctx, calc); err != nil {
		return nil, err
	}

	response := ToPriceCalculationResponse(calc)
	return &response, nil
}

// Preview computes suggested prices without persisting anything
func (s *PriceCalculationService) Preview(ctx context.Context, orgID uuid.UUID, req PriceCalculationRequest) (*PriceCalculationResponse, error) {
	calc, err := costing.NewPriceCalculation(orgID, req.Name, toPriceInputs(req.Inputs), req.MarkupPercent, req.VATRate)
	if err != nil {
		return nil, err
	}

	response := ToPriceCalculationResponse(calc)
	return &response, nil
}

// GetByID retrieves a pricing scenario by ID
func (s *PriceCalculationService) GetByID(ctx context.Context, orgID, calcID uuid.UUID) (*PriceCalculationResponse, error) {
	calc, err := s.calcRepo.FindByIDForOrg(ctx, orgID, calcID)
	if err != nil {
		return nil, err
	}

	response := ToPriceCalculationResponse(calc)
	return &response, nil
}

// List retrieves pricing scenarios with pagination
func (s *PriceCalculationService) List(ctx context.Context, orgID uuid.UUID, filter ListFilter) ([]PriceCalculationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	calcs, err := s.calcRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.calcRepo.CountForOrg(ctx, orgID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PriceCalculationResponse, len(calcs))
	for i := range calcs {
		responses[i] = ToPriceCalculationResponse(&calcs[i])
	}

	return responses, total, nil
}

// Update rewrites a pricing scenario and rederives its suggested prices
func (s *PriceCalculationService) Update(ctx context.Context, orgID, calcID uuid.UUID, req PriceCalculationRequest) (*PriceCalculationResponse, error) {
	calc, err := s.calcRepo.FindByIDForOrg(ctx, orgID, calcID)
	if err != nil {
		return nil, err
	}

	if err := calc.Update(req.Name, toPriceInputs(req.Inputs), req.MarkupPercent, req.VATRate); err != nil {
		return nil, err
	}

	if err := s.calcRepo.Save(ctx, calc); err != nil {
		return nil, err
	}

	response := ToPriceCalculationResponse(calc)
	return &response, nil
}

// Delete removes a pricing scenario
func (s *PriceCalculationService) Delete(ctx context.Context, orgID, calcID uuid.UUID) error {
	if _, err := s.calcRepo.FindByIDForOrg(ctx, orgID, calcID); err != nil {
		return err
	}
	return s.calcRepo.Delete(ctx, orgID, calcID)
}
