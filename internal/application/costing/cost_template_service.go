package costing

import (
	"context"

	"github.com/facturo/backend/internal/domain/costing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CostTemplateService manages reusable cost templates
type CostTemplateService struct {
	templateRepo costing.CostTemplateRepository
}

// NewCostTemplateService creates a new CostTemplateService
func NewCostTemplateService(templateRepo costing.CostTemplateRepository) *CostTemplateService {
	return &CostTemplateService{templateRepo: templateRepo}
}

// Create creates a new cost template
func (s *CostTemplateService) Create(ctx context.Context, orgID uuid.UUID, req CreateCostTemplateRequest) (*CostTemplateResponse, error) {
	exists, err := s.templateRepo.ExistsByName(ctx, orgID, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A template with this name already exists")
	}

	template, err := costing.NewCostTemplate(orgID, req.Name, req.Description, toTemplateRows(req.Rows))
	if err != nil {
		return nil, err
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToCostTemplateResponse(template)
	return &response, nil
}

// GetByID retrieves a template by ID
func (s *CostTemplateService) GetByID(ctx context.Context, orgID, templateID uuid.UUID) (*CostTemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForOrg(ctx, orgID, templateID)
	if err != nil {
		return nil, err
	}

	response := ToCostTemplateResponse(template)
	return &response, nil
}

// List retrieves templates with pagination
func (s *CostTemplateService) List(ctx context.Context, orgID uuid.UUID, filter ListFilter) ([]CostTemplateResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	templates, err := s.templateRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.templateRepo.CountForOrg(ctx, orgID)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CostTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToCostTemplateResponse(&templates[i])
	}

	return responses, total, nil
}

// Update updates a template's name, description or rows
func (s *CostTemplateService) Update(ctx context.Context, orgID, templateID uuid.UUID, req UpdateCostTemplateRequest) (*CostTemplateResponse, error) {
	template, err := s.templateRepo.FindByIDForOrg(ctx, orgID, templateID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != template.Name {
		exists, err := s.templateRepo.ExistsByName(ctx, orgID, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A template with this name already exists")
		}
	}

	name := template.Name
	if req.Name != nil {
		name = *req.Name
	}
	description := template.Description
	if req.Description != nil {
		description = *req.Description
	}
	if err := template.Rename(name, description); err != nil {
		return nil, err
	}

	if req.Rows != nil {
		if err := template.ReplaceRows(toTemplateRows(req.Rows)); err != nil {
			return nil, err
		}
	}

	if err := s.templateRepo.Save(ctx, template); err != nil {
		return nil, err
	}

	response := ToCostTemplateResponse(template)
	return &response, nil
}

// Delete removes a template. Sheets it was applied to keep their rows.
func (s *CostTemplateService) Delete(ctx context.Context, orgID, templateID uuid.UUID) error {
	if _, err := s.templateRepo.FindByIDForOrg(ctx, orgID, templateID); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, orgID, templateID)
}
