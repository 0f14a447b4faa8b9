package identity

import (
	"context"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// OrganizationService manages the tenant's own organization record
type OrganizationService struct {
	orgRepo identity.OrganizationRepository
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(orgRepo identity.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// Get returns the organization profile
func (s *OrganizationService) Get(ctx context.Context, orgID uuid.UUID) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// UpdateProfile updates the organization's contact and billing details
func (s *OrganizationService) UpdateProfile(ctx context.Context, orgID uuid.UUID, req UpdateOrganizationRequest) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if err := org.UpdateProfile(req.Name, req.Email, req.Phone, req.Address, req.TaxNumber); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// UpdateInvoiceSettings changes invoice numbering prefix and default currency
func (s *OrganizationService) UpdateInvoiceSettings(ctx context.Context, orgID uuid.UUID, req UpdateInvoiceSettingsRequest) (*OrganizationResponse, error) {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.InvoicePrefix != nil {
		if err := org.SetInvoicePrefix(*req.InvoicePrefix); err != nil {
			return nil, err
		}
	}
	if req.DefaultCurrency != nil {
		if err := org.SetDefaultCurrency(valueobject.Currency(*req.DefaultCurrency)); err != nil {
			return nil, err
		}
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	resp := ToOrganizationResponse(org)
	return &resp, nil
}

// Deactivate marks the organization inactive. Data is retained.
func (s *OrganizationService) Deactivate(ctx context.Context, orgID uuid.UUID) error {
	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return err
	}

	if err := org.Deactivate(); err != nil {
		return err
	}

	return s.orgRepo.Save(ctx, org)
}
