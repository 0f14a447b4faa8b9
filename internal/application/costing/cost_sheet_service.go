package costing

import (
	"context"
	"errors"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/costing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CostSheetService manages the staged cost sheet attached to an invoice
type CostSheetService struct {
	sheetRepo    costing.CostSheetRepository
	templateRepo costing.CostTemplateRepository
	invoiceRepo  billing.InvoiceRepository
}

// NewCostSheetService creates a new CostSheetService
func NewCostSheetService(
	sheetRepo costing.CostSheetRepository,
	templateRepo costing.CostTemplateRepository,
	invoiceRepo billing.InvoiceRepository,
) *CostSheetService {
	return &CostSheetService{
		sheetRepo:    sheetRepo,
		templateRepo: templateRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// GetForInvoice returns the invoice's cost sheet, creating an empty one on
// first access. The sheet is only persisted once something is staged.
func (s *CostSheetService) GetForInvoice(ctx context.Context, orgID, invoiceID uuid.UUID) (*CostSheetResponse, error) {
	sheet, err := s.getOrCreate(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToCostSheetResponse(sheet)
	return &response, nil
}

func (s *CostSheetService) getOrCreate(ctx context.Context, orgID, invoiceID uuid.UUID) (*costing.CostSheet, error) {
	sheet, err := s.sheetRepo.FindByInvoiceID(ctx, orgID, invoiceID)
	if err == nil {
		return sheet, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	// The invoice must exist in this organization before a sheet is opened
	if _, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID); err != nil {
		return nil, err
	}
	return costing.NewCostSheet(orgID, invoiceID)
}

func (s *CostSheetService) mutate(ctx context.Context, orgID, invoiceID uuid.UUID, op func(*costing.CostSheet) error) (*CostSheetResponse, error) {
	sheet, err := s.getOrCreate(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := op(sheet); err != nil {
		return nil, err
	}

	if err := s.sheetRepo.Save(ctx, sheet); err != nil {
		return nil, err
	}

	response := ToCostSheetResponse(sheet)
	return &response, nil
}

// AddItem stages a new cost row on the invoice's sheet
func (s *CostSheetService) AddItem(ctx context.Context, orgID, invoiceID uuid.UUID, req CostItemRequest) (*CostSheetResponse, error) {
	return s.mutate(ctx, orgID, invoiceID, func(sheet *costing.CostSheet) error {
		_, err := sheet.AddItem(req.Label, costing.CostCategory(req.Category), req.Quantity, req.UnitCost)
		return err
	})
}

// EditItem stages changed values for an existing cost row
func (s *CostSheetService) EditItem(ctx context.Context, orgID, invoiceID, itemID uuid.UUID, req CostItemRequest) (*CostSheetResponse, error) {
	return s.mutate(ctx, orgID, invoiceID, func(sheet *costing.CostSheet) error {
		return sheet.EditItem(itemID, req.Label, costing.CostCategory(req.Category), req.Quantity, req.UnitCost)
	})
}

// RemoveItem stages the removal of a cost row
func (s *CostSheetService) RemoveItem(ctx context.Context, orgID, invoiceID, itemID uuid.UUID) (*CostSheetResponse, error) {
	return s.mutate(ctx, orgID, invoiceID, func(sheet *costing.CostSheet) error {
		return sheet.RemoveItem(itemID)
	})
}

// RevertItem undoes the staged changes of a single cost row
func (s *CostSheetService) RevertItem(ctx context.Context, orgID, invoiceID, itemID uuid.UUID) (*CostSheetResponse, error) {
	return s.mutate(ctx, orgID, invoiceID, func(sheet *costing.CostSheet) error {
		return sheet.RevertItem(itemID)
	})
}

// ApplyTemplate stages a template's rows onto the sheet
func (s *CostSheetService) ApplyTemplate(ctx context.Context, orgID, invoiceID uuid.UUID, req ApplyTemplateRequest) (*CostSheetResponse, error) {
	template, err := s.templateRepo.FindByIDForOrg(ctx, orgID, req.TemplateID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, orgID, invoiceID, func(sheet *costing.CostSheet) error {
		return sheet.ApplyTemplate(template, costing.TemplateApplyMode(req.Mode))
	})
}

// Commit makes all staged changes permanent
func (s *CostSheetService) Commit(ctx context.Context, orgID, invoiceID uuid.UUID) (*CostSheetResponse, error) {
	return s.mutate(ctx, orgID, invoiceID, func(sheet *costing.CostSheet) error {
		return sheet.Commit()
	})
}

// Discard throws away all staged changes and restores the committed state
func (s *CostSheetService) Discard(ctx context.Context, orgID, invoiceID uuid.UUID) (*CostSheetResponse, error) {
	return s.mutate(ctx, orgID, invoiceID, func(sheet *costing.CostSheet) error {
		return sheet.Discard()
	})
}
