package billing

import (
	"context"
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuotationService handles quotation lifecycle operations including
// conversion into invoices
type QuotationService struct {
	quotationRepo billing.QuotationRepository
	invoiceRepo   billing.InvoiceRepository
	customerRepo  partner.CustomerRepository
	orgRepo       identity.OrganizationRepository
	logger        *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo billing.QuotationRepository,
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	orgRepo identity.OrganizationRepository,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		orgRepo:       orgRepo,
		logger:        logger,
	}
}

// Create creates a new draft quotation for a customer
func (s *QuotationService) Create(ctx context.Context, orgID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_ARCHIVED", "Cannot quote an archived customer")
	}

	currency, err := s.resolveCurrency(ctx, orgID, req.Currency)
	if err != nil {
		return nil, err
	}

	lines, err := billing.BuildLineItems(toLineInputs(req.Lines))
	if err != nil {
		return nil, err
	}

	number, err := s.quotationRepo.NextQuotationNumber(ctx, orgID, time.Now().Year())
	if err != nil {
		return nil, err
	}

	quotation, err := billing.NewQuotation(orgID, number, customer.ID, customer.Name, currency, req.ValidUntil, lines)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		quotation.SetNotes(req.Notes)
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

func (s *QuotationService) resolveCurrency(ctx context.Context, orgID uuid.UUID, requested string) (valueobject.Currency, error) {
	if requested != "" {
		currency := valueobject.Currency(requested)
		if !currency.IsValid() {
			return "", shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency code")
		}
		return currency, nil
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return "", err
	}
	return org.DefaultCurrency, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, orgID, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOrg(ctx, orgID, quotationID)
	if err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// List retrieves quotations with filtering and pagination
func (s *QuotationService) List(ctx context.Context, orgID uuid.UUID, filter QuotationListFilter) ([]QuotationResponse, int64, error) {
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

	domainFilter := billing.QuotationFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		CustomerID: filter.CustomerID,
	}
	if filter.Status != "" {
		status := billing.QuotationStatus(filter.Status)
		domainFilter.Status = &status
	}

	quotations, err := s.quotationRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.quotationRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = ToQuotationResponse(&quotations[i])
	}

	return responses, total, nil
}

// Update updates a draft quotation
func (s *QuotationService) Update(ctx context.Context, orgID, quotationID uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOrg(ctx, orgID, quotationID)
	if err != nil {
		return nil, err
	}

	if req.Lines != nil {
		lines, err := billing.BuildLineItems(toLineInputs(req.Lines))
		if err != nil {
			return nil, err
		}
		if err := quotation.ReplaceLines(lines); err != nil {
			return nil, err
		}
	}

	if req.ValidUntil != nil {
		quotation.ValidUntil = req.ValidUntil
	}

	if req.Notes != nil {
		quotation.SetNotes(*req.Notes)
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Send marks a quotation as sent to the customer
func (s *QuotationService) Send(ctx context.Context, orgID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, orgID, quotationID, (*billing.Quotation).Send)
}

// Accept records the customer's acceptance
func (s *QuotationService) Accept(ctx context.Context, orgID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, orgID, quotationID, (*billing.Quotation).Accept)
}

// Decline records the customer's rejection
func (s *QuotationService) Decline(ctx context.Context, orgID, quotationID uuid.UUID) (*QuotationResponse, error) {
	return s.transition(ctx, orgID, quotationID, (*billing.Quotation).Decline)
}

func (s *QuotationService) transition(ctx context.Context, orgID, quotationID uuid.UUID, op func(*billing.Quotation) error) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOrg(ctx, orgID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := op(quotation); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// ConvertToInvoice creates a draft invoice from an accepted quotation. The
// conversion mark and the new invoice are persisted in one transaction, so a
// failure leaves the quotation unconverted and ready for a retry.
func (s *QuotationService) ConvertToInvoice(ctx context.Context, orgID, quotationID uuid.UUID) (*InvoiceResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForOrg(ctx, orgID, quotationID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, quotation.CustomerID)
	if err != nil {
		return nil, err
	}

	// Copy the quotation's lines onto a fresh draft invoice
	inputs := make([]billing.LineItemInput, len(quotation.Lines))
	for i, l := range quotation.Lines {
		inputs[i] = billing.LineItemInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
		}
	}
	lines, err := billing.BuildLineItems(inputs)
	if err != nil {
		return nil, err
	}

	dueDate := time.Now().AddDate(0, 0, customer.PaymentTerms)
	invoice, err := billing.NewInvoice(orgID, quotation.CustomerID, quotation.CustomerName, quotation.Currency, &dueDate, lines)
	if err != nil {
		return nil, err
	}
	invoice.MarkFromQuotation(quotation.ID)

	if err := quotation.MarkConverted(invoice.ID); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveConversion(ctx, quotation, invoice); err != nil {
		s.logger.Error("Quotation conversion failed",
			zap.String("quotation_id", quotation.ID.String()),
			zap.Error(err))
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete removes a draft quotation
func (s *QuotationService) Delete(ctx context.Context, orgID, quotationID uuid.UUID) error {
	quotation, err := s.quotationRepo.FindByIDForOrg(ctx, orgID, quotationID)
	if err != nil {
		return err
	}

	if quotation.Status != billing.QuotationStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft quotations can be deleted")
	}

	return s.quotationRepo.Delete(ctx, orgID, quotation.ID)
}
