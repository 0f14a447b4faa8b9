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
)

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo partner.CustomerRepository
	orgRepo      identity.OrganizationRepository
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	orgRepo identity.OrganizationRepository,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		orgRepo:      orgRepo,
	}
}

// Create creates a new draft invoice for a customer
func (s *InvoiceService) Create(ctx context.Context, orgID uuid.UUID, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("CUSTOMER_ARCHIVED", "Cannot invoice an archived customer")
	}

	currency, err := s.resolveCurrency(ctx, orgID, req.Currency)
	if err != nil {
		return nil, err
	}

	lines, err := billing.BuildLineItems(toLineInputs(req.Lines))
	if err != nil {
		return nil, err
	}

	dueDate := req.DueDate
	if dueDate == nil {
		due := time.Now().AddDate(0, 0, customer.PaymentTerms)
		dueDate = &due
	}

	invoice, err := billing.NewInvoice(orgID, customer.ID, customer.Name, currency, dueDate, lines)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		invoice.SetNotes(req.Notes)
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

func (s *InvoiceService) resolveCurrency(ctx context.Context, orgID uuid.UUID, requested string) (valueobject.Currency, error) {
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

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, orgID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
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

	domainFilter := billing.InvoiceFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		CustomerID: filter.CustomerID,
		IssuedFrom: filter.IssuedFrom,
		IssuedTo:   filter.IssuedTo,
		Overdue:    filter.Overdue,
	}
	if filter.Status != "" {
		status := billing.InvoiceStatus(filter.Status)
		domainFilter.Status = &status
	}

	invoices, err := s.invoiceRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.invoiceRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}

	return responses, total, nil
}

// Update updates a draft invoice
func (s *InvoiceService) Update(ctx context.Context, orgID, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	lines := invoice.Lines
	if req.Lines != nil {
		lines, err = billing.BuildLineItems(toLineInputs(req.Lines))
		if err != nil {
			return nil, err
		}
	}
	dueDate := invoice.DueDate
	if req.DueDate != nil {
		dueDate = req.DueDate
	}
	notes := invoice.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	if err := invoice.UpdateDraft(lines, dueDate, notes); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// UpdateDueDate changes the due date. Unlike a draft edit this is allowed on
// issued invoices, as long as the invoice has not reached a terminal state.
func (s *InvoiceService) UpdateDueDate(ctx context.Context, orgID, invoiceID uuid.UUID, req UpdateDueDateRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.SetDueDate(req.DueDate); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Issue assigns the next sequential number and moves the invoice to ISSUED
func (s *InvoiceService) Issue(ctx context.Context, orgID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	issueDate := time.Now()
	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, orgID, org.InvoicePrefix, issueDate.Year())
	if err != nil {
		return nil, err
	}

	if err := invoice.Issue(number, issueDate); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// RecordPayment records a payment against an issued invoice
func (s *InvoiceService) RecordPayment(ctx context.Context, orgID, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	amount, err := valueobject.NewMoney(req.Amount, invoice.Currency)
	if err != nil {
		return nil, err
	}

	if _, err := invoice.RecordPayment(amount, billing.PaymentMethod(req.Method), req.Reference, req.Note); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Cancel voids an invoice before any payment
func (s *InvoiceService) Cancel(ctx context.Context, orgID, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete removes a draft invoice. Issued invoices are cancelled, never deleted.
func (s *InvoiceService) Delete(ctx context.Context, orgID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByIDForOrg(ctx, orgID, invoiceID)
	if err != nil {
		return err
	}

	if invoice.Status != billing.InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}

	return s.invoiceRepo.Delete(ctx, orgID, invoice.ID)
}
