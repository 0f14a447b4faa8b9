package partner

import (
	"context"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	invoiceRepo  billing.InvoiceRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, invoiceRepo billing.InvoiceRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, orgID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.customerRepo.ExistsByCode(ctx, orgID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this code already exists")
	}

	customer, err := partner.NewCustomer(orgID, req.Code, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Address != "" || req.TaxNumber != "" || req.Notes != "" {
		if err := customer.Update(req.Name, req.Email, req.Phone, req.Address, req.TaxNumber, req.Notes); err != nil {
			return nil, err
		}
	}

	if req.PaymentTerms != nil {
		if err := customer.SetPaymentTerms(*req.PaymentTerms); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, orgID, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, orgID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
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

	domainFilter := partner.CustomerFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Active: filter.Active,
	}

	customers, err := s.customerRepo.FindAllForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.CountForOrg(ctx, orgID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}

	return responses, total, nil
}

// Update updates a customer's details
func (s *CustomerService) Update(ctx context.Context, orgID, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}

	name := customer.Name
	if req.Name != nil {
		name = *req.Name
	}
	email := customer.Email
	if req.Email != nil {
		email = *req.Email
	}
	phone := customer.Phone
	if req.Phone != nil {
		phone = *req.Phone
	}
	address := customer.Address
	if req.Address != nil {
		address = *req.Address
	}
	taxNumber := customer.TaxNumber
	if req.TaxNumber != nil {
		taxNumber = *req.TaxNumber
	}
	notes := customer.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	if err := customer.Update(name, email, phone, address, taxNumber, notes); err != nil {
		return nil, err
	}

	if req.PaymentTerms != nil {
		if err := customer.SetPaymentTerms(*req.PaymentTerms); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Archive deactivates a customer while keeping its documents intact
func (s *CustomerService) Archive(ctx context.Context, orgID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, customerID)
	if err != nil {
		return err
	}

	if err := customer.Archive(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}

// Restore reactivates an archived customer
func (s *CustomerService) Restore(ctx context.Context, orgID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, customerID)
	if err != nil {
		return err
	}

	if err := customer.Restore(); err != nil {
		return err
	}

	return s.customerRepo.Save(ctx, customer)
}

// Delete removes a customer that has never been invoiced. Customers with
// invoices must be archived instead.
func (s *CustomerService) Delete(ctx context.Context, orgID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForOrg(ctx, orgID, customerID)
	if err != nil {
		return err
	}

	hasInvoices, err := s.invoiceRepo.ExistsForCustomer(ctx, orgID, customer.ID)
	if err != nil {
		return err
	}
	if hasInvoices {
		return shared.NewDomainError("HAS_INVOICES", "Customer has invoices and can only be archived")
	}

	return s.customerRepo.Delete(ctx, orgID, customer.ID)
}
