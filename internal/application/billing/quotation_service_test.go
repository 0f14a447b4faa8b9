package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/partner"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockQuotationRepository is a mock implementation of billing.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Quotation, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.QuotationFilter) ([]billing.Quotation, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]billing.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindExpirable(ctx context.Context, asOf time.Time) ([]billing.Quotation, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]billing.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, quotation *billing.Quotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *MockQuotationRepository) SaveConversion(ctx context.Context, quotation *billing.Quotation, invoice *billing.Invoice) error {
	args := m.Called(ctx, quotation, invoice)
	return args.Error(0)
}

func (m *MockQuotationRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockQuotationRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter billing.QuotationFilter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) NextQuotationNumber(ctx context.Context, orgID uuid.UUID, year int) (string, error) {
	args := m.Called(ctx, orgID, year)
	return args.String(0), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, orgID uuid.UUID, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, orgID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindIssuedBetween(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsForCustomer(ctx context.Context, orgID, customerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orgID, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, orgID uuid.UUID, prefix string, year int) (string, error) {
	args := m.Called(ctx, orgID, prefix, year)
	return args.String(0), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, orgID uuid.UUID, code string) (*partner.Customer, error) {
	args := m.Called(ctx, orgID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter partner.CustomerFilter) ([]partner.Customer, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, orgID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, orgID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) CountForOrg(ctx context.Context, orgID uuid.UUID, filter partner.CustomerFilter) (int64, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrganizationRepository is a mock implementation of identity.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*identity.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Organization, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func testCustomer(t *testing.T, orgID uuid.UUID) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(orgID, "ACME", "Acme GmbH", "billing@acme.example")
	require.NoError(t, err)
	return customer
}

func acceptedQuotation(t *testing.T, orgID uuid.UUID, customer *partner.Customer) *billing.Quotation {
	t.Helper()
	lines, err := billing.BuildLineItems([]billing.LineItemInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(100), VATRate: decimal.NewFromInt(19)},
	})
	require.NoError(t, err)
	q, err := billing.NewQuotation(orgID, "QUO-2026-0001", customer.ID, customer.Name, valueobject.EUR, nil, lines)
	require.NoError(t, err)
	require.NoError(t, q.Send())
	require.NoError(t, q.Accept())
	return q
}

func newQuotationService() (*QuotationService, *MockQuotationRepository, *MockInvoiceRepository, *MockCustomerRepository, *MockOrganizationRepository) {
	quotationRepo := new(MockQuotationRepository)
	invoiceRepo := new(MockInvoiceRepository)
	customerRepo := new(MockCustomerRepository)
	orgRepo := new(MockOrganizationRepository)
	svc := NewQuotationService(quotationRepo, invoiceRepo, customerRepo, orgRepo, zap.NewNop())
	return svc, quotationRepo, invoiceRepo, customerRepo, orgRepo
}

func TestQuotationServiceCreate(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("assigns the next quotation number", func(t *testing.T) {
		svc, quotationRepo, _, customerRepo, _ := newQuotationService()
		customer := testCustomer(t, orgID)

		customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
		quotationRepo.On("NextQuotationNumber", ctx, orgID, time.Now().Year()).Return("QUO-2026-0007", nil)
		quotationRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quotation")).Return(nil)

		resp, err := svc.Create(ctx, orgID, CreateQuotationRequest{
			CustomerID: customer.ID,
			Currency:   "EUR",
			Lines: []LineItemRequest{
				{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500), VATRate: decimal.NewFromInt(19)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "QUO-2026-0007", resp.QuotationNumber)
		assert.Equal(t, "DRAFT", resp.Status)
	})

	t.Run("falls back to the organization default currency", func(t *testing.T) {
		svc, quotationRepo, _, customerRepo, orgRepo := newQuotationService()
		customer := testCustomer(t, orgID)
		org, err := identity.NewOrganization("Acme Workshop", "acme-workshop", "owner@acme.example", valueobject.CHF)
		require.NoError(t, err)

		customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
		orgRepo.On("FindByID", ctx, orgID).Return(org, nil)
		quotationRepo.On("NextQuotationNumber", ctx, orgID, mock.AnythingOfType("int")).Return("QUO-2026-0001", nil)
		quotationRepo.On("Save", ctx, mock.AnythingOfType("*billing.Quotation")).Return(nil)

		resp, err := svc.Create(ctx, orgID, CreateQuotationRequest{CustomerID: customer.ID})

		require.NoError(t, err)
		assert.Equal(t, "CHF", resp.Currency)
	})

	t.Run("rejects archived customer", func(t *testing.T) {
		svc, quotationRepo, _, customerRepo, _ := newQuotationService()
		customer := testCustomer(t, orgID)
		require.NoError(t, customer.Archive())

		customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)

		_, err := svc.Create(ctx, orgID, CreateQuotationRequest{CustomerID: customer.ID})

		assert.ErrorContains(t, err, "CUSTOMER_ARCHIVED")
		quotationRepo.AssertNotCalled(t, "Save")
	})
}

func TestQuotationServiceConvertToInvoice(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("creates a draft invoice copying the lines", func(t *testing.T) {
		svc, quotationRepo, invoiceRepo, customerRepo, _ := newQuotationService()
		customer := testCustomer(t, orgID)
		quotation := acceptedQuotation(t, orgID, customer)

		quotationRepo.On("FindByIDForOrg", ctx, orgID, quotation.ID).Return(quotation, nil)
		customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
		quotationRepo.On("SaveConversion", ctx, quotation, mock.AnythingOfType("*billing.Invoice")).Return(nil)

		resp, err := svc.ConvertToInvoice(ctx, orgID, quotation.ID)

		require.NoError(t, err)
		invoiceRepo.AssertNotCalled(t, "Save")
		assert.Equal(t, "DRAFT", resp.Status)
		assert.Equal(t, "", resp.InvoiceNumber)
		require.NotNil(t, resp.QuotationID)
		assert.Equal(t, quotation.ID, *resp.QuotationID)
		assert.True(t, quotation.Total.Equal(resp.Total))
		assert.Len(t, resp.Lines, len(quotation.Lines))
		assert.True(t, quotation.IsConverted())
	})

	t.Run("second conversion is rejected", func(t *testing.T) {
		svc, quotationRepo, invoiceRepo, customerRepo, _ := newQuotationService()
		customer := testCustomer(t, orgID)
		quotation := acceptedQuotation(t, orgID, customer)
		require.NoError(t, quotation.MarkConverted(uuid.New()))

		quotationRepo.On("FindByIDForOrg", ctx, orgID, quotation.ID).Return(quotation, nil)
		customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)

		_, err := svc.ConvertToInvoice(ctx, orgID, quotation.ID)

		assert.ErrorContains(t, err, "ALREADY_CONVERTED")
		invoiceRepo.AssertNotCalled(t, "Save")
		quotationRepo.AssertNotCalled(t, "SaveConversion")
	})

	t.Run("conversion from a draft quotation is rejected", func(t *testing.T) {
		svc, quotationRepo, invoiceRepo, customerRepo, _ := newQuotationService()
		customer := testCustomer(t, orgID)
		lines, err := billing.BuildLineItems([]billing.LineItemInput{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100), VATRate: decimal.Zero},
		})
		require.NoError(t, err)
		quotation, err := billing.NewQuotation(orgID, "QUO-2026-0002", customer.ID, customer.Name, valueobject.EUR, nil, lines)
		require.NoError(t, err)

		quotationRepo.On("FindByIDForOrg", ctx, orgID, quotation.ID).Return(quotation, nil)
		customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)

		_, err = svc.ConvertToInvoice(ctx, orgID, quotation.ID)

		assert.ErrorContains(t, err, "INVALID_STATE")
		invoiceRepo.AssertNotCalled(t, "Save")
		quotationRepo.AssertNotCalled(t, "SaveConversion")
	})

	t.Run("a failed conversion writes nothing outside the transaction", func(t *testing.T) {
		svc, quotationRepo, invoiceRepo, customerRepo, _ := newQuotationService()
		customer := testCustomer(t, orgID)
		quotation := acceptedQuotation(t, orgID, customer)

		quotationRepo.On("FindByIDForOrg", ctx, orgID, quotation.ID).Return(quotation, nil)
		customerRepo.On("FindByIDForOrg", ctx, orgID, customer.ID).Return(customer, nil)
		quotationRepo.On("SaveConversion", ctx, quotation, mock.AnythingOfType("*billing.Invoice")).Return(errors.New("db down"))

		_, err := svc.ConvertToInvoice(ctx, orgID, quotation.ID)

		require.Error(t, err)
		// Both writes go through the single transactional call, so neither
		// aggregate can be persisted on its own.
		quotationRepo.AssertNotCalled(t, "Save")
		invoiceRepo.AssertNotCalled(t, "Save")
	})
}

func TestQuotationServiceDelete(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("only drafts can be deleted", func(t *testing.T) {
		svc, quotationRepo, _, _, _ := newQuotationService()
		customer := testCustomer(t, orgID)
		quotation := acceptedQuotation(t, orgID, customer)

		quotationRepo.On("FindByIDForOrg", ctx, orgID, quotation.ID).Return(quotation, nil)

		err := svc.Delete(ctx, orgID, quotation.ID)

		assert.ErrorContains(t, err, "INVALID_STATE")
		quotationRepo.AssertNotCalled(t, "Delete")
	})
}
