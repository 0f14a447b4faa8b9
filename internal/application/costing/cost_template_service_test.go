package costing

import (
	"context"
	"testing"

	"github.com/facturo/backend/internal/domain/costing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func standardRows() []TemplateRowRequest {
	return []TemplateRowRequest{
		{Label: "Steel profile", Category: "MATERIAL", Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromInt(25)},
		{Label: "Welding", Category: "LABOR", Quantity: decimal.NewFromInt(8), UnitCost: decimal.NewFromInt(60)},
	}
}

func TestCostTemplateServiceCreate(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("successful creation", func(t *testing.T) {
		templateRepo := new(MockCostTemplateRepository)
		svc := NewCostTemplateService(templateRepo)

		templateRepo.On("ExistsByName", ctx, orgID, "Standard gate").Return(false, nil)
		templateRepo.On("Save", ctx, mock.AnythingOfType("*costing.CostTemplate")).Return(nil)

		resp, err := svc.Create(ctx, orgID, CreateCostTemplateRequest{
			Name: "Standard gate",
			Rows: standardRows(),
		})

		require.NoError(t, err)
		assert.Equal(t, "Standard gate", resp.Name)
		assert.Len(t, resp.Rows, 2)
		assert.True(t, decimal.NewFromInt(730).Equal(resp.EstimatedTotal))
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		templateRepo := new(MockCostTemplateRepository)
		svc := NewCostTemplateService(templateRepo)

		templateRepo.On("ExistsByName", ctx, orgID, "Standard gate").Return(true, nil)

		_, err := svc.Create(ctx, orgID, CreateCostTemplateRequest{
			Name: "Standard gate",
			Rows: standardRows(),
		})

		assert.ErrorContains(t, err, "ALREADY_EXISTS")
		templateRepo.AssertNotCalled(t, "Save")
	})
}

func TestCostTemplateServiceUpdate(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	t.Run("rename checks uniqueness only when the name changes", func(t *testing.T) {
		templateRepo := new(MockCostTemplateRepository)
		svc := NewCostTemplateService(templateRepo)
		template, err := costing.NewCostTemplate(orgID, "Standard gate", "", []costing.TemplateRow{
			{Label: "Steel", Category: costing.CostCategoryMaterial, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(100)},
		})
		require.NoError(t, err)

		templateRepo.On("FindByIDForOrg", ctx, orgID, template.ID).Return(template, nil)
		templateRepo.On("Save", ctx, template).Return(nil)

		desc := "Single wing gate"
		resp, err := svc.Update(ctx, orgID, template.ID, UpdateCostTemplateRequest{Description: &desc})

		require.NoError(t, err)
		assert.Equal(t, "Single wing gate", resp.Description)
		templateRepo.AssertNotCalled(t, "ExistsByName")
	})

	t.Run("replacing rows rederives the estimate", func(t *testing.T) {
		templateRepo := new(MockCostTemplateRepository)
		svc := NewCostTemplateService(templateRepo)
		template, err := costing.NewCostTemplate(orgID, "Standard gate", "", []costing.TemplateRow{
			{Label: "Steel", Category: costing.CostCategoryMaterial, Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromInt(100)},
		})
		require.NoError(t, err)

		templateRepo.On("FindByIDForOrg", ctx, orgID, template.ID).Return(template, nil)
		templateRepo.On("Save", ctx, template).Return(nil)

		resp, err := svc.Update(ctx, orgID, template.ID, UpdateCostTemplateRequest{Rows: standardRows()})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(730).Equal(resp.EstimatedTotal))
	})
}

func TestPriceCalculationService(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()

	newService := func() (*PriceCalculationService, *MockPriceCalculationRepository) {
		calcRepo := new(MockPriceCalculationRepository)
		return NewPriceCalculationService(calcRepo), calcRepo
	}

	request := PriceCalculationRequest{
		Name: "Gate offer",
		Inputs: []PriceInputRequest{
			{Label: "Materials", Amount: decimal.NewFromInt(600)},
			{Label: "Labour", Amount: decimal.NewFromInt(400)},
		},
		MarkupPercent: decimal.NewFromInt(30),
		VATRate:       decimal.NewFromInt(19),
	}

	t.Run("create derives suggested prices", func(t *testing.T) {
		svc, calcRepo := newService()

		calcRepo.On("Save", ctx, mock.AnythingOfType("*costing.PriceCalculation")).Return(nil)

		resp, err := svc.Create(ctx, orgID, request)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000).Equal(resp.TotalCost))
		assert.True(t, decimal.NewFromInt(1300).Equal(resp.SuggestedNet))
		assert.True(t, decimal.NewFromInt(1547).Equal(resp.SuggestedGross))
		assert.True(t, decimal.NewFromInt(300).Equal(resp.ProjectedProfit))
	})

	t.Run("preview never persists", func(t *testing.T) {
		svc, calcRepo := newService()

		resp, err := svc.Preview(ctx, orgID, request)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1300).Equal(resp.SuggestedNet))
		calcRepo.AssertNotCalled(t, "Save")
	})

	t.Run("update rederives prices from new inputs", func(t *testing.T) {
		svc, calcRepo := newService()
		calc, err := costing.NewPriceCalculation(orgID, "Gate offer",
			[]costing.PriceInput{{Label: "Materials", Amount: decimal.NewFromInt(100)}},
			decimal.NewFromInt(10), decimal.NewFromInt(19))
		require.NoError(t, err)

		calcRepo.On("FindByIDForOrg", ctx, orgID, calc.ID).Return(calc, nil)
		calcRepo.On("Save", ctx, calc).Return(nil)

		resp, err := svc.Update(ctx, orgID, calc.ID, request)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1000).Equal(resp.TotalCost))
		assert.True(t, decimal.NewFromInt(1300).Equal(resp.SuggestedNet))
	})
}

// MockPriceCalculationRepository is a mock implementation of costing.PriceCalculationRepository
type MockPriceCalculationRepository struct {
	mock.Mock
}

func (m *MockPriceCalculationRepository) FindByID(ctx context.Context, id uuid.UUID) (*costing.PriceCalculation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*costing.PriceCalculation), args.Error(1)
}

func (m *MockPriceCalculationRepository) FindByIDForOrg(ctx context.Context, orgID, id uuid.UUID) (*costing.PriceCalculation, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*costing.PriceCalculation), args.Error(1)
}

func (m *MockPriceCalculationRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]costing.PriceCalculation, error) {
	args := m.Called(ctx, orgID, filter)
	return args.Get(0).([]costing.PriceCalculation), args.Error(1)
}

func (m *MockPriceCalculationRepository) Save(ctx context.Context, calc *costing.PriceCalculation) error {
	args := m.Called(ctx, calc)
	return args.Error(0)
}

func (m *MockPriceCalculationRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockPriceCalculationRepository) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}
