package persistence

import (
	"context"
	"testing"

	"github.com/facturo/backend/internal/domain/costing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCostTemplateTestDB creates an in-memory SQLite database for testing
func setupCostTemplateTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE cost_templates (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			organization_id TEXT NOT NULL,
			created_by TEXT,
			name TEXT NOT NULL,
			description TEXT,
			rows TEXT NOT NULL DEFAULT '[]'
		)
	`).Error
	require.NoError(t, err)

	return db
}

func newTestTemplate(t *testing.T, orgID uuid.UUID, name string) *costing.CostTemplate {
	t.Helper()
	tpl, err := costing.NewCostTemplate(orgID, name, "standard job costs", []costing.TemplateRow{
		{Label: "Sheet steel", Category: costing.CostCategoryMaterial, Quantity: decimal.NewFromInt(10), UnitCost: decimal.NewFromFloat(4.50)},
		{Label: "Welding", Category: costing.CostCategoryLabor, Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(60)},
	})
	require.NoError(t, err)
	return tpl
}

func TestGormCostTemplateRepository_SaveAndFind(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	tpl := newTestTemplate(t, orgID, "Fabrication")
	require.NoError(t, repo.Save(ctx, tpl))

	retrieved, err := repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, retrieved.ID)
	assert.Equal(t, "Fabrication", retrieved.Name)
	require.Len(t, retrieved.Rows, 2)
	assert.Equal(t, "Sheet steel", retrieved.Rows[0].Label)
	assert.Equal(t, costing.CostCategoryMaterial, retrieved.Rows[0].Category)
	assert.True(t, retrieved.Rows[0].UnitCost.Equal(decimal.NewFromFloat(4.50)))
}

func TestGormCostTemplateRepository_FindByIDForOrg(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	tpl := newTestTemplate(t, orgID, "Fabrication")
	require.NoError(t, repo.Save(ctx, tpl))

	retrieved, err := repo.FindByIDForOrg(ctx, orgID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, retrieved.ID)

	// Another organization must not see the template
	_, err = repo.FindByIDForOrg(ctx, uuid.New(), tpl.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCostTemplateRepository_FindByID_NotFound(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCostTemplateRepository_FindAllForOrg(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestTemplate(t, orgID, "Beta")))
	require.NoError(t, repo.Save(ctx, newTestTemplate(t, orgID, "Alpha")))
	require.NoError(t, repo.Save(ctx, newTestTemplate(t, uuid.New(), "Other org")))

	templates, err := repo.FindAllForOrg(ctx, orgID, shared.Filter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, templates, 2)
	// Default ordering is by name
	assert.Equal(t, "Alpha", templates[0].Name)
	assert.Equal(t, "Beta", templates[1].Name)
}

func TestGormCostTemplateRepository_Update(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	tpl := newTestTemplate(t, orgID, "Fabrication")
	require.NoError(t, repo.Save(ctx, tpl))

	require.NoError(t, tpl.Rename("Custom fabrication", "updated description"))
	require.NoError(t, repo.Save(ctx, tpl))

	retrieved, err := repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Custom fabrication", retrieved.Name)
	assert.Equal(t, 2, retrieved.Version)
}

func TestGormCostTemplateRepository_ExistsByName(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestTemplate(t, orgID, "Fabrication")))

	exists, err := repo.ExistsByName(ctx, orgID, "Fabrication")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, orgID, "Unknown")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByName(ctx, uuid.New(), "Fabrication")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormCostTemplateRepository_CountForOrg(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestTemplate(t, orgID, "Alpha")))
	require.NoError(t, repo.Save(ctx, newTestTemplate(t, orgID, "Beta")))

	count, err := repo.CountForOrg(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormCostTemplateRepository_Delete(t *testing.T) {
	db := setupCostTemplateTestDB(t)
	repo := NewGormCostTemplateRepository(db)
	ctx := context.Background()
	orgID := uuid.New()

	tpl := newTestTemplate(t, orgID, "Fabrication")
	require.NoError(t, repo.Save(ctx, tpl))

	// Deleting from the wrong organization is a not-found
	err := repo.Delete(ctx, uuid.New(), tpl.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, orgID, tpl.ID))

	_, err = repo.FindByID(ctx, tpl.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
