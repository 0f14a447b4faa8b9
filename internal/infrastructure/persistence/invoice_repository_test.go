package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/facturo/backend/internal/domain/billing"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func newMockInvoiceRepository(t *testing.T) (*GormInvoiceRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormInvoiceRepository(gormDB), mock, mockDB
}

func TestGormInvoiceRepository_FindByNumber(t *testing.T) {
	t.Run("finds issued invoice", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		invoiceID := uuid.New()
		orgID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "organization_id", "invoice_number", "customer_name", "currency", "total", "status", "lines", "payment_records"}).
			AddRow(invoiceID, orgID, "INV-2026-0001", "Acme GmbH", "EUR", decimal.NewFromInt(1190), "ISSUED", []byte(`[]`), []byte(`[]`))

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE organization_id = \$1 AND invoice_number = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(orgID, "INV-2026-0001", 1).
			WillReturnRows(rows)

		invoice, err := repo.FindByNumber(context.Background(), orgID, "INV-2026-0001")

		assert.NoError(t, err)
		assert.NotNil(t, invoice)
		assert.Equal(t, "INV-2026-0001", invoice.InvoiceNumber)
		assert.Equal(t, billing.InvoiceStatusIssued, invoice.Status)
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(1190)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown number", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE organization_id = \$1 AND invoice_number = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(orgID, "INV-1999-9999", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		invoice, err := repo.FindByNumber(context.Background(), orgID, "INV-1999-9999")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, invoice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_FindOverdue(t *testing.T) {
	t.Run("queries open statuses past due date", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		rows := sqlmock.NewRows([]string{"id", "organization_id", "invoice_number", "status", "lines", "payment_records"}).
			AddRow(uuid.New(), uuid.New(), "INV-2026-0001", "ISSUED", []byte(`[]`), []byte(`[]`)).
			AddRow(uuid.New(), uuid.New(), "INV-2026-0002", "PARTIALLY_PAID", []byte(`[]`), []byte(`[]`))

		mock.ExpectQuery(`SELECT \* FROM "invoices" WHERE status IN \(\$1,\$2\) AND due_date IS NOT NULL AND due_date < \$3 ORDER BY due_date ASC`).
			WithArgs("ISSUED", "PARTIALLY_PAID", asOf).
			WillReturnRows(rows)

		invoices, err := repo.FindOverdue(context.Background(), asOf)

		assert.NoError(t, err)
		assert.Len(t, invoices, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_NextInvoiceNumber(t *testing.T) {
	t.Run("formats number from reserved sequence value", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`INSERT INTO number_sequences .* ON CONFLICT .* RETURNING last_value`).
			WithArgs(orgID, "INVOICE", 2026).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(42))

		number, err := repo.NextInvoiceNumber(context.Background(), orgID, "INV", 2026)

		assert.NoError(t, err)
		assert.Equal(t, "INV-2026-0042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first reservation for a year starts at one", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()

		mock.ExpectQuery(`INSERT INTO number_sequences .* ON CONFLICT .* RETURNING last_value`).
			WithArgs(orgID, "INVOICE", 2027).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(1))

		number, err := repo.NextInvoiceNumber(context.Background(), orgID, "RE", 2027)

		assert.NoError(t, err)
		assert.Equal(t, "RE-2027-0001", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInvoiceRepository_ExistsForCustomer(t *testing.T) {
	t.Run("reports referencing invoices", func(t *testing.T) {
		repo, mock, mockDB := newMockInvoiceRepository(t)
		defer mockDB.Close()

		orgID := uuid.New()
		customerID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE organization_id = \$1 AND customer_id = \$2`).
			WithArgs(orgID, customerID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		exists, err := repo.ExistsForCustomer(context.Background(), orgID, customerID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
