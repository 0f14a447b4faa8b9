package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document kinds tracked by the number sequence table.
const (
	sequenceKindInvoice   = "INVOICE"
	sequenceKindQuotation = "QUOTATION"
)

// nextSequenceValue reserves the next value of a per-organization, per-year
// counter. The upsert bumps last_value atomically, so two transactions
// issuing at the same time get distinct values: the second one blocks on the
// row lock until the first commits.
func nextSequenceValue(ctx context.Context, db *gorm.DB, orgID uuid.UUID, kind string, year int) (int64, error) {
	var next int64
	err := db.WithContext(ctx).Raw(`
		INSERT INTO number_sequences (organization_id, kind, year, last_value)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (organization_id, kind, year)
		DO UPDATE SET last_value = number_sequences.last_value + 1
		RETURNING last_value`,
		orgID, kind, year,
	).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to reserve %s number: %w", kind, err)
	}
	return next, nil
}

// formatDocumentNumber renders a document number like INV-2026-0042.
func formatDocumentNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}
