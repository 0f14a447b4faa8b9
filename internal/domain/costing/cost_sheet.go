package costing

import (
	"fmt"
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TemplateApplyMode controls how template rows merge into an existing sheet
type TemplateApplyMode string

const (
	TemplateApplyReplace TemplateApplyMode = "REPLACE" // Drop existing rows, load template rows
	TemplateApplyAppend  TemplateApplyMode = "APPEND"  // Keep existing rows, add template rows
)

// IsValid checks if the mode is a known value
func (m TemplateApplyMode) IsValid() bool {
	return m == TemplateApplyReplace || m == TemplateApplyAppend
}

// CostSheet is the internal cost-tracking aggregate attached to one invoice.
// Edits are staged on the sheet and only become part of the committed cost
// when the sheet is committed; the committed cost is what margin reporting
// compares against invoice revenue.
type CostSheet struct {
	shared.OrgAggregateRoot
	InvoiceID       uuid.UUID       `json:"invoice_id"`
	Items           CostItems       `json:"items"`
	CommittedTotal  decimal.Decimal `json:"committed_total"`
	LastCommittedAt *time.Time      `json:"last_committed_at,omitempty"`
}

// NewCostSheet creates an empty cost sheet for an invoice
func NewCostSheet(organizationID, invoiceID uuid.UUID) (*CostSheet, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}

	return &CostSheet{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		InvoiceID:        invoiceID,
		Items:            CostItems{},
		CommittedTotal:   decimal.Zero,
	}, nil
}

func (s *CostSheet) findItem(itemID uuid.UUID) (int, *CostItem) {
	for i := range s.Items {
		if s.Items[i].ID == itemID {
			return i, &s.Items[i]
		}
	}
	return -1, nil
}

func (s *CostSheet) touch() {
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// AddItem stages a new cost row
func (s *CostSheet) AddItem(label string, category CostCategory, quantity, unitCost decimal.Decimal) (*CostItem, error) {
	values, err := newCostItemValues(label, category, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s.Items = append(s.Items, CostItem{
		ID:        uuid.New(),
		State:     CostItemStateNew,
		Working:   values,
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.touch()

	return &s.Items[len(s.Items)-1], nil
}

// EditItem stages new values for a row. A committed row becomes DIRTY, a NEW
// row stays NEW. Rows pending removal cannot be edited.
func (s *CostSheet) EditItem(itemID uuid.UUID, label string, category CostCategory, quantity, unitCost decimal.Decimal) error {
	_, item := s.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}
	if item.State == CostItemStateRemoved {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a cost item pending removal")
	}

	values, err := newCostItemValues(label, category, quantity, unitCost)
	if err != nil {
		return err
	}

	item.Working = values
	if item.State == CostItemStateClean {
		item.State = CostItemStateDirty
	}
	item.UpdatedAt = time.Now()
	s.touch()

	return nil
}

// RemoveItem stages the removal of a row. NEW rows drop immediately; committed
// rows are kept with state REMOVED until the next commit.
func (s *CostSheet) RemoveItem(itemID uuid.UUID) error {
	idx, item := s.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}

	if item.State == CostItemStateNew {
		s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	} else {
		item.State = CostItemStateRemoved
		item.UpdatedAt = time.Now()
	}
	s.touch()

	return nil
}

// RevertItem undoes the staged change on one row: DIRTY and REMOVED rows are
// restored to their committed snapshot, NEW rows are dropped.
func (s *CostSheet) RevertItem(itemID uuid.UUID) error {
	idx, item := s.findItem(itemID)
	if item == nil {
		return shared.ErrNotFound
	}

	switch item.State {
	case CostItemStateNew:
		s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
	case CostItemStateDirty, CostItemStateRemoved:
		item.Working = *item.Committed
		item.State = CostItemStateClean
		item.UpdatedAt = time.Now()
	case CostItemStateClean:
		return shared.NewDomainError("NOT_DIRTY", "Cost item has no staged change to revert")
	}
	s.touch()

	return nil
}

// ApplyTemplate loads the template's rows into the sheet. REPLACE stages the
// removal of every existing row first; APPEND keeps them. Template rows always
// arrive as NEW. The template itself is never mutated.
func (s *CostSheet) ApplyTemplate(template *CostTemplate, mode TemplateApplyMode) error {
	if template == nil {
		return shared.NewDomainError("INVALID_TEMPLATE", "Template cannot be nil")
	}
	if template.OrganizationID != s.OrganizationID {
		return shared.ErrForbidden
	}
	if !mode.IsValid() {
		return shared.NewDomainError("INVALID_MODE", fmt.Sprintf("Unknown template apply mode %q", mode))
	}

	if mode == TemplateApplyReplace {
		kept := s.Items[:0]
		for i := range s.Items {
			item := s.Items[i]
			if item.State == CostItemStateNew {
				continue
			}
			item.State = CostItemStateRemoved
			item.UpdatedAt = time.Now()
			kept = append(kept, item)
		}
		s.Items = kept
	}

	now := time.Now()
	for _, row := range template.Rows {
		values, err := newCostItemValues(row.Label, row.Category, row.Quantity, row.UnitCost)
		if err != nil {
			return err
		}
		s.Items = append(s.Items, CostItem{
			ID:        uuid.New(),
			State:     CostItemStateNew,
			Working:   values,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	s.touch()

	s.AddDomainEvent(NewCostSheetTemplateAppliedEvent(s, template.ID, mode))

	return nil
}

// Commit makes the staged state the committed state: REMOVED rows are dropped,
// NEW and DIRTY rows are snapshotted, and the committed total is recomputed.
func (s *CostSheet) Commit() error {
	if !s.IsDirty() {
		return shared.NewDomainError("NOTHING_TO_COMMIT", "Cost sheet has no staged changes")
	}

	now := time.Now()
	kept := s.Items[:0]
	for i := range s.Items {
		item := s.Items[i]
		if item.State == CostItemStateRemoved {
			continue
		}
		snapshot := item.Working
		item.Committed = &snapshot
		item.State = CostItemStateClean
		item.UpdatedAt = now
		kept = append(kept, item)
	}
	s.Items = kept

	s.CommittedTotal = s.StagedTotal()
	s.LastCommittedAt = &now
	s.touch()

	s.AddDomainEvent(NewCostSheetCommittedEvent(s))

	return nil
}

// Discard drops all staged changes and restores the last committed state
func (s *CostSheet) Discard() error {
	if !s.IsDirty() {
		return shared.NewDomainError("NOTHING_TO_DISCARD", "Cost sheet has no staged changes")
	}

	now := time.Now()
	kept := s.Items[:0]
	for i := range s.Items {
		item := s.Items[i]
		switch item.State {
		case CostItemStateNew:
			continue
		case CostItemStateDirty, CostItemStateRemoved:
			item.Working = *item.Committed
			item.State = CostItemStateClean
			item.UpdatedAt = now
		}
		kept = append(kept, item)
	}
	s.Items = kept
	s.touch()

	return nil
}

// IsDirty reports whether any row differs from the committed state
func (s *CostSheet) IsDirty() bool {
	for i := range s.Items {
		if s.Items[i].State != CostItemStateClean {
			return true
		}
	}
	return false
}

// StagedTotal sums the working amounts of all rows except those pending removal
func (s *CostSheet) StagedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Items {
		if s.Items[i].CountsTowardStaged() {
			total = total.Add(s.Items[i].Working.Amount)
		}
	}
	return total
}

// CommittedCost returns the cost as of the last commit
func (s *CostSheet) CommittedCost() decimal.Decimal {
	return s.CommittedTotal
}

// ItemCount returns the number of rows including those pending removal
func (s *CostSheet) ItemCount() int {
	return len(s.Items)
}
