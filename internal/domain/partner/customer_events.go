package partner

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerCreatedEvent is raised when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// EventType returns the event type name
func (e *CustomerCreatedEvent) EventType() string {
	return "CustomerCreated"
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CustomerCreated", "Customer", c.ID, c.OrganizationID),
		CustomerID:      c.ID,
		Code:            c.Code,
		Name:            c.Name,
	}
}

// CustomerArchivedEvent is raised when a customer is archived
type CustomerArchivedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Code       string    `json:"code"`
}

// EventType returns the event type name
func (e *CustomerArchivedEvent) EventType() string {
	return "CustomerArchived"
}

// NewCustomerArchivedEvent creates a new CustomerArchivedEvent
func NewCustomerArchivedEvent(c *Customer) *CustomerArchivedEvent {
	return &CustomerArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CustomerArchived", "Customer", c.ID, c.OrganizationID),
		CustomerID:      c.ID,
		Code:            c.Code,
	}
}
