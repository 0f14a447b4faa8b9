package identity

import (
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrganizationCreatedEvent is raised when a new organization is created
type OrganizationCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// EventType returns the event type name
func (e *OrganizationCreatedEvent) EventType() string {
	return "OrganizationCreated"
}

// NewOrganizationCreatedEvent creates a new OrganizationCreatedEvent
func NewOrganizationCreatedEvent(org *Organization) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrganizationCreated", "Organization", org.ID, org.ID),
		Name:            org.Name,
		Slug:            org.Slug,
	}
}

// OrganizationDeactivatedEvent is raised when an organization is deactivated
type OrganizationDeactivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// EventType returns the event type name
func (e *OrganizationDeactivatedEvent) EventType() string {
	return "OrganizationDeactivated"
}

// NewOrganizationDeactivatedEvent creates a new OrganizationDeactivatedEvent
func NewOrganizationDeactivatedEvent(org *Organization) *OrganizationDeactivatedEvent {
	return &OrganizationDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("OrganizationDeactivated", "Organization", org.ID, org.ID),
		Name:            org.Name,
	}
}

// UserRegisteredEvent is raised when a new user registers
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// EventType returns the event type name
func (e *UserRegisteredEvent) EventType() string {
	return "UserRegistered"
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("UserRegistered", "User", u.ID, u.OrganizationID),
		Email:           u.Email,
		Role:            u.Role,
	}
}

// SubscriptionStatusChangedEvent is raised on any subscription transition
type SubscriptionStatusChangedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID          `json:"subscription_id"`
	Plan           Plan               `json:"plan"`
	From           SubscriptionStatus `json:"from"`
	To             SubscriptionStatus `json:"to"`
}

// EventType returns the event type name
func (e *SubscriptionStatusChangedEvent) EventType() string {
	return "SubscriptionStatusChanged"
}

// NewSubscriptionStatusChangedEvent creates a new SubscriptionStatusChangedEvent
func NewSubscriptionStatusChangedEvent(s *Subscription, from SubscriptionStatus) *SubscriptionStatusChangedEvent {
	return &SubscriptionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SubscriptionStatusChanged", "Subscription", s.ID, s.OrganizationID),
		SubscriptionID:  s.ID,
		Plan:            s.Plan,
		From:            from,
		To:              s.Status,
	}
}
