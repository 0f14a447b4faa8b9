package identity

import (
	"time"

	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Plan represents a subscription plan tier
type Plan string

const (
	PlanFree    Plan = "FREE"
	PlanStarter Plan = "STARTER"
	PlanPro     Plan = "PRO"
)

// IsValid checks if the plan is a known tier
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanStarter, PlanPro:
		return true
	}
	return false
}

// SubscriptionStatus represents the lifecycle state of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "TRIALING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusTrialing, SubscriptionStatusActive,
		SubscriptionStatusPastDue, SubscriptionStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true once the subscription can no longer change state
func (s SubscriptionStatus) IsTerminal() bool {
	return s == SubscriptionStatusCancelled
}

// Subscription tracks an organization's plan. At most one non-cancelled
// subscription exists per organization (enforced by the application service).
type Subscription struct {
	shared.OrgAggregateRoot
	Plan             Plan               `json:"plan"`
	Status           SubscriptionStatus `json:"status"`
	PeriodStart      time.Time          `json:"period_start"`
	PeriodEnd        time.Time          `json:"period_end"`
	GatewayReference string             `json:"gateway_reference,omitempty"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty"`
}

// NewTrialSubscription starts a trial for the given organization
func NewTrialSubscription(organizationID uuid.UUID, plan Plan, trialDays int) (*Subscription, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan is not valid")
	}
	if trialDays < 1 {
		return nil, shared.NewDomainError("INVALID_TRIAL", "Trial must run at least one day")
	}

	now := time.Now()
	s := &Subscription{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(organizationID),
		Plan:             plan,
		Status:           SubscriptionStatusTrialing,
		PeriodStart:      now,
		PeriodEnd:        now.AddDate(0, 0, trialDays),
	}
	return s, nil
}

// Activate moves the subscription to ACTIVE, typically after gateway payment
func (s *Subscription) Activate(gatewayReference string, periodEnd time.Time) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot activate a cancelled subscription")
	}
	if periodEnd.Before(time.Now()) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end must be in the future")
	}

	from := s.Status
	s.Status = SubscriptionStatusActive
	s.GatewayReference = gatewayReference
	s.PeriodStart = time.Now()
	s.PeriodEnd = periodEnd
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, from))

	return nil
}

// MarkPastDue flags the subscription after a failed renewal charge
func (s *Subscription) MarkPastDue() error {
	if s.Status != SubscriptionStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active subscriptions can become past due")
	}

	from := s.Status
	s.Status = SubscriptionStatusPastDue
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, from))

	return nil
}

// Cancel terminates the subscription
func (s *Subscription) Cancel() error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Subscription is already cancelled")
	}

	from := s.Status
	now := time.Now()
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSubscriptionStatusChangedEvent(s, from))

	return nil
}

// ChangePlan switches the plan tier on an open subscription
func (s *Subscription) ChangePlan(plan Plan) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Plan is not valid")
	}
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot change plan on a cancelled subscription")
	}
	s.Plan = plan
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsExpired returns true once the paid/trial period has lapsed
func (s *Subscription) IsExpired() bool {
	return time.Now().After(s.PeriodEnd)
}
