package identity

import (
	"context"
	"errors"
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutSession is returned by the payment gateway when a checkout is started
type CheckoutSession struct {
	URL       string
	Reference string
}

// SubscriptionGateway abstracts the payment provider used for paid plans
type SubscriptionGateway interface {
	// CreateCheckoutSession starts a hosted checkout for the given plan
	CreateCheckoutSession(ctx context.Context, orgID uuid.UUID, plan identity.Plan, customerEmail string) (*CheckoutSession, error)

	// CancelSubscription cancels the provider-side subscription
	CancelSubscription(ctx context.Context, gatewayReference string) error
}

// SubscriptionService manages an organization's plan lifecycle
type SubscriptionService struct {
	subRepo identity.SubscriptionRepository
	orgRepo identity.OrganizationRepository
	gateway SubscriptionGateway
	billing config.BillingConfig
	logger  *zap.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	subRepo identity.SubscriptionRepository,
	orgRepo identity.OrganizationRepository,
	gateway SubscriptionGateway,
	billing config.BillingConfig,
	logger *zap.Logger,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo: subRepo,
		orgRepo: orgRepo,
		gateway: gateway,
		billing: billing,
		logger:  logger,
	}
}

// GetCurrent returns the organization's open subscription
func (s *SubscriptionService) GetCurrent(ctx context.Context, orgID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindCurrentForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// StartCheckout begins a hosted checkout for upgrading to a paid plan
func (s *SubscriptionService) StartCheckout(ctx context.Context, orgID uuid.UUID, req StartCheckoutRequest) (*CheckoutResponse, error) {
	plan := identity.Plan(req.Plan)
	if !plan.IsValid() || plan == identity.PlanFree {
		return nil, shared.NewDomainError("INVALID_PLAN", "Checkout requires a paid plan")
	}

	sub, err := s.subRepo.FindCurrentForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if sub.Status == identity.SubscriptionStatusActive && sub.Plan == plan {
		return nil, shared.NewDomainError("ALREADY_SUBSCRIBED", "Organization is already on this plan")
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, orgID, plan, org.Email)
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("GATEWAY_ERROR", "Failed to start checkout")
	}

	s.logger.Info("Checkout started",
		zap.String("organization_id", orgID.String()),
		zap.String("plan", string(plan)),
		zap.String("reference", session.Reference))

	return &CheckoutResponse{
		CheckoutURL: session.URL,
		Reference:   session.Reference,
	}, nil
}

// ChangePlan switches the plan tier on an open subscription
func (s *SubscriptionService) ChangePlan(ctx context.Context, orgID uuid.UUID, req ChangePlanRequest) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindCurrentForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if err := sub.ChangePlan(identity.Plan(req.Plan)); err != nil {
		return nil, err
	}

	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}

	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// Cancel terminates the organization's subscription, including provider-side
func (s *SubscriptionService) Cancel(ctx context.Context, orgID uuid.UUID) (*SubscriptionResponse, error) {
	sub, err := s.subRepo.FindCurrentForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if sub.GatewayReference != "" {
		if err := s.gateway.CancelSubscription(ctx, sub.GatewayReference); err != nil {
			s.logger.Error("Failed to cancel provider subscription",
				zap.String("reference", sub.GatewayReference),
				zap.Error(err))
			return nil, shared.NewDomainError("GATEWAY_ERROR", "Failed to cancel subscription with payment provider")
		}
	}

	if err := sub.Cancel(); err != nil {
		return nil, err
	}

	if err := s.subRepo.Save(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("Subscription cancelled",
		zap.String("organization_id", orgID.String()),
		zap.String("subscription_id", sub.ID.String()))

	resp := ToSubscriptionResponse(sub)
	return &resp, nil
}

// HandleCheckoutCompleted activates the subscription after a gateway checkout.
// Called by the webhook handler; idempotent for repeated deliveries.
func (s *SubscriptionService) HandleCheckoutCompleted(ctx context.Context, orgID uuid.UUID, plan identity.Plan, gatewayReference string, periodEnd time.Time) error {
	sub, err := s.subRepo.FindCurrentForOrg(ctx, orgID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Checkout completed for an org whose trial was cancelled; start fresh
			sub, err = identity.NewTrialSubscription(orgID, plan, 1)
			if err != nil {
				return err
			}
		} else {
			return err
		}
	}

	if sub.Status == identity.SubscriptionStatusActive && sub.GatewayReference == gatewayReference {
		// Duplicate webhook delivery
		return nil
	}

	if err := sub.ChangePlan(plan); err != nil {
		return err
	}
	if err := sub.Activate(gatewayReference, periodEnd); err != nil {
		return err
	}

	if err := s.subRepo.Save(ctx, sub); err != nil {
		return err
	}

	s.logger.Info("Subscription activated",
		zap.String("organization_id", orgID.String()),
		zap.String("plan", string(plan)),
		zap.String("reference", gatewayReference))

	return nil
}

// HandleRenewal extends the paid period after a successful renewal charge
func (s *SubscriptionService) HandleRenewal(ctx context.Context, gatewayReference string, periodEnd time.Time) error {
	sub, err := s.subRepo.FindByGatewayReference(ctx, gatewayReference)
	if err != nil {
		return err
	}

	if err := sub.Activate(gatewayReference, periodEnd); err != nil {
		return err
	}

	return s.subRepo.Save(ctx, sub)
}

// HandlePaymentFailed flags the subscription after a failed renewal charge
func (s *SubscriptionService) HandlePaymentFailed(ctx context.Context, gatewayReference string) error {
	sub, err := s.subRepo.FindByGatewayReference(ctx, gatewayReference)
	if err != nil {
		return err
	}

	if err := sub.MarkPastDue(); err != nil {
		return err
	}

	s.logger.Warn("Subscription past due",
		zap.String("organization_id", sub.OrganizationID.String()),
		zap.String("reference", gatewayReference))

	return s.subRepo.Save(ctx, sub)
}

// HandleGatewayCancellation cancels the subscription after provider-side cancellation
func (s *SubscriptionService) HandleGatewayCancellation(ctx context.Context, gatewayReference string) error {
	sub, err := s.subRepo.FindByGatewayReference(ctx, gatewayReference)
	if err != nil {
		return err
	}

	if err := sub.Cancel(); err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Code == "INVALID_STATE" {
			// Already cancelled locally
			return nil
		}
		return err
	}

	return s.subRepo.Save(ctx, sub)
}
