package payment

import (
	"context"
	"fmt"

	identityapp "github.com/facturo/backend/internal/application/identity"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/subscription"
	"go.uber.org/zap"
)

// StripeGateway implements the subscription gateway using Stripe hosted checkout
type StripeGateway struct {
	config config.StripeConfig
	logger *zap.Logger
}

// NewStripeGateway creates a new Stripe gateway and sets the global API key
func NewStripeGateway(cfg config.StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	stripe.Key = cfg.SecretKey

	return &StripeGateway{
		config: cfg,
		logger: logger,
	}, nil
}

// priceIDForPlan maps a plan to its configured Stripe price
func (g *StripeGateway) priceIDForPlan(plan identity.Plan) (string, error) {
	switch plan {
	case identity.PlanStarter:
		if g.config.StarterPriceID == "" {
			return "", fmt.Errorf("stripe: no price configured for plan %s", plan)
		}
		return g.config.StarterPriceID, nil
	case identity.PlanPro:
		if g.config.ProPriceID == "" {
			return "", fmt.Errorf("stripe: no price configured for plan %s", plan)
		}
		return g.config.ProPriceID, nil
	default:
		return "", fmt.Errorf("stripe: plan %s has no price", plan)
	}
}

// CreateCheckoutSession starts a hosted Stripe checkout for the given plan.
// The organization ID travels in the client reference so the webhook can
// attribute the completed checkout.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, orgID uuid.UUID, plan identity.Plan, customerEmail string) (*identityapp.CheckoutSession, error) {
	priceID, err := g.priceIDForPlan(plan)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(g.config.SuccessURL),
		CancelURL:         stripe.String(g.config.CancelURL),
		CustomerEmail:     stripe.String(customerEmail),
		ClientReferenceID: stripe.String(orgID.String()),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"organization_id": orgID.String(),
				"plan":            string(plan),
			},
		},
	}
	// Session-level metadata so checkout.session.completed carries the plan
	// without expanding the subscription.
	params.Metadata = map[string]string{
		"organization_id": orgID.String(),
		"plan":            string(plan),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("organization_id", orgID.String()),
			zap.String("plan", string(plan)),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("organization_id", orgID.String()),
		zap.String("session_id", sess.ID))

	return &identityapp.CheckoutSession{
		URL:       sess.URL,
		Reference: sess.ID,
	}, nil
}

// CancelSubscription cancels the provider-side subscription immediately
func (g *StripeGateway) CancelSubscription(ctx context.Context, gatewayReference string) error {
	if gatewayReference == "" {
		return fmt.Errorf("stripe: gateway reference is required")
	}

	params := &stripe.SubscriptionCancelParams{}
	params.Context = ctx

	if _, err := subscription.Cancel(gatewayReference, params); err != nil {
		g.logger.Error("Failed to cancel Stripe subscription",
			zap.String("subscription_id", gatewayReference),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel subscription: %w", err)
	}

	g.logger.Info("Cancelled Stripe subscription",
		zap.String("subscription_id", gatewayReference))
	return nil
}

// Ensure StripeGateway implements SubscriptionGateway
var _ identityapp.SubscriptionGateway = (*StripeGateway)(nil)
