package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	identityapp "github.com/facturo/backend/internal/application/identity"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// StripeWebhookProcessor verifies and dispatches Stripe webhook events to the
// subscription service. Endpoints calling it must pass the raw request body:
// signature verification covers the exact bytes Stripe sent.
type StripeWebhookProcessor struct {
	config        config.StripeConfig
	subscriptions *identityapp.SubscriptionService
	logger        *zap.Logger
}

// NewStripeWebhookProcessor creates a new StripeWebhookProcessor
func NewStripeWebhookProcessor(cfg config.StripeConfig, subscriptions *identityapp.SubscriptionService, logger *zap.Logger) *StripeWebhookProcessor {
	return &StripeWebhookProcessor{
		config:        cfg,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// ProcessWebhook verifies the signature and processes a Stripe webhook event
func (p *StripeWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.config.WebhookSecret)
	if err != nil {
		p.logger.Error("Failed to verify webhook signature", zap.Error(err))
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	p.logger.Info("Processing Stripe webhook event",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))

	result := &WebhookResult{
		EventID:   event.ID,
		EventType: string(event.Type),
		Processed: true,
	}

	switch event.Type {
	case "checkout.session.completed":
		err = p.handleCheckoutCompleted(ctx, event)
	case "invoice.paid":
		err = p.handleInvoicePaid(ctx, event)
	case "invoice.payment_failed":
		err = p.handleInvoicePaymentFailed(ctx, event)
	case "customer.subscription.deleted":
		err = p.handleSubscriptionDeleted(ctx, event)
	default:
		p.logger.Debug("Unhandled webhook event type",
			zap.String("event_type", string(event.Type)))
		result.Message = "Event type not handled"
	}

	if err != nil {
		p.logger.Error("Failed to process webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}

	return result, nil
}

// handleCheckoutCompleted activates the organization's subscription once the
// hosted checkout finishes
func (p *StripeWebhookProcessor) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	orgID, err := uuid.Parse(sess.ClientReferenceID)
	if err != nil {
		p.logger.Warn("Checkout session has no usable client reference, skipping",
			zap.String("session_id", sess.ID))
		return nil
	}

	plan := identity.Plan(sess.Metadata["plan"])
	if !plan.IsValid() || plan == identity.PlanFree {
		p.logger.Warn("Checkout session carries no valid plan, skipping",
			zap.String("session_id", sess.ID),
			zap.String("plan", sess.Metadata["plan"]))
		return nil
	}

	gatewayReference := ""
	periodEnd := time.Now().AddDate(0, 1, 0)
	if sess.Subscription != nil {
		gatewayReference = sess.Subscription.ID
		if sess.Subscription.CurrentPeriodEnd > 0 {
			periodEnd = time.Unix(sess.Subscription.CurrentPeriodEnd, 0)
		}
	}
	if gatewayReference == "" {
		return fmt.Errorf("checkout session %s completed without a subscription", sess.ID)
	}

	return p.subscriptions.HandleCheckoutCompleted(ctx, orgID, plan, gatewayReference, periodEnd)
}

// handleInvoicePaid rolls the subscription period forward on renewal
func (p *StripeWebhookProcessor) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	if inv.Subscription == nil {
		p.logger.Debug("Paid invoice without subscription, skipping",
			zap.String("invoice_id", inv.ID))
		return nil
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	if inv.PeriodEnd > 0 {
		periodEnd = time.Unix(inv.PeriodEnd, 0)
	}
	if len(inv.Lines.Data) > 0 && inv.Lines.Data[0].Period != nil && inv.Lines.Data[0].Period.End > 0 {
		periodEnd = time.Unix(inv.Lines.Data[0].Period.End, 0)
	}

	return p.subscriptions.HandleRenewal(ctx, inv.Subscription.ID, periodEnd)
}

// handleInvoicePaymentFailed marks the subscription past due
func (p *StripeWebhookProcessor) handleInvoicePaymentFailed(ctx context.Context, event stripe.Event) error {
	var inv stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to unmarshal invoice: %w", err)
	}

	if inv.Subscription == nil {
		return nil
	}
	return p.subscriptions.HandlePaymentFailed(ctx, inv.Subscription.ID)
}

// handleSubscriptionDeleted cancels the local subscription when Stripe ends it
func (p *StripeWebhookProcessor) handleSubscriptionDeleted(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to unmarshal subscription: %w", err)
	}
	return p.subscriptions.HandleGatewayCancellation(ctx, sub.ID)
}
