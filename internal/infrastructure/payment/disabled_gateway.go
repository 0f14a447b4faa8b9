package payment

import (
	"context"

	identityapp "github.com/facturo/backend/internal/application/identity"
	"github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DisabledGateway stands in when no Stripe credentials are configured.
// Checkout and cancellation fail with a gateway error while the rest of
// the API stays usable.
type DisabledGateway struct {
	logger *zap.Logger
}

// NewDisabledGateway creates a gateway that rejects all payment operations
func NewDisabledGateway(logger *zap.Logger) *DisabledGateway {
	return &DisabledGateway{logger: logger}
}

func (g *DisabledGateway) CreateCheckoutSession(ctx context.Context, orgID uuid.UUID, plan identity.Plan, customerEmail string) (*identityapp.CheckoutSession, error) {
	g.logger.Warn("Checkout attempted without a configured payment gateway",
		zap.String("organization_id", orgID.String()),
		zap.String("plan", string(plan)))
	return nil, shared.NewDomainError("GATEWAY_ERROR", "Payment gateway is not configured")
}

func (g *DisabledGateway) CancelSubscription(ctx context.Context, gatewayReference string) error {
	g.logger.Warn("Gateway cancellation attempted without a configured payment gateway",
		zap.String("reference", gatewayReference))
	return shared.NewDomainError("GATEWAY_ERROR", "Payment gateway is not configured")
}

var _ identityapp.SubscriptionGateway = (*DisabledGateway)(nil)
