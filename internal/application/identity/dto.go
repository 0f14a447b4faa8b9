package identity

import (
	"time"

	"github.com/facturo/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the input for registering a new organization
type RegisterInput struct {
	OrganizationName string `json:"organization_name" binding:"required,max=200"`
	Slug             string `json:"slug" binding:"required,max=100"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	DisplayName      string `json:"display_name" binding:"omitempty,max=100"`
	Currency         string `json:"currency" binding:"omitempty,len=3"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserInfo contains basic user information returned after authentication
type UserInfo struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Email          string     `json:"email"`
	DisplayName    string     `json:"display_name"`
	Role           string     `json:"role"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
}

// AuthResult contains tokens and user info after registration or login
type AuthResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID       uuid.UUID
	AccessJTI    string
	RefreshToken string
	AccessTTL    time.Duration
	AllSessions  bool
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UpdateOrganizationRequest carries profile updates for an organization
type UpdateOrganizationRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	Email     string `json:"email" binding:"omitempty,email"`
	Phone     string `json:"phone" binding:"omitempty,max=50"`
	Address   string `json:"address" binding:"omitempty,max=500"`
	TaxNumber string `json:"tax_number" binding:"omitempty,max=50"`
}

// UpdateInvoiceSettingsRequest changes invoice numbering and currency defaults
type UpdateInvoiceSettingsRequest struct {
	InvoicePrefix   *string `json:"invoice_prefix" binding:"omitempty,min=1,max=10"`
	DefaultCurrency *string `json:"default_currency" binding:"omitempty,len=3"`
}

// OrganizationResponse is the API representation of an organization
type OrganizationResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Address         string     `json:"address,omitempty"`
	TaxNumber       string     `json:"tax_number,omitempty"`
	DefaultCurrency string     `json:"default_currency"`
	InvoicePrefix   string     `json:"invoice_prefix"`
	Active          bool       `json:"active"`
	DeactivatedAt   *time.Time `json:"deactivated_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// StartCheckoutRequest initiates a paid-plan checkout
type StartCheckoutRequest struct {
	Plan string `json:"plan" binding:"required,oneof=STARTER PRO"`
}

// CheckoutResponse points the client at the payment gateway's checkout page
type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
	Reference   string `json:"reference"`
}

// ChangePlanRequest switches the plan on an open subscription
type ChangePlanRequest struct {
	Plan string `json:"plan" binding:"required,oneof=FREE STARTER PRO"`
}

// SubscriptionResponse is the API representation of a subscription
type SubscriptionResponse struct {
	ID               uuid.UUID  `json:"id"`
	OrganizationID   uuid.UUID  `json:"organization_id"`
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	PeriodStart      time.Time  `json:"period_start"`
	PeriodEnd        time.Time  `json:"period_end"`
	GatewayReference string     `json:"gateway_reference,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	Expired          bool       `json:"expired"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToUserInfo converts a domain user to its API representation
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		DisplayName:    u.DisplayName,
		Role:           string(u.Role),
		LastLoginAt:    u.LastLoginAt,
	}
}

// ToOrganizationResponse converts a domain organization to its API representation
func ToOrganizationResponse(o *identity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:              o.ID,
		Name:            o.Name,
		Slug:            o.Slug,
		Email:           o.Email,
		Phone:           o.Phone,
		Address:         o.Address,
		TaxNumber:       o.TaxNumber,
		DefaultCurrency: string(o.DefaultCurrency),
		InvoicePrefix:   o.InvoicePrefix,
		Active:          o.Active,
		DeactivatedAt:   o.DeactivatedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToSubscriptionResponse converts a domain subscription to its API representation
func ToSubscriptionResponse(s *identity.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:               s.ID,
		OrganizationID:   s.OrganizationID,
		Plan:             string(s.Plan),
		Status:           string(s.Status),
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		GatewayReference: s.GatewayReference,
		CancelledAt:      s.CancelledAt,
		Expired:          s.IsExpired(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}
