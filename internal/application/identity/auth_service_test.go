package identity

import (
	"context"
	"testing"
	"time"

	domain "github.com/facturo/backend/internal/domain/identity"
	"github.com/facturo/backend/internal/domain/shared"
	"github.com/facturo/backend/internal/infrastructure/auth"
	"github.com/facturo/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Organization, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindAllForOrg(ctx context.Context, orgID uuid.UUID, filter shared.Filter) ([]domain.User, error) {
	args := m.Called(ctx, orgID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountForOrg(ctx context.Context, orgID uuid.UUID) (int64, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindCurrentForOrg(ctx context.Context, orgID uuid.UUID) (*domain.Subscription, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindByGatewayReference(ctx context.Context, reference string) (*domain.Subscription, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newAuthService() (*AuthService, *MockOrganizationRepository, *MockUserRepository, *MockSubscriptionRepository, *auth.InMemoryTokenBlacklist) {
	orgRepo := new(MockOrganizationRepository)
	userRepo := new(MockUserRepository)
	subRepo := new(MockSubscriptionRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()

	svc := NewAuthService(orgRepo, userRepo, subRepo, testJWTService(), blacklist,
		config.BillingConfig{TrialDays: 14}, zap.NewNop())

	return svc, orgRepo, userRepo, subRepo, blacklist
}

func testOrg(t *testing.T) *domain.Organization {
	t.Helper()
	org, err := domain.NewOrganization("Acme GmbH", "acme", "billing@acme.example", "EUR")
	require.NoError(t, err)
	return org
}

func testUser(t *testing.T, orgID uuid.UUID) *domain.User {
	t.Helper()
	user, err := domain.NewUser(orgID, "owner@acme.example", "s3cret-pass", "Jo", domain.RoleOwner)
	require.NoError(t, err)
	return user
}

func TestAuthServiceRegister(t *testing.T) {
	input := RegisterInput{
		OrganizationName: "Acme GmbH",
		Slug:             "acme",
		Email:            "owner@acme.example",
		Password:         "s3cret-pass",
		DisplayName:      "Jo",
		Currency:         "EUR",
	}

	t.Run("creates organization, owner and trial subscription", func(t *testing.T) {
		svc, orgRepo, userRepo, subRepo, _ := newAuthService()
		userRepo.On("ExistsByEmail", mock.Anything, input.Email).Return(false, nil)
		orgRepo.On("ExistsBySlug", mock.Anything, input.Slug).Return(false, nil)
		orgRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Organization")).Return(nil)
		userRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		var savedSub *domain.Subscription
		subRepo.On("Save", mock.Anything, mock.AnythingOfType("*identity.Subscription")).
			Run(func(args mock.Arguments) {
				savedSub = args.Get(1).(*domain.Subscription)
			}).Return(nil)

		result, err := svc.Register(context.Background(), input)

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "OWNER", result.User.Role)
		assert.Equal(t, input.Email, result.User.Email)

		require.NotNil(t, savedSub)
		assert.Equal(t, domain.PlanFree, savedSub.Plan)
		assert.Equal(t, domain.SubscriptionStatusTrialing, savedSub.Status)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), savedSub.PeriodEnd, time.Minute)
	})

	t.Run("rejects taken email", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		userRepo.On("ExistsByEmail", mock.Anything, input.Email).Return(true, nil)

		_, err := svc.Register(context.Background(), input)

		assert.ErrorContains(t, err, "already registered")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects taken slug", func(t *testing.T) {
		svc, orgRepo, userRepo, _, _ := newAuthService()
		userRepo.On("ExistsByEmail", mock.Anything, input.Email).Return(false, nil)
		orgRepo.On("ExistsBySlug", mock.Anything, input.Slug).Return(true, nil)

		_, err := svc.Register(context.Background(), input)

		assert.ErrorContains(t, err, "slug")
	})
}

func TestAuthServiceLogin(t *testing.T) {
	t.Run("returns tokens and records login", func(t *testing.T) {
		svc, orgRepo, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)

		userRepo.On("FindByEmail", mock.Anything, "owner@acme.example").Return(user, nil)
		orgRepo.On("FindByID", mock.Anything, org.ID).Return(org, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		result, err := svc.Login(context.Background(), LoginInput{
			Email:    "owner@acme.example",
			Password: "s3cret-pass",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.Equal(t, user.ID, result.User.ID)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)

		userRepo.On("FindByEmail", mock.Anything, "owner@acme.example").Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "owner@acme.example",
			Password: "wrong-password",
		})

		assert.ErrorContains(t, err, "Invalid email or password")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown email without leaking existence", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		userRepo.On("FindByEmail", mock.Anything, "nobody@acme.example").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "nobody@acme.example",
			Password: "whatever-pass",
		})

		assert.ErrorContains(t, err, "Invalid email or password")
	})

	t.Run("rejects deactivated user", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)
		require.NoError(t, user.Deactivate())

		userRepo.On("FindByEmail", mock.Anything, "owner@acme.example").Return(user, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "owner@acme.example",
			Password: "s3cret-pass",
		})

		assert.ErrorContains(t, err, "ACCOUNT_DEACTIVATED")
	})

	t.Run("rejects deactivated organization", func(t *testing.T) {
		svc, orgRepo, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)
		require.NoError(t, org.Deactivate())

		userRepo.On("FindByEmail", mock.Anything, "owner@acme.example").Return(user, nil)
		orgRepo.On("FindByID", mock.Anything, org.ID).Return(org, nil)

		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "owner@acme.example",
			Password: "s3cret-pass",
		})

		assert.ErrorContains(t, err, "ORGANIZATION_DEACTIVATED")
	})
}

func TestAuthServiceRefreshToken(t *testing.T) {
	t.Run("rotates the pair and retires the used refresh token", func(t *testing.T) {
		svc, _, userRepo, _, blacklist := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)

		pair, err := svc.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			OrganizationID: org.ID,
			UserID:         user.ID,
			Email:          user.Email,
			Role:           string(user.Role),
		})
		require.NoError(t, err)

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		result, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEqual(t, pair.RefreshToken, result.RefreshToken)

		// Replaying the original refresh token fails
		_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})
		assert.ErrorContains(t, err, "revoked")

		claims, err := svc.jwtService.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		revoked, err := blacklist.IsBlacklisted(context.Background(), claims.ID)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		svc, _, _, _, _ := newAuthService()

		_, err := svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: "garbage"})

		assert.ErrorContains(t, err, "Invalid refresh token")
	})

	t.Run("rejects deactivated user", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)

		pair, err := svc.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
			OrganizationID: org.ID,
			UserID:         user.ID,
			Email:          user.Email,
			Role:           string(user.Role),
		})
		require.NoError(t, err)

		require.NoError(t, user.Deactivate())
		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		_, err = svc.RefreshToken(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})

		assert.ErrorContains(t, err, "ACCOUNT_DEACTIVATED")
	})
}

func TestAuthServiceLogout(t *testing.T) {
	t.Run("blacklists the access token", func(t *testing.T) {
		svc, _, _, _, blacklist := newAuthService()

		err := svc.Logout(context.Background(), LogoutInput{
			UserID:    uuid.New(),
			AccessJTI: "jti-123",
			AccessTTL: 10 * time.Minute,
		})

		require.NoError(t, err)
		revoked, err := blacklist.IsBlacklisted(context.Background(), "jti-123")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("all sessions invalidates earlier tokens", func(t *testing.T) {
		svc, _, _, _, blacklist := newAuthService()
		userID := uuid.New()
		issuedAt := time.Now().Add(-1 * time.Minute)

		err := svc.Logout(context.Background(), LogoutInput{
			UserID:      userID,
			AllSessions: true,
		})

		require.NoError(t, err)
		invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), userID.String(), issuedAt)
		require.NoError(t, err)
		assert.True(t, invalidated)
	})
}

func TestAuthServiceChangePassword(t *testing.T) {
	t.Run("changes password and revokes sessions", func(t *testing.T) {
		svc, _, userRepo, _, blacklist := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)
		issuedAt := time.Now().Add(-1 * time.Minute)

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "s3cret-pass",
			NewPassword:     "even-m0re-secret",
		})

		require.NoError(t, err)
		assert.True(t, user.CheckPassword("even-m0re-secret"))

		invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), user.ID.String(), issuedAt)
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		user := testUser(t, org.ID)

		userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		err := svc.ChangePassword(context.Background(), ChangePasswordInput{
			UserID:          user.ID,
			CurrentPassword: "wrong-password",
			NewPassword:     "even-m0re-secret",
		})

		assert.ErrorContains(t, err, "Current password is incorrect")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthServiceGetCurrentUser(t *testing.T) {
	svc, _, userRepo, _, _ := newAuthService()
	org := testOrg(t)
	user := testUser(t, org.ID)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	info, err := svc.GetCurrentUser(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.Email, info.Email)
	assert.Equal(t, org.ID, info.OrganizationID)
}

func TestAuthServiceDeactivateUser(t *testing.T) {
	memberUser := func(t *testing.T, orgID uuid.UUID) *domain.User {
		t.Helper()
		user, err := domain.NewUser(orgID, "member@acme.example", "s3cret-pass", "Sam", domain.RoleMember)
		require.NoError(t, err)
		return user
	}

	t.Run("admin deactivates a member and revokes their sessions", func(t *testing.T) {
		svc, _, userRepo, _, blacklist := newAuthService()
		org := testOrg(t)
		actor := testUser(t, org.ID)
		target := memberUser(t, org.ID)
		issuedAt := time.Now().Add(-1 * time.Minute)

		userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
		userRepo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		userRepo.On("Save", mock.Anything, target).Return(nil)

		err := svc.DeactivateUser(context.Background(), org.ID, actor.ID, target.ID)

		require.NoError(t, err)
		assert.False(t, target.IsActive())

		invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), target.ID.String(), issuedAt)
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("members cannot deactivate anyone", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		actor := memberUser(t, org.ID)
		target := testUser(t, org.ID)

		userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)

		err := svc.DeactivateUser(context.Background(), org.ID, actor.ID, target.ID)

		assert.ErrorContains(t, err, "FORBIDDEN")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("self deactivation is rejected", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		actor := testUser(t, org.ID)

		err := svc.DeactivateUser(context.Background(), org.ID, actor.ID, actor.ID)

		assert.ErrorContains(t, err, "CANNOT_DEACTIVATE_SELF")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("a user from another organization is not found", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		actor := testUser(t, org.ID)
		target := memberUser(t, uuid.New())

		userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
		userRepo.On("FindByID", mock.Anything, target.ID).Return(target, nil)

		err := svc.DeactivateUser(context.Background(), org.ID, actor.ID, target.ID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("an already deactivated user cannot be deactivated twice", func(t *testing.T) {
		svc, _, userRepo, _, _ := newAuthService()
		org := testOrg(t)
		actor := testUser(t, org.ID)
		target := memberUser(t, org.ID)
		require.NoError(t, target.Deactivate())

		userRepo.On("FindByID", mock.Anything, actor.ID).Return(actor, nil)
		userRepo.On("FindByID", mock.Anything, target.ID).Return(target, nil)

		err := svc.DeactivateUser(context.Background(), org.ID, actor.ID, target.ID)

		assert.ErrorContains(t, err, "INVALID_STATE")
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
