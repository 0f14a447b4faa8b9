package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T) *User {
	u, err := NewUser(uuid.New(), "jo@example.com", "s3cret-pass", "Jo", RoleOwner)
	require.NoError(t, err)
	return u
}

func TestNewUser(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		u := createTestUser(t)

		assert.Equal(t, "jo@example.com", u.Email)
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		assert.True(t, u.CheckPassword("s3cret-pass"))
		assert.False(t, u.CheckPassword("wrong"))
		assert.True(t, u.IsActive())
	})

	t.Run("normalizes email", func(t *testing.T) {
		u, err := NewUser(uuid.New(), "  Jo@Example.COM ", "s3cret-pass", "Jo", RoleMember)
		require.NoError(t, err)
		assert.Equal(t, "jo@example.com", u.Email)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "not-an-email", "s3cret-pass", "Jo", RoleMember)
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "jo@example.com", "short", "Jo", RoleMember)
		assert.Error(t, err)
	})

	t.Run("rejects nil organization", func(t *testing.T) {
		_, err := NewUser(uuid.Nil, "jo@example.com", "s3cret-pass", "Jo", RoleMember)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewUser(uuid.New(), "jo@example.com", "s3cret-pass", "Jo", Role("SUPERUSER"))
		assert.Error(t, err)
	})

	t.Run("defaults display name to email", func(t *testing.T) {
		u, err := NewUser(uuid.New(), "jo@example.com", "s3cret-pass", "", RoleMember)
		require.NoError(t, err)
		assert.Equal(t, "jo@example.com", u.DisplayName)
	})
}

func TestUser_ChangePassword(t *testing.T) {
	t.Run("changes password with correct current", func(t *testing.T) {
		u := createTestUser(t)

		err := u.ChangePassword("s3cret-pass", "new-password-1")
		require.NoError(t, err)
		assert.True(t, u.CheckPassword("new-password-1"))
		assert.False(t, u.CheckPassword("s3cret-pass"))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		u := createTestUser(t)
		err := u.ChangePassword("wrong", "new-password-1")
		assert.Error(t, err)
	})

	t.Run("rejects weak new password", func(t *testing.T) {
		u := createTestUser(t)
		err := u.ChangePassword("s3cret-pass", "tiny")
		assert.Error(t, err)
	})
}

func TestRole_CanManageOrganization(t *testing.T) {
	assert.True(t, RoleOwner.CanManageOrganization())
	assert.True(t, RoleAdmin.CanManageOrganization())
	assert.False(t, RoleMember.CanManageOrganization())
}

func TestUser_Deactivate(t *testing.T) {
	u := createTestUser(t)
	require.NoError(t, u.Deactivate())
	assert.False(t, u.IsActive())
	assert.Error(t, u.Deactivate())
}
