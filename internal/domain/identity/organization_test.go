package identity

import (
	"testing"

	"github.com/facturo/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestOrganization(t *testing.T) *Organization {
	org, err := NewOrganization("Acme Studio", "acme-studio", "billing@acme.test", valueobject.EUR)
	require.NoError(t, err)
	return org
}

func TestNewOrganization(t *testing.T) {
	t.Run("creates valid organization", func(t *testing.T) {
		org := createTestOrganization(t)

		assert.Equal(t, "Acme Studio", org.Name)
		assert.Equal(t, "acme-studio", org.Slug)
		assert.Equal(t, valueobject.EUR, org.DefaultCurrency)
		assert.Equal(t, "INV", org.InvoicePrefix)
		assert.True(t, org.IsActive())
		assert.Len(t, org.GetDomainEvents(), 1)
	})

	t.Run("defaults currency when empty", func(t *testing.T) {
		org, err := NewOrganization("Acme", "acme", "", "")
		require.NoError(t, err)
		assert.Equal(t, valueobject.DefaultCurrency, org.DefaultCurrency)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewOrganization("", "acme", "", valueobject.EUR)
		assert.Error(t, err)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		for _, slug := range []string{"", "Has Spaces", "UPPER", "trailing-", "-leading", "under_score"} {
			_, err := NewOrganization("Acme", slug, "", valueobject.EUR)
			assert.Error(t, err, "slug %q should be rejected", slug)
		}
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := NewOrganization("Acme", "acme", "", valueobject.Currency("ZZZ"))
		assert.Error(t, err)
	})
}

func TestOrganization_UpdateProfile(t *testing.T) {
	t.Run("updates contact details", func(t *testing.T) {
		org := createTestOrganization(t)
		v := org.GetVersion()

		err := org.UpdateProfile("Acme GmbH", "new@acme.test", "+49 30 1234", "Berlin", "DE123456789")
		require.NoError(t, err)
		assert.Equal(t, "Acme GmbH", org.Name)
		assert.Equal(t, "DE123456789", org.TaxNumber)
		assert.Equal(t, v+1, org.GetVersion())
	})

	t.Run("rejects update on deactivated organization", func(t *testing.T) {
		org := createTestOrganization(t)
		require.NoError(t, org.Deactivate())

		err := org.UpdateProfile("X", "", "", "", "")
		assert.Error(t, err)
	})
}

func TestOrganization_SetInvoicePrefix(t *testing.T) {
	org := createTestOrganization(t)

	require.NoError(t, org.SetInvoicePrefix("ACM"))
	assert.Equal(t, "ACM", org.InvoicePrefix)

	assert.Error(t, org.SetInvoicePrefix(""))
	assert.Error(t, org.SetInvoicePrefix("WAYTOOLONGPREFIX"))
}

func TestOrganization_Deactivate(t *testing.T) {
	org := createTestOrganization(t)

	require.NoError(t, org.Deactivate())
	assert.False(t, org.IsActive())
	assert.NotNil(t, org.DeactivatedAt)

	// Second deactivation is rejected
	assert.Error(t, org.Deactivate())
}
