package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	tests := []struct {
		name      string
		tenant    string
		subdomain string
		wantErr   bool
	}{
		{"valid", "Acme Logistics", "acme", false},
		{"upper case subdomain is lowered", "Acme", "ACME-EU", false},
		{"empty name", " ", "acme", true},
		{"reserved subdomain", "Acme", "www", true},
		{"short subdomain", "Acme", "ab", true},
		{"bad characters", "Acme", "acme_eu", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant, err := NewTenant(tt.tenant, tt.subdomain)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TenantStatusActive, tenant.Status)
			assert.Len(t, tenant.GetDomainEvents(), 1)
		})
	}
}

func TestTenant_SuspendActivate(t *testing.T) {
	tenant, err := NewTenant("Acme", "acme")
	require.NoError(t, err)

	assert.Error(t, tenant.Activate())
	require.NoError(t, tenant.Suspend())
	assert.False(t, tenant.IsActive())
	assert.NotNil(t, tenant.SuspendedAt)
	assert.Error(t, tenant.Suspend())

	require.NoError(t, tenant.Activate())
	assert.True(t, tenant.IsActive())
	assert.Nil(t, tenant.SuspendedAt)
}

func TestTenant_SetContact(t *testing.T) {
	tenant, err := NewTenant("Acme", "acme")
	require.NoError(t, err)

	require.NoError(t, tenant.SetContact("Ops", "Ops@Acme.test", "+1 555"))
	assert.Equal(t, "ops@acme.test", tenant.ContactEmail)
	assert.Error(t, tenant.SetContact("Ops", "not-an-email", ""))
}
