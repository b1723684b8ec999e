package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// TenantRepository defines persistence for tenants
type TenantRepository interface {
	// FindByID finds a tenant by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	// FindBySubdomain finds a tenant by its subdomain label
	FindBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	// FindAll lists tenants
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	// Count counts tenants matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// ExistsBySubdomain reports whether a subdomain is taken
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
	// Save creates or updates a tenant
	Save(ctx context.Context, tenant *Tenant) error
}

// TenantUserRepository defines persistence for tenant users
type TenantUserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*TenantUser, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*TenantUser, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TenantUser, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
	// CountByRole counts users assigned to a role
	CountByRole(ctx context.Context, tenantID, roleID uuid.UUID) (int64, error)
	Save(ctx context.Context, user *TenantUser) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// TenantRoleRepository defines persistence for tenant roles
type TenantRoleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*TenantRole, error)
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*TenantRole, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TenantRole, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, role *TenantRole) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// TenantCache caches subdomain lookups. Get returns nil, nil on a miss.
type TenantCache interface {
	Get(ctx context.Context, subdomain string) (*Tenant, error)
	Set(ctx context.Context, tenant *Tenant, ttl time.Duration) error
	Delete(ctx context.Context, subdomain string) error
}
