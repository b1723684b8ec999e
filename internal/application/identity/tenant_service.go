package identity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantServiceConfig holds tenancy settings used by the tenant service
type TenantServiceConfig struct {
	CacheTTL          time.Duration
	ReservedSubdomain []string
}

// TenantService handles onboarding and tenant resolution
type TenantService struct {
	tenantRepo identity.TenantRepository
	cache      identity.TenantCache
	txScope    scope.TransactionScope
	config     TenantServiceConfig
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service. cache may be nil.
func NewTenantService(
	tenantRepo identity.TenantRepository,
	cache identity.TenantCache,
	txScope scope.TransactionScope,
	config TenantServiceConfig,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		cache:      cache,
		txScope:    txScope,
		config:     config,
		logger:     logger,
	}
}

// OnboardInput contains everything needed to open a new tenant workspace
type OnboardInput struct {
	Name           string
	Subdomain      string
	ContactPhone   string
	AdminEmail     string
	AdminPassword  string
	AdminFirstName string
	AdminLastName  string
}

// OnboardResult is the created tenant and its first administrator
type OnboardResult struct {
	Tenant TenantDTO `json:"tenant"`
	Admin  UserDTO   `json:"admin"`
	Roles  []RoleDTO `json:"roles"`
}

// UpdateTenantInput contains the editable tenant fields. Nil fields are left alone.
type UpdateTenantInput struct {
	TenantID     uuid.UUID
	Name         *string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	Notes        *string
}

// Onboard creates an active tenant, its default roles and an admin user in one transaction
func (s *TenantService) Onboard(ctx context.Context, input OnboardInput) (*OnboardResult, error) {
	subdomain := strings.ToLower(strings.TrimSpace(input.Subdomain))
	s.logger.Info("Onboarding tenant", zap.String("subdomain", subdomain))

	for _, reserved := range s.config.ReservedSubdomain {
		if strings.EqualFold(reserved, subdomain) {
			return nil, shared.NewDomainErrorf("INVALID_SUBDOMAIN", "Subdomain %q is reserved", subdomain)
		}
	}

	templates, err := DefaultRoleTemplates()
	if err != nil {
		return nil, err
	}

	var result OnboardResult
	err = s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		exists, err := repos.TenantRepo().ExistsBySubdomain(ctx, subdomain)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainErrorf(shared.ErrAlreadyExists.Code, "Subdomain %q is already taken", subdomain)
		}

		tenant, err := identity.NewTenant(input.Name, subdomain)
		if err != nil {
			return err
		}
		if err := tenant.SetContact(strings.TrimSpace(input.AdminFirstName+" "+input.AdminLastName), input.AdminEmail, input.ContactPhone); err != nil {
			return err
		}
		if err := repos.TenantRepo().Save(ctx, tenant); err != nil {
			return err
		}

		roles, err := buildRoles(tenant.ID, templates)
		if err != nil {
			return err
		}
		var adminRole *identity.TenantRole
		for _, role := range roles {
			if err := repos.RoleRepo().Save(ctx, role); err != nil {
				return err
			}
			if role.Name == AdminRoleName {
				adminRole = role
			}
			result.Roles = append(result.Roles, toRoleDTO(role))
		}
		if adminRole == nil {
			return shared.NewDomainError("INTERNAL_ERROR", "Default roles do not define an admin role")
		}

		admin, err := identity.NewActiveTenantUser(tenant.ID, input.AdminEmail, input.AdminPassword, input.AdminFirstName, input.AdminLastName)
		if err != nil {
			return err
		}
		if err := admin.AssignRole(adminRole.ID); err != nil {
			return err
		}
		if err := repos.UserRepo().Save(ctx, admin); err != nil {
			return err
		}

		repos.Track(tenant, admin)
		result.Tenant = toTenantDTO(tenant)
		result.Admin = toUserDTO(admin)
		return nil
	})
	if err != nil {
		s.logger.Warn("Tenant onboarding failed", zap.String("subdomain", subdomain), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Tenant onboarded",
		zap.String("tenant_id", result.Tenant.ID.String()),
		zap.String("subdomain", result.Tenant.Subdomain))
	return &result, nil
}

// ResolveBySubdomain finds a tenant through the cache, falling back to the database.
// Cache failures are logged and bypassed.
func (s *TenantService) ResolveBySubdomain(ctx context.Context, subdomain string) (*identity.Tenant, error) {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	if subdomain == "" {
		return nil, shared.NotFound("Tenant")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, subdomain)
		if err != nil {
			s.logger.Warn("Tenant cache read failed", zap.String("subdomain", subdomain), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	tenant, err := s.tenantRepo.FindBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, tenant, s.config.CacheTTL); err != nil {
			s.logger.Warn("Tenant cache write failed", zap.String("subdomain", subdomain), zap.Error(err))
		}
	}
	return tenant, nil
}

// ResolveByID finds a tenant by ID without caching
func (s *TenantService) ResolveByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return s.tenantRepo.FindByID(ctx, id)
}

// GetCurrent returns the caller's tenant
func (s *TenantService) GetCurrent(ctx context.Context, tenantID uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	dto := toTenantDTO(tenant)
	return &dto, nil
}

// UpdateCurrent edits the caller's tenant profile
func (s *TenantService) UpdateCurrent(ctx context.Context, input UpdateTenantInput) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := tenant.Update(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.ContactName != nil || input.ContactEmail != nil || input.ContactPhone != nil {
		name, email, phone := tenant.ContactName, tenant.ContactEmail, tenant.ContactPhone
		if input.ContactName != nil {
			name = *input.ContactName
		}
		if input.ContactEmail != nil {
			email = *input.ContactEmail
		}
		if input.ContactPhone != nil {
			phone = *input.ContactPhone
		}
		if err := tenant.SetContact(name, email, phone); err != nil {
			return nil, err
		}
	}
	if input.Address != nil {
		tenant.SetAddress(*input.Address)
	}
	if input.Notes != nil {
		tenant.SetNotes(*input.Notes)
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant.Subdomain)

	dto := toTenantDTO(tenant)
	return &dto, nil
}

// List lists tenants for operators
func (s *TenantService) List(ctx context.Context, filter shared.Filter) (*query.Page[TenantDTO], error) {
	filter = filter.Normalize()
	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(tenants, toTenantDTO), total, filter), nil
}

// Suspend blocks a tenant. Its subdomain stops resolving to a usable tenant immediately.
func (s *TenantService) Suspend(ctx context.Context, subdomain string) (*TenantDTO, error) {
	return s.changeStatus(ctx, subdomain, (*identity.Tenant).Suspend)
}

// Activate re-opens a suspended or pending tenant
func (s *TenantService) Activate(ctx context.Context, subdomain string) (*TenantDTO, error) {
	return s.changeStatus(ctx, subdomain, (*identity.Tenant).Activate)
}

func (s *TenantService) changeStatus(ctx context.Context, subdomain string, change func(*identity.Tenant) error) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	if err := change(tenant); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.invalidate(ctx, tenant.Subdomain)

	s.logger.Info("Tenant status changed",
		zap.String("subdomain", tenant.Subdomain),
		zap.String("status", string(tenant.Status)))
	dto := toTenantDTO(tenant)
	return &dto, nil
}

func (s *TenantService) invalidate(ctx context.Context, subdomain string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, subdomain); err != nil {
		s.logger.Warn("Tenant cache invalidation failed", zap.String("subdomain", subdomain), zap.Error(err))
	}
}
