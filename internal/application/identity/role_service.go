package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role management operations
type RoleService struct {
	roleRepo identity.TenantRoleRepository
	userRepo identity.TenantUserRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.TenantRoleRepository,
	userRepo identity.TenantUserRepository,
	logger *zap.Logger,
) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateRoleInput contains input for creating a role
type CreateRoleInput struct {
	TenantID    uuid.UUID
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleInput contains input for updating a role. Nil fields are left alone.
type UpdateRoleInput struct {
	TenantID    uuid.UUID
	ID          uuid.UUID
	Name        *string
	Description *string
	Permissions *[]string
}

// Create creates a new role
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*RoleDTO, error) {
	exists, err := s.roleRepo.ExistsByName(ctx, input.TenantID, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Role name already exists")
	}

	role, err := identity.NewTenantRole(input.TenantID, input.Name, input.Description, input.Permissions)
	if err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role created", zap.String("role_id", role.ID.String()), zap.String("name", role.Name))
	dto := toRoleDTO(role)
	return &dto, nil
}

// GetByID returns a role with its user count
func (s *RoleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := toRoleDTO(role)
	if dto.UserCount, err = s.userRepo.CountByRole(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return &dto, nil
}

// List lists the tenant's roles
func (s *RoleService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[RoleDTO], error) {
	filter = filter.Normalize()
	roles, err := s.roleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.roleRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(roles, toRoleDTO), total, filter), nil
}

// Update edits a role
func (s *RoleService) Update(ctx context.Context, input UpdateRoleInput) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByIDForTenant(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil || input.Description != nil {
		name, description := role.Name, role.Description
		if input.Name != nil {
			name = *input.Name
		}
		if input.Description != nil {
			description = *input.Description
		}
		if input.Name != nil && !equalFold(name, role.Name) {
			exists, err := s.roleRepo.ExistsByName(ctx, input.TenantID, name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Role name already exists")
			}
		}
		if err := role.Update(name, description); err != nil {
			return nil, err
		}
	}
	if input.Permissions != nil {
		if err := role.SetPermissions(*input.Permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	dto := toRoleDTO(role)
	return &dto, nil
}

// Delete removes a role that is neither a system role nor assigned to users
func (s *RoleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	role, err := s.roleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}
	count, err := s.userRepo.CountByRole(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainErrorf("ROLE_IN_USE", "Role is assigned to %d user(s)", count)
	}
	if err := s.roleRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Role deleted", zap.String("role_id", id.String()))
	return nil
}
