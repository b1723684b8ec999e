package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// UserService handles tenant user administration
type UserService struct {
	userRepo   identity.TenantUserRepository
	roleRepo   identity.TenantRoleRepository
	blacklist  auth.TokenBlacklist
	sessionTTL time.Duration
	logger     *zap.Logger
}

// NewUserService creates a new user service. sessionTTL bounds how long a
// suspension's session revocation is kept.
func NewUserService(
	userRepo identity.TenantUserRepository,
	roleRepo identity.TenantRoleRepository,
	blacklist auth.TokenBlacklist,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		blacklist:  blacklist,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// CreateUserInput contains input for an administrator-created user
type CreateUserInput struct {
	TenantID  uuid.UUID
	ActorID   uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	RoleID    *uuid.UUID
}

// UpdateUserInput contains the editable user fields. Nil fields are left alone.
type UpdateUserInput struct {
	TenantID  uuid.UUID
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Phone     *string
	RoleID    *uuid.UUID
}

// Create adds an active user to the tenant
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email is already in use")
	}

	user, err := identity.NewActiveTenantUser(input.TenantID, input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.UpdateProfile(user.FirstName, user.LastName, input.Phone); err != nil {
			return nil, err
		}
	}
	if input.RoleID != nil {
		if err := s.assignRole(ctx, user, *input.RoleID); err != nil {
			return nil, err
		}
	}
	user.SetCreatedBy(input.ActorID)

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// GetByID returns a user of the tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// List lists the tenant's users; supports "status" and "role_id" filters
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[UserDTO], error) {
	filter = filter.Normalize()
	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(users, toUserDTO), total, filter), nil
}

// Update edits a user's profile and role
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil || input.LastName != nil || input.Phone != nil {
		first, last, phone := user.FirstName, user.LastName, user.Phone
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		if input.Phone != nil {
			phone = *input.Phone
		}
		if err := user.UpdateProfile(first, last, phone); err != nil {
			return nil, err
		}
	}
	if input.RoleID != nil {
		if err := s.assignRole(ctx, user, *input.RoleID); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// Delete removes a user. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if id == actorID {
		return shared.NewDomainError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	if _, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.userRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.revokeSessions(ctx, id)
	s.logger.Info("User deleted", zap.String("user_id", id.String()), zap.String("actor_id", actorID.String()))
	return nil
}

// Approve activates a pending user
func (s *UserService) Approve(ctx context.Context, tenantID, id, actorID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.approve(ctx, user, actorID)
}

// ApproveByEmail activates a pending user found by email
func (s *UserService) ApproveByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*UserDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, tenantID, email)
	if err != nil {
		return nil, err
	}
	return s.approve(ctx, user, uuid.Nil)
}

func (s *UserService) approve(ctx context.Context, user *identity.TenantUser, actorID uuid.UUID) (*UserDTO, error) {
	if err := user.Approve(actorID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User approved", zap.String("user_id", user.ID.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// Suspend blocks a user and signs out every session they hold
func (s *UserService) Suspend(ctx context.Context, tenantID, id, actorID uuid.UUID) (*UserDTO, error) {
	if id == actorID {
		return nil, shared.NewDomainError("CANNOT_SUSPEND_SELF", "You cannot suspend your own account")
	}
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Suspend(actorID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.revokeSessions(ctx, user.ID)

	s.logger.Info("User suspended", zap.String("user_id", user.ID.String()), zap.String("actor_id", actorID.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// Reactivate lifts a suspension
func (s *UserService) Reactivate(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

func (s *UserService) assignRole(ctx context.Context, user *identity.TenantUser, roleID uuid.UUID) error {
	if _, err := s.roleRepo.FindByIDForTenant(ctx, user.TenantID, roleID); err != nil {
		return err
	}
	return user.AssignRole(roleID)
}

func (s *UserService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.RevokeUser(ctx, userID, s.sessionTTL); err != nil {
		s.logger.Error("Failed to revoke user sessions", zap.String("user_id", userID.String()), zap.Error(err))
	}
}
