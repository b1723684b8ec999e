package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// Error codes returned by authentication
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrSessionInvalid     = shared.NewDomainError("SESSION_INVALID", "Session is invalid or has expired")
	ErrSessionRevoked     = shared.NewDomainError("SESSION_REVOKED", "Session has been signed out")
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.TenantUserRepository
	roleRepo   identity.TenantRoleRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.TenantUserRepository,
	roleRepo identity.TenantRoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

// Login authenticates a tenant user by email and password and issues a session token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("tenant_id", input.TenantID.String()))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := user.CheckCanLogin(); err != nil {
		s.logger.Warn("Login refused",
			zap.String("user_id", user.ID.String()),
			zap.String("status", string(user.Status)),
			zap.Error(err))
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed sign-ins. The account is locked for a while")
		}
		return nil, ErrInvalidCredentials
	}

	role, permissions, err := s.loadRole(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateSessionToken(auth.GenerateTokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Email:       user.Email,
		RoleID:      user.RoleID,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("Failed to sign session token", zap.Error(err))
		return nil, err
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		// The session is valid either way
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))

	return &LoginResult{
		Token:       token.Token,
		ExpiresAt:   token.ExpiresAt,
		User:        toUserDTO(user),
		Role:        role,
		Permissions: permissions,
	}, nil
}

// Register creates a pending user on the tenant. An administrator must approve it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email is already registered")
	}

	user, err := identity.NewTenantUser(input.TenantID, input.Email, input.Password, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered, awaiting approval",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))
	dto := toUserDTO(user)
	return &dto, nil
}

// ValidateSession checks a session token's signature, expiry and revocation
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateSessionToken(token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrSessionInvalid
	}
	revoked, err = s.blacklist.IsUserRevoked(ctx, userID, claims.GetIssuedAtTime())
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Logout revokes the session token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TTL); err != nil {
		s.logger.Error("Failed to revoke session", zap.Error(err))
		return err
	}
	return nil
}

// Me returns the signed-in user with role and permissions
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	role, permissions, err := s.loadRole(ctx, user)
	if err != nil {
		return nil, err
	}
	return &CurrentUserResult{
		User:        toUserDTO(user),
		Role:        role,
		Permissions: permissions,
	}, nil
}

// ChangePassword replaces the caller's password after checking the current one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, input.TenantID, input.UserID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// loadRole returns the user's role and its permissions. A user without a role has none.
func (s *AuthService) loadRole(ctx context.Context, user *identity.TenantUser) (*RoleDTO, []string, error) {
	if user.RoleID == nil {
		return nil, []string{}, nil
	}
	role, err := s.roleRepo.FindByIDForTenant(ctx, user.TenantID, *user.RoleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("User references a missing role",
				zap.String("user_id", user.ID.String()),
				zap.String("role_id", user.RoleID.String()))
			return nil, []string{}, nil
		}
		return nil, nil, err
	}
	dto := toRoleDTO(role)
	return &dto, dto.Permissions, nil
}
