package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/identity"
)

// TenantDTO is the API view of a tenant
type TenantDTO struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Subdomain    string     `json:"subdomain"`
	Status       string     `json:"status"`
	ContactName  string     `json:"contact_name,omitempty"`
	ContactEmail string     `json:"contact_email,omitempty"`
	ContactPhone string     `json:"contact_phone,omitempty"`
	Address      string     `json:"address,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	SuspendedAt  *time.Time `json:"suspended_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// UserDTO is the API view of a tenant user. The password hash never leaves the service.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone,omitempty"`
	RoleID      *uuid.UUID `json:"role_id,omitempty"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RoleDTO is the API view of a tenant role
type RoleDTO struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Permissions []string  `json:"permissions"`
	IsSystem    bool      `json:"is_system"`
	UserCount   int64     `json:"user_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	TenantID uuid.UUID
	Email    string
	Password string
	IP       string
}

// LoginResult carries the session token and the signed-in user
type LoginResult struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
	Role        *RoleDTO  `json:"role,omitempty"`
	Permissions []string  `json:"permissions"`
}

// RegisterInput contains self-registration data
type RegisterInput struct {
	TenantID  uuid.UUID
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LogoutInput identifies the session to revoke
type LogoutInput struct {
	TokenJTI string
	TTL      time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID        uuid.UUID
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// CurrentUserResult is the signed-in user with its effective permissions
type CurrentUserResult struct {
	User        UserDTO  `json:"user"`
	Role        *RoleDTO `json:"role,omitempty"`
	Permissions []string `json:"permissions"`
}

func toTenantDTO(t *identity.Tenant) TenantDTO {
	return TenantDTO{
		ID:           t.ID,
		Name:         t.Name,
		Subdomain:    t.Subdomain,
		Status:       string(t.Status),
		ContactName:  t.ContactName,
		ContactEmail: t.ContactEmail,
		ContactPhone: t.ContactPhone,
		Address:      t.Address,
		Notes:        t.Notes,
		SuspendedAt:  t.SuspendedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

func toUserDTO(u *identity.TenantUser) UserDTO {
	dto := UserDTO{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		RoleID:      u.RoleID,
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		ApprovedAt:  u.ApprovedAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.IsLocked() {
		dto.LockedUntil = u.LockedUntil
	}
	return dto
}

func toRoleDTO(r *identity.TenantRole) RoleDTO {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return RoleDTO{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: perms,
		IsSystem:    r.IsSystem,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
