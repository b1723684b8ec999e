package identity

import (
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a tenant user
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending" // Registered, awaiting admin approval
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

const bcryptCost = 12

// TenantUser is a person who signs in to a tenant's workspace
type TenantUser struct {
	shared.TenantAggregateRoot
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Phone          string
	RoleID         *uuid.UUID
	Status         UserStatus
	LastLoginAt    *time.Time
	LastLoginIP    string
	FailedAttempts int
	LockedUntil    *time.Time
	ApprovedAt     *time.Time
	ApprovedBy     *uuid.UUID
}

// NewTenantUser creates a user awaiting approval
func NewTenantUser(tenantID uuid.UUID, email, password, firstName, lastName string) (*TenantUser, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &TenantUser{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		PasswordHash:        hash,
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		Status:              UserStatusPending,
	}
	u.AddDomainEvent(NewUserEvent(EventTypeUserRegistered, u, uuid.Nil))
	return u, nil
}

// NewActiveTenantUser creates a user that can sign in immediately (admin-created)
func NewActiveTenantUser(tenantID uuid.UUID, email, password, firstName, lastName string) (*TenantUser, error) {
	u, err := NewTenantUser(tenantID, email, password, firstName, lastName)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	u.Status = UserStatusActive
	u.ApprovedAt = &now
	return u, nil
}

// FullName returns first and last name joined
func (u *TenantUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UpdateProfile changes name and phone
func (u *TenantUser) UpdateProfile(firstName, lastName, phone string) error {
	if strings.TrimSpace(firstName) == "" {
		return shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	u.Phone = strings.TrimSpace(phone)
	u.Touch()
	return nil
}

// AssignRole sets the user's role
func (u *TenantUser) AssignRole(roleID uuid.UUID) error {
	if roleID == uuid.Nil {
		return shared.NewDomainError("INVALID_ROLE_ID", "Role ID cannot be empty")
	}
	u.RoleID = &roleID
	u.Touch()
	return nil
}

// Approve activates a pending user
func (u *TenantUser) Approve(approver uuid.UUID) error {
	if u.Status != UserStatusPending {
		return shared.NewDomainErrorf("INVALID_STATE", "Only pending users can be approved (current status: %s)", u.Status)
	}
	now := time.Now()
	u.Status = UserStatusActive
	u.ApprovedAt = &now
	if approver != uuid.Nil {
		u.ApprovedBy = &approver
	}
	u.Touch()
	u.AddDomainEvent(NewUserEvent(EventTypeUserApproved, u, approver))
	return nil
}

// Suspend blocks the user from signing in
func (u *TenantUser) Suspend(actor uuid.UUID) error {
	if u.Status == UserStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "User is already suspended")
	}
	u.Status = UserStatusSuspended
	u.Touch()
	u.AddDomainEvent(NewUserEvent(EventTypeUserSuspended, u, actor))
	return nil
}

// Reactivate lifts a suspension
func (u *TenantUser) Reactivate() error {
	if u.Status != UserStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Only suspended users can be reactivated")
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
	return nil
}

// VerifyPassword checks password against the stored hash
func (u *TenantUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after verifying the current one
func (u *TenantUser) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(next)
}

// SetPassword replaces the password without verification
func (u *TenantUser) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// IsLocked reports whether a failed-login lock is still in force
func (u *TenantUser) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CheckCanLogin returns a forbidden error explaining why the user cannot sign in
func (u *TenantUser) CheckCanLogin() error {
	switch {
	case u.Status == UserStatusPending:
		return shared.NewDomainError("ACCOUNT_PENDING", "Account is awaiting administrator approval")
	case u.Status == UserStatusSuspended:
		return shared.NewDomainError("ACCOUNT_SUSPENDED", "Account is suspended")
	case u.IsLocked():
		return shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked after repeated failed sign-ins")
	}
	return nil
}

// RecordLoginSuccess resets failure counters
func (u *TenantUser) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// RecordLoginFailure counts a failed sign-in and returns true when the account got locked
func (u *TenantUser) RecordLoginFailure(maxAttempts int, lockFor time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockFor)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		return true
	}
	return false
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}

// NormalizeEmail lower-cases and validates an email address
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
