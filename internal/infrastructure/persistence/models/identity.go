package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/identity"
)

// TenantModel is the persistence model for the Tenant aggregate root.
type TenantModel struct {
	AggregateModel
	Name         string                `gorm:"type:varchar(200);not null"`
	Subdomain    string                `gorm:"type:varchar(63);not null;uniqueIndex"`
	ContactName  string                `gorm:"type:varchar(100)"`
	ContactEmail string                `gorm:"type:varchar(200)"`
	ContactPhone string                `gorm:"type:varchar(50)"`
	Address      string                `gorm:"type:text"`
	Status       identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes        string                `gorm:"type:text"`
	SuspendedAt  *time.Time
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
func (m *TenantModel) ToDomain() *identity.Tenant {
	return &identity.Tenant{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Subdomain:         m.Subdomain,
		ContactName:       m.ContactName,
		ContactEmail:      m.ContactEmail,
		ContactPhone:      m.ContactPhone,
		Address:           m.Address,
		Status:            m.Status,
		Notes:             m.Notes,
		SuspendedAt:       m.SuspendedAt,
	}
}

// FromDomain populates the persistence model from a domain Tenant.
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.Subdomain = t.Subdomain
	m.ContactName = t.ContactName
	m.ContactEmail = t.ContactEmail
	m.ContactPhone = t.ContactPhone
	m.Address = t.Address
	m.Status = t.Status
	m.Notes = t.Notes
	m.SuspendedAt = t.SuspendedAt
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant.
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// TenantUserModel is the persistence model for the TenantUser aggregate root.
type TenantUserModel struct {
	TenantAggregateModel
	Email          string              `gorm:"type:varchar(200);not null"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	FirstName      string              `gorm:"type:varchar(100);not null"`
	LastName       string              `gorm:"type:varchar(100)"`
	Phone          string              `gorm:"type:varchar(50)"`
	RoleID         *uuid.UUID          `gorm:"type:uuid;index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(45)"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	ApprovedAt     *time.Time
	ApprovedBy     *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TenantUserModel) TableName() string {
	return "tenant_users"
}

// ToDomain converts the persistence model to a domain TenantUser.
func (m *TenantUserModel) ToDomain() *identity.TenantUser {
	return &identity.TenantUser{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               m.Phone,
		RoleID:              m.RoleID,
		Status:              m.Status,
		LastLoginAt:         m.LastLoginAt,
		LastLoginIP:         m.LastLoginIP,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
		ApprovedAt:          m.ApprovedAt,
		ApprovedBy:          m.ApprovedBy,
	}
}

// FromDomain populates the persistence model from a domain TenantUser.
func (m *TenantUserModel) FromDomain(u *identity.TenantUser) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.Phone = u.Phone
	m.RoleID = u.RoleID
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.ApprovedAt = u.ApprovedAt
	m.ApprovedBy = u.ApprovedBy
}

// TenantUserModelFromDomain creates a new persistence model from a domain TenantUser.
func TenantUserModelFromDomain(u *identity.TenantUser) *TenantUserModel {
	m := &TenantUserModel{}
	m.FromDomain(u)
	return m
}

// TenantRoleModel is the persistence model for the TenantRole aggregate root.
// Permissions are stored as a JSON array.
type TenantRoleModel struct {
	TenantAggregateModel
	Name        string   `gorm:"type:varchar(100);not null"`
	Description string   `gorm:"type:text"`
	Permissions []string `gorm:"type:text;serializer:json;not null"`
	IsSystem    bool     `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (TenantRoleModel) TableName() string {
	return "tenant_roles"
}

// ToDomain converts the persistence model to a domain TenantRole.
func (m *TenantRoleModel) ToDomain() *identity.TenantRole {
	perms := m.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &identity.TenantRole{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		Permissions:         perms,
		IsSystem:            m.IsSystem,
	}
}

// FromDomain populates the persistence model from a domain TenantRole.
func (m *TenantRoleModel) FromDomain(r *identity.TenantRole) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Name = r.Name
	m.Description = r.Description
	m.Permissions = r.Permissions
	m.IsSystem = r.IsSystem
}

// TenantRoleModelFromDomain creates a new persistence model from a domain TenantRole.
func TenantRoleModelFromDomain(r *identity.TenantRole) *TenantRoleModel {
	m := &TenantRoleModel{}
	m.FromDomain(r)
	return m
}
