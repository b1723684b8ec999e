package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// TenantStatus represents the lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusPending   TenantStatus = "pending"
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is a customer organization served under its own subdomain
type Tenant struct {
	shared.BaseAggregateRoot
	Name         string
	Subdomain    string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Address      string
	Status       TenantStatus
	Notes        string
	SuspendedAt  *time.Time
}

// NewTenant creates an active tenant
func NewTenant(name, subdomain string) (*Tenant, error) {
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	sd, err := valueobject.NewSubdomain(subdomain)
	if err != nil {
		return nil, err
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Subdomain:         sd.String(),
		Status:            TenantStatusActive,
	}
	t.AddDomainEvent(NewTenantEvent(EventTypeTenantCreated, t))
	return t, nil
}

// Update changes the display name
func (t *Tenant) Update(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.Touch()
	return nil
}

// SetContact sets the contact person details
func (t *Tenant) SetContact(name, email, phone string) error {
	email = strings.TrimSpace(email)
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid contact email")
		}
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	t.ContactName = strings.TrimSpace(name)
	t.ContactEmail = strings.ToLower(email)
	t.ContactPhone = strings.TrimSpace(phone)
	t.Touch()
	return nil
}

// SetAddress sets the postal address
func (t *Tenant) SetAddress(address string) {
	t.Address = strings.TrimSpace(address)
	t.Touch()
}

// SetNotes sets internal notes
func (t *Tenant) SetNotes(notes string) {
	t.Notes = notes
	t.Touch()
}

// Activate makes a pending or suspended tenant active
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.SuspendedAt = nil
	t.Touch()
	t.AddDomainEvent(NewTenantEvent(EventTypeTenantActivated, t))
	return nil
}

// Suspend blocks all access for the tenant's users
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	now := time.Now()
	t.Status = TenantStatusSuspended
	t.SuspendedAt = &now
	t.Touch()
	t.AddDomainEvent(NewTenantEvent(EventTypeTenantSuspended, t))
	return nil
}

// IsActive returns true if the tenant can be used
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
