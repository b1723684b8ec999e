package identity

import (
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

const (
	AggregateTypeTenant = "Tenant"
	AggregateTypeUser   = "TenantUser"

	EventTypeTenantCreated   = "TenantCreated"
	EventTypeTenantActivated = "TenantActivated"
	EventTypeTenantSuspended = "TenantSuspended"
	EventTypeUserRegistered  = "TenantUserRegistered"
	EventTypeUserApproved    = "TenantUserApproved"
	EventTypeUserSuspended   = "TenantUserSuspended"
)

// TenantEvent is emitted on tenant lifecycle changes
type TenantEvent struct {
	shared.BaseDomainEvent
	Name      string       `json:"name"`
	Subdomain string       `json:"subdomain"`
	Status    TenantStatus `json:"status"`
}

// NewTenantEvent creates a tenant lifecycle event
func NewTenantEvent(eventType string, t *Tenant) *TenantEvent {
	return &TenantEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTenant, t.ID, t.ID),
		Name:            t.Name,
		Subdomain:       t.Subdomain,
		Status:          t.Status,
	}
}

// UserEvent is emitted on tenant user lifecycle changes
type UserEvent struct {
	shared.BaseDomainEvent
	Email  string     `json:"email"`
	Status UserStatus `json:"status"`
}

// NewUserEvent creates a user lifecycle event
func NewUserEvent(eventType string, u *TenantUser, actor uuid.UUID) *UserEvent {
	e := &UserEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeUser, u.ID, u.TenantID),
		Email:           u.Email,
		Status:          u.Status,
	}
	e.ActorID = actor
	return e
}
