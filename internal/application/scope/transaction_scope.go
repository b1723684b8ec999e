// Package scope defines the unit of work shared by the application services.
package scope

import (
	"context"

	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
)

// TransactionScope runs a function atomically. If fn returns an error every
// write is rolled back; otherwise the transaction commits and the events of the
// tracked aggregates are published.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// EventSource is an aggregate that buffers domain events
type EventSource interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// TransactionalRepositories gives access to repositories bound to one transaction
type TransactionalRepositories interface {
	TenantRepo() identity.TenantRepository
	UserRepo() identity.TenantUserRepository
	RoleRepo() identity.TenantRoleRepository
	WarehouseRepo() warehouse.WarehouseRepository
	DriverRepo() fleet.DriverRepository
	VehicleRepo() fleet.VehicleRepository
	BookingRepo() freight.BookingRepository
	ContainerRepo() freight.ContainerRepository
	ProductLineRepo() freight.ProductLineRepository
	StatusHistoryRepo() freight.StatusHistoryRepository
	PutAwayRepo() stock.PutAwayRepository
	AllocationRepo() stock.AllocationRepository
	PickupRepo() stock.PickupRepository
	DispatchRepo() dispatch.DispatchRepository

	// Track registers aggregates whose events are published after commit
	Track(sources ...EventSource)
}

// Events drains the buffered events of sources in order
func Events(sources []EventSource) []shared.DomainEvent {
	var out []shared.DomainEvent
	for _, s := range sources {
		out = append(out, s.GetDomainEvents()...)
		s.ClearDomainEvents()
	}
	return out
}
