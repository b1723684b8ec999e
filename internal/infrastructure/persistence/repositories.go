package persistence

import (
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
	"gorm.io/gorm"
)

// Repositories bundles the non-transactional repositories on one connection
type Repositories struct {
	Tenant        identity.TenantRepository
	User          identity.TenantUserRepository
	Role          identity.TenantRoleRepository
	Warehouse     warehouse.WarehouseRepository
	Driver        fleet.DriverRepository
	Vehicle       fleet.VehicleRepository
	Booking       freight.BookingRepository
	Container     freight.ContainerRepository
	ProductLine   freight.ProductLineRepository
	StatusHistory freight.StatusHistoryRepository
	PutAway       stock.PutAwayRepository
	Allocation    stock.AllocationRepository
	Pickup        stock.PickupRepository
	Dispatch      dispatch.DispatchRepository
}

// NewRepositories creates every repository on db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tenant:        NewGormTenantRepository(db),
		User:          NewGormTenantUserRepository(db),
		Role:          NewGormTenantRoleRepository(db),
		Warehouse:     NewGormWarehouseRepository(db),
		Driver:        NewGormDriverRepository(db),
		Vehicle:       NewGormVehicleRepository(db),
		Booking:       NewGormBookingRepository(db),
		Container:     NewGormContainerRepository(db),
		ProductLine:   NewGormProductLineRepository(db),
		StatusHistory: NewGormStatusHistoryRepository(db),
		PutAway:       NewGormPutAwayRepository(db),
		Allocation:    NewGormAllocationRepository(db),
		Pickup:        NewGormPickupRepository(db),
		Dispatch:      NewGormDispatchRepository(db),
	}
}
