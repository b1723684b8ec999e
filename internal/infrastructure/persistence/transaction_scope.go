package persistence

import (
	"context"

	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
	"github.com/tms/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormTransactionScope implements scope.TransactionScope with GORM transactions.
// Events of tracked aggregates go to the publisher only after a successful commit.
type GormTransactionScope struct {
	db        *gorm.DB
	publisher shared.EventPublisher
}

// NewGormTransactionScope creates a transaction scope. publisher may be nil.
func NewGormTransactionScope(db *gorm.DB, publisher shared.EventPublisher) *GormTransactionScope {
	return &GormTransactionScope{db: db, publisher: publisher}
}

// Execute runs fn in a transaction, rolling back when it returns an error
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.TransactionalRepositories) error) error {
	repos := &gormTransactionalRepositories{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos.tx = tx
		return fn(repos)
	})
	if err != nil {
		return err
	}

	events := scope.Events(repos.tracked)
	if s.publisher == nil || len(events) == 0 {
		return nil
	}
	// The writes are committed; a handler failure is logged, not returned.
	if perr := s.publisher.Publish(ctx, events...); perr != nil {
		logger.FromContext(ctx).Warn("post-commit event publishing failed",
			zap.Int("events", len(events)),
			zap.Error(perr),
		)
	}
	return nil
}

type gormTransactionalRepositories struct {
	tx      *gorm.DB
	tracked []scope.EventSource
}

func (r *gormTransactionalRepositories) Track(sources ...scope.EventSource) {
	r.tracked = append(r.tracked, sources...)
}

func (r *gormTransactionalRepositories) TenantRepo() identity.TenantRepository {
	return NewGormTenantRepository(r.tx)
}

func (r *gormTransactionalRepositories) UserRepo() identity.TenantUserRepository {
	return NewGormTenantUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) RoleRepo() identity.TenantRoleRepository {
	return NewGormTenantRoleRepository(r.tx)
}

func (r *gormTransactionalRepositories) WarehouseRepo() warehouse.WarehouseRepository {
	return NewGormWarehouseRepository(r.tx)
}

func (r *gormTransactionalRepositories) DriverRepo() fleet.DriverRepository {
	return NewGormDriverRepository(r.tx)
}

func (r *gormTransactionalRepositories) VehicleRepo() fleet.VehicleRepository {
	return NewGormVehicleRepository(r.tx)
}

func (r *gormTransactionalRepositories) BookingRepo() freight.BookingRepository {
	return NewGormBookingRepository(r.tx)
}

func (r *gormTransactionalRepositories) ContainerRepo() freight.ContainerRepository {
	return NewGormContainerRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductLineRepo() freight.ProductLineRepository {
	return NewGormProductLineRepository(r.tx)
}

func (r *gormTransactionalRepositories) StatusHistoryRepo() freight.StatusHistoryRepository {
	return NewGormStatusHistoryRepository(r.tx)
}

func (r *gormTransactionalRepositories) PutAwayRepo() stock.PutAwayRepository {
	return NewGormPutAwayRepository(r.tx)
}

func (r *gormTransactionalRepositories) AllocationRepo() stock.AllocationRepository {
	return NewGormAllocationRepository(r.tx)
}

func (r *gormTransactionalRepositories) PickupRepo() stock.PickupRepository {
	return NewGormPickupRepository(r.tx)
}

func (r *gormTransactionalRepositories) DispatchRepo() dispatch.DispatchRepository {
	return NewGormDispatchRepository(r.tx)
}

var (
	_ scope.TransactionScope          = (*GormTransactionScope)(nil)
	_ scope.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
