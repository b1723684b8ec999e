package dispatch

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// StatusCount is a dispatch count for one status
type StatusCount struct {
	Status Status
	Count  int64
}

// DispatchRepository defines persistence for dispatches
type DispatchRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Dispatch, error)
	// FindByIDForUpdate loads and row-locks a dispatch inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Dispatch, error)
	// FindAllForTenant lists dispatches; supports "status", "container_id", "driver_id" and "vehicle_id" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Dispatch, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsActiveForContainer reports a planned or in-transit dispatch for the container, skipping excludeID
	ExistsActiveForContainer(ctx context.Context, tenantID, containerID, excludeID uuid.UUID) (bool, error)
	// CountActiveByDriver and CountActiveByVehicle count planned or in-transit dispatches
	CountActiveByDriver(ctx context.Context, tenantID, driverID uuid.UUID) (int64, error)
	CountActiveByVehicle(ctx context.Context, tenantID, vehicleID uuid.UUID) (int64, error)
	// LastNumberWithPrefix returns the highest dispatch number starting with prefix, or ""
	LastNumberWithPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)
	Save(ctx context.Context, d *Dispatch) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
