package fleet

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// DriverRepository defines persistence for drivers
type DriverRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Driver, error)
	// FindByIDForUpdate loads and row-locks a driver inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Driver, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Driver, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByLicense(ctx context.Context, tenantID uuid.UUID, licenseNumber string) (bool, error)
	Save(ctx context.Context, d *Driver) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// VehicleRepository defines persistence for vehicles
type VehicleRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error)
	// FindByIDForUpdate loads and row-locks a vehicle inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Vehicle, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Vehicle, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByRegistration(ctx context.Context, tenantID uuid.UUID, registration string) (bool, error)
	Save(ctx context.Context, v *Vehicle) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
