package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// WarehouseRepository defines persistence for warehouses
type WarehouseRepository interface {
	// FindByIDForTenant finds a warehouse owned by the tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)
	// FindByCode finds a warehouse by its code
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Warehouse, error)
	// FindAllForTenant lists warehouses; supports the "status" filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Warehouse, error)
	// CountForTenant counts warehouses matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// ExistsByCode reports whether the code is taken
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	// Save creates or updates a warehouse
	Save(ctx context.Context, w *Warehouse) error
	// DeleteForTenant deletes a warehouse
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
