package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// PutAwayRepository defines persistence for put-away stock
type PutAwayRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PutAwayStock, error)
	// FindByIDForUpdate loads and row-locks a put-away row inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*PutAwayStock, error)
	// FindAllForTenant lists rows; supports "container_id", "product_line_id", "warehouse_id",
	// "sku", "location_code" and "available_only" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PutAwayStock, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByContainer(ctx context.Context, tenantID, containerID uuid.UUID) ([]PutAwayStock, error)
	// SumByProductLine totals put-away quantity of a line, skipping excludeID
	SumByProductLine(ctx context.Context, tenantID, productLineID, excludeID uuid.UUID) (decimal.Decimal, error)
	// CountWithStockByWarehouse counts rows in a warehouse that still hold goods
	CountWithStockByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (int64, error)
	// SumAvailable totals unreserved quantity across the tenant
	SumAvailable(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
	Save(ctx context.Context, p *PutAwayStock) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// AllocationRepository defines persistence for container stock allocations
type AllocationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Allocation, error)
	// FindByIDForUpdate loads and row-locks an allocation inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Allocation, error)
	// FindAllForTenant lists allocations; supports "container_id", "put_away_stock_id" and "status" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Allocation, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// FindByContainerForUpdate loads and row-locks every allocation of a container
	FindByContainerForUpdate(ctx context.Context, tenantID, containerID uuid.UUID) ([]Allocation, error)
	CountByContainer(ctx context.Context, tenantID, containerID uuid.UUID) (int64, error)
	Save(ctx context.Context, a *Allocation) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// PickupRepository defines persistence for pickup stock
type PickupRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PickupStock, error)
	// FindAllForTenant lists pickups; supports "allocation_id" and "container_id" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PickupStock, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, p *PickupStock) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
