package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/stock"
)

// CreatePutAwayRequest shelves received goods of one product line
type CreatePutAwayRequest struct {
	ContainerID   uuid.UUID       `json:"container_id" binding:"required"`
	ProductLineID uuid.UUID       `json:"product_line_id" binding:"required"`
	WarehouseID   uuid.UUID       `json:"warehouse_id" binding:"required"`
	LocationCode  string          `json:"location_code" binding:"required,max=50"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// UpdatePutAwayRequest corrects the quantity or moves the stock
type UpdatePutAwayRequest struct {
	Quantity     *decimal.Decimal `json:"quantity"`
	LocationCode *string          `json:"location_code" binding:"omitempty,max=50"`
}

// PutAwayResponse is the API view of a put-away row
type PutAwayResponse struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	ProductLineID      uuid.UUID       `json:"product_line_id"`
	ContainerID        uuid.UUID       `json:"container_id"`
	WarehouseID        uuid.UUID       `json:"warehouse_id"`
	SKU                string          `json:"sku"`
	LocationCode       string          `json:"location_code"`
	Quantity           decimal.Decimal `json:"quantity"`
	AllocatedQuantity  decimal.Decimal `json:"allocated_quantity"`
	DispatchedQuantity decimal.Decimal `json:"dispatched_quantity"`
	AvailableQuantity  decimal.Decimal `json:"available_quantity"`
	PutAwayAt          time.Time       `json:"put_away_at"`
	PutAwayBy          *uuid.UUID      `json:"put_away_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToPutAwayResponse maps a put-away row to its response
func ToPutAwayResponse(p *stock.PutAwayStock) PutAwayResponse {
	return PutAwayResponse{
		ID:                 p.ID,
		TenantID:           p.TenantID,
		ProductLineID:      p.ProductLineID,
		ContainerID:        p.ContainerID,
		WarehouseID:        p.WarehouseID,
		SKU:                p.SKU,
		LocationCode:       p.LocationCode,
		Quantity:           p.Quantity,
		AllocatedQuantity:  p.AllocatedQuantity,
		DispatchedQuantity: p.DispatchedQuantity,
		AvailableQuantity:  p.Available(),
		PutAwayAt:          p.PutAwayAt,
		PutAwayBy:          p.PutAwayBy,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// CreateAllocationRequest reserves put-away stock for an export container
type CreateAllocationRequest struct {
	ContainerID    uuid.UUID       `json:"container_id" binding:"required"`
	PutAwayStockID uuid.UUID       `json:"put_away_stock_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// UpdateAllocationRequest resizes an allocation
type UpdateAllocationRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationResponse is the API view of an allocation
type AllocationResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	ContainerID       uuid.UUID       `json:"container_id"`
	PutAwayStockID    uuid.UUID       `json:"put_away_stock_id"`
	ProductLineID     uuid.UUID       `json:"product_line_id"`
	SKU               string          `json:"sku"`
	Quantity          decimal.Decimal `json:"quantity"`
	PickedQuantity    decimal.Decimal `json:"picked_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToAllocationResponse maps an allocation to its response
func ToAllocationResponse(a *stock.Allocation) AllocationResponse {
	return AllocationResponse{
		ID:                a.ID,
		TenantID:          a.TenantID,
		ContainerID:       a.ContainerID,
		PutAwayStockID:    a.PutAwayStockID,
		ProductLineID:     a.ProductLineID,
		SKU:               a.SKU,
		Quantity:          a.Quantity,
		PickedQuantity:    a.PickedQuantity,
		RemainingQuantity: a.Remaining(),
		Status:            string(a.Status),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// CreatePickupRequest records a physical pick against an allocation
type CreatePickupRequest struct {
	AllocationID uuid.UUID       `json:"allocation_id" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity"`
	Notes        string          `json:"notes" binding:"max=1000"`
}

// PickupResponse is the API view of a pickup
type PickupResponse struct {
	ID             uuid.UUID       `json:"id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	AllocationID   uuid.UUID       `json:"allocation_id"`
	ContainerID    uuid.UUID       `json:"container_id"`
	PutAwayStockID uuid.UUID       `json:"put_away_stock_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	PickedAt       time.Time       `json:"picked_at"`
	PickedBy       *uuid.UUID      `json:"picked_by,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// ToPickupResponse maps a pickup to its response
func ToPickupResponse(p *stock.PickupStock) PickupResponse {
	return PickupResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
		AllocationID:   p.AllocationID,
		ContainerID:    p.ContainerID,
		PutAwayStockID: p.PutAwayStockID,
		Quantity:       p.Quantity,
		PickedAt:       p.PickedAt,
		PickedBy:       p.PickedBy,
		Notes:          p.Notes,
	}
}
