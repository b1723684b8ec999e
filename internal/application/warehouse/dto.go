package warehouse

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/warehouse"
)

// CreateWarehouseRequest is the input for creating a warehouse
type CreateWarehouseRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Address      string           `json:"address" binding:"max=500"`
	City         string           `json:"city" binding:"max=100"`
	Country      string           `json:"country" binding:"max=100"`
	ContactName  string           `json:"contact_name" binding:"max=100"`
	ContactPhone string           `json:"contact_phone" binding:"max=50"`
	CapacityCBM  *decimal.Decimal `json:"capacity_cbm"`
	Notes        string           `json:"notes" binding:"max=2000"`
}

// UpdateWarehouseRequest is the input for updating a warehouse. The code is immutable.
type UpdateWarehouseRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Address      *string          `json:"address" binding:"omitempty,max=500"`
	City         *string          `json:"city" binding:"omitempty,max=100"`
	Country      *string          `json:"country" binding:"omitempty,max=100"`
	ContactName  *string          `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone *string          `json:"contact_phone" binding:"omitempty,max=50"`
	CapacityCBM  *decimal.Decimal `json:"capacity_cbm"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
}

// WarehouseResponse is the API view of a warehouse
type WarehouseResponse struct {
	ID           uuid.UUID        `json:"id"`
	TenantID     uuid.UUID        `json:"tenant_id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Address      string           `json:"address,omitempty"`
	City         string           `json:"city,omitempty"`
	Country      string           `json:"country,omitempty"`
	ContactName  string           `json:"contact_name,omitempty"`
	ContactPhone string           `json:"contact_phone,omitempty"`
	CapacityCBM  *decimal.Decimal `json:"capacity_cbm,omitempty"`
	Status       string           `json:"status"`
	Notes        string           `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ToWarehouseResponse maps a domain warehouse to its response
func ToWarehouseResponse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:           w.ID,
		TenantID:     w.TenantID,
		Code:         w.Code,
		Name:         w.Name,
		Address:      w.Address,
		City:         w.City,
		Country:      w.Country,
		ContactName:  w.ContactName,
		ContactPhone: w.ContactPhone,
		CapacityCBM:  w.CapacityCBM,
		Status:       string(w.Status),
		Notes:        w.Notes,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}
