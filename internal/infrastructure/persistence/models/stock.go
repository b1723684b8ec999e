package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/stock"
)

// PutAwayStockModel is the persistence model for the PutAwayStock aggregate root.
type PutAwayStockModel struct {
	TenantAggregateModel
	ProductLineID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContainerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKU                string          `gorm:"column:sku;type:varchar(100);not null"`
	LocationCode       string          `gorm:"type:varchar(50);not null"`
	Quantity           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	AllocatedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DispatchedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PutAwayAt          time.Time       `gorm:"not null"`
	PutAwayBy          *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PutAwayStockModel) TableName() string {
	return "put_away_stock"
}

// ToDomain converts the persistence model to a domain PutAwayStock.
func (m *PutAwayStockModel) ToDomain() *stock.PutAwayStock {
	return &stock.PutAwayStock{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ProductLineID:       m.ProductLineID,
		ContainerID:         m.ContainerID,
		WarehouseID:         m.WarehouseID,
		SKU:                 m.SKU,
		LocationCode:        m.LocationCode,
		Quantity:            m.Quantity,
		AllocatedQuantity:   m.AllocatedQuantity,
		DispatchedQuantity:  m.DispatchedQuantity,
		PutAwayAt:           m.PutAwayAt,
		PutAwayBy:           m.PutAwayBy,
	}
}

// FromDomain populates the persistence model from a domain PutAwayStock.
func (m *PutAwayStockModel) FromDomain(p *stock.PutAwayStock) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ProductLineID = p.ProductLineID
	m.ContainerID = p.ContainerID
	m.WarehouseID = p.WarehouseID
	m.SKU = p.SKU
	m.LocationCode = p.LocationCode
	m.Quantity = p.Quantity
	m.AllocatedQuantity = p.AllocatedQuantity
	m.DispatchedQuantity = p.DispatchedQuantity
	m.PutAwayAt = p.PutAwayAt
	m.PutAwayBy = p.PutAwayBy
}

// PutAwayStockModelFromDomain creates a new persistence model from a domain PutAwayStock.
func PutAwayStockModelFromDomain(p *stock.PutAwayStock) *PutAwayStockModel {
	m := &PutAwayStockModel{}
	m.FromDomain(p)
	return m
}

// ContainerStockAllocationModel is the persistence model for the Allocation aggregate root.
type ContainerStockAllocationModel struct {
	TenantAggregateModel
	ContainerID    uuid.UUID              `gorm:"type:uuid;not null;index"`
	PutAwayStockID uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductLineID  uuid.UUID              `gorm:"type:uuid;not null"`
	SKU            string                 `gorm:"column:sku;type:varchar(100);not null"`
	Quantity       decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	PickedQuantity decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Status         stock.AllocationStatus `gorm:"type:varchar(20);not null;default:'allocated'"`
}

// TableName returns the table name for GORM
func (ContainerStockAllocationModel) TableName() string {
	return "container_stock_allocations"
}

// ToDomain converts the persistence model to a domain Allocation.
func (m *ContainerStockAllocationModel) ToDomain() *stock.Allocation {
	return &stock.Allocation{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ContainerID:         m.ContainerID,
		PutAwayStockID:      m.PutAwayStockID,
		ProductLineID:       m.ProductLineID,
		SKU:                 m.SKU,
		Quantity:            m.Quantity,
		PickedQuantity:      m.PickedQuantity,
		Status:              m.Status,
	}
}

// FromDomain populates the persistence model from a domain Allocation.
func (m *ContainerStockAllocationModel) FromDomain(a *stock.Allocation) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.ContainerID = a.ContainerID
	m.PutAwayStockID = a.PutAwayStockID
	m.ProductLineID = a.ProductLineID
	m.SKU = a.SKU
	m.Quantity = a.Quantity
	m.PickedQuantity = a.PickedQuantity
	m.Status = a.Status
}

// ContainerStockAllocationModelFromDomain creates a new persistence model from a domain Allocation.
func ContainerStockAllocationModelFromDomain(a *stock.Allocation) *ContainerStockAllocationModel {
	m := &ContainerStockAllocationModel{}
	m.FromDomain(a)
	return m
}

// PickupStockModel is the persistence model for the PickupStock aggregate root.
type PickupStockModel struct {
	TenantAggregateModel
	AllocationID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ContainerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PutAwayStockID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PickedAt       time.Time       `gorm:"not null"`
	PickedBy       *uuid.UUID      `gorm:"type:uuid"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PickupStockModel) TableName() string {
	return "pickup_stock"
}

// ToDomain converts the persistence model to a domain PickupStock.
func (m *PickupStockModel) ToDomain() *stock.PickupStock {
	return &stock.PickupStock{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		AllocationID:        m.AllocationID,
		ContainerID:         m.ContainerID,
		PutAwayStockID:      m.PutAwayStockID,
		Quantity:            m.Quantity,
		PickedAt:            m.PickedAt,
		PickedBy:            m.PickedBy,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain PickupStock.
func (m *PickupStockModel) FromDomain(p *stock.PickupStock) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.AllocationID = p.AllocationID
	m.ContainerID = p.ContainerID
	m.PutAwayStockID = p.PutAwayStockID
	m.Quantity = p.Quantity
	m.PickedAt = p.PickedAt
	m.PickedBy = p.PickedBy
	m.Notes = p.Notes
}

// PickupStockModelFromDomain creates a new persistence model from a domain PickupStock.
func PickupStockModelFromDomain(p *stock.PickupStock) *PickupStockModel {
	m := &PickupStockModel{}
	m.FromDomain(p)
	return m
}
