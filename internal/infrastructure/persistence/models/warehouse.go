package models

import (
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/warehouse"
)

// WarehouseModel is the persistence model for the Warehouse aggregate root.
type WarehouseModel struct {
	TenantAggregateModel
	Code         string           `gorm:"type:varchar(50);not null;index"`
	Name         string           `gorm:"type:varchar(200);not null"`
	Address      string           `gorm:"type:text"`
	City         string           `gorm:"type:varchar(100)"`
	Country      string           `gorm:"type:varchar(100)"`
	ContactName  string           `gorm:"type:varchar(100)"`
	ContactPhone string           `gorm:"type:varchar(50)"`
	CapacityCBM  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Status       warehouse.Status `gorm:"type:varchar(20);not null;default:'active'"`
	Notes        string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the persistence model to a domain Warehouse.
func (m *WarehouseModel) ToDomain() *warehouse.Warehouse {
	return &warehouse.Warehouse{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Address:             m.Address,
		City:                m.City,
		Country:             m.Country,
		ContactName:         m.ContactName,
		ContactPhone:        m.ContactPhone,
		CapacityCBM:         m.CapacityCBM,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Warehouse.
func (m *WarehouseModel) FromDomain(w *warehouse.Warehouse) {
	m.FromDomainTenantAggregateRoot(w.TenantAggregateRoot)
	m.Code = w.Code
	m.Name = w.Name
	m.Address = w.Address
	m.City = w.City
	m.Country = w.Country
	m.ContactName = w.ContactName
	m.ContactPhone = w.ContactPhone
	m.CapacityCBM = w.CapacityCBM
	m.Status = w.Status
	m.Notes = w.Notes
}

// WarehouseModelFromDomain creates a new persistence model from a domain Warehouse.
func WarehouseModelFromDomain(w *warehouse.Warehouse) *WarehouseModel {
	m := &WarehouseModel{}
	m.FromDomain(w)
	return m
}
