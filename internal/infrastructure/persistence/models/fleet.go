package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/fleet"
)

// DriverModel is the persistence model for the Driver aggregate root.
type DriverModel struct {
	TenantAggregateModel
	Name          string             `gorm:"type:varchar(200);not null"`
	Phone         string             `gorm:"type:varchar(50)"`
	LicenseNumber string             `gorm:"type:varchar(50);not null;index"`
	LicenseExpiry *time.Time         `gorm:"type:date"`
	Status        fleet.DriverStatus `gorm:"type:varchar(20);not null;default:'available'"`
	Notes         string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DriverModel) TableName() string {
	return "drivers"
}

// ToDomain converts the persistence model to a domain Driver.
func (m *DriverModel) ToDomain() *fleet.Driver {
	return &fleet.Driver{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		LicenseNumber:       m.LicenseNumber,
		LicenseExpiry:       m.LicenseExpiry,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Driver.
func (m *DriverModel) FromDomain(d *fleet.Driver) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Name = d.Name
	m.Phone = d.Phone
	m.LicenseNumber = d.LicenseNumber
	m.LicenseExpiry = d.LicenseExpiry
	m.Status = d.Status
	m.Notes = d.Notes
}

// DriverModelFromDomain creates a new persistence model from a domain Driver.
func DriverModelFromDomain(d *fleet.Driver) *DriverModel {
	m := &DriverModel{}
	m.FromDomain(d)
	return m
}

// VehicleModel is the persistence model for the Vehicle aggregate root.
type VehicleModel struct {
	TenantAggregateModel
	Registration string              `gorm:"type:varchar(20);not null;index"`
	Type         fleet.VehicleType   `gorm:"type:varchar(20);not null"`
	Make         string              `gorm:"type:varchar(100)"`
	Model        string              `gorm:"type:varchar(100)"`
	MaxPayloadKg decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status       fleet.VehicleStatus `gorm:"type:varchar(20);not null;default:'available'"`
	Notes        string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (VehicleModel) TableName() string {
	return "vehicles"
}

// ToDomain converts the persistence model to a domain Vehicle.
func (m *VehicleModel) ToDomain() *fleet.Vehicle {
	return &fleet.Vehicle{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Registration:        m.Registration,
		Type:                m.Type,
		Make:                m.Make,
		Model:               m.Model,
		MaxPayloadKg:        m.MaxPayloadKg,
		Status:              m.Status,
		Notes:               m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Vehicle.
func (m *VehicleModel) FromDomain(v *fleet.Vehicle) {
	m.FromDomainTenantAggregateRoot(v.TenantAggregateRoot)
	m.Registration = v.Registration
	m.Type = v.Type
	m.Make = v.Make
	m.Model = v.Model
	m.MaxPayloadKg = v.MaxPayloadKg
	m.Status = v.Status
	m.Notes = v.Notes
}

// VehicleModelFromDomain creates a new persistence model from a domain Vehicle.
func VehicleModelFromDomain(v *fleet.Vehicle) *VehicleModel {
	m := &VehicleModel{}
	m.FromDomain(v)
	return m
}
