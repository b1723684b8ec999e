package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/dispatch"
)

// DispatchModel is the persistence model for the Dispatch aggregate root.
type DispatchModel struct {
	TenantAggregateModel
	DispatchNumber     string          `gorm:"type:varchar(30);not null;index"`
	ContainerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	DriverID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	VehicleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	OriginWarehouseID  uuid.UUID       `gorm:"type:uuid;not null"`
	DestinationAddress string          `gorm:"type:varchar(500);not null"`
	ScheduledAt        time.Time       `gorm:"not null"`
	Remarks            string          `gorm:"type:text"`
	Status             dispatch.Status `gorm:"type:varchar(20);not null;default:'planned'"`
	StartedAt          *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	DeliveryNoteKey    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DispatchModel) TableName() string {
	return "dispatches"
}

// ToDomain converts the persistence model to a domain Dispatch.
func (m *DispatchModel) ToDomain() *dispatch.Dispatch {
	return &dispatch.Dispatch{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		DispatchNumber:      m.DispatchNumber,
		ContainerID:         m.ContainerID,
		DriverID:            m.DriverID,
		VehicleID:           m.VehicleID,
		OriginWarehouseID:   m.OriginWarehouseID,
		Details: dispatch.Details{
			DestinationAddress: m.DestinationAddress,
			ScheduledAt:        m.ScheduledAt,
			Remarks:            m.Remarks,
		},
		Status:          m.Status,
		StartedAt:       m.StartedAt,
		DeliveredAt:     m.DeliveredAt,
		CancelledAt:     m.CancelledAt,
		DeliveryNoteKey: m.DeliveryNoteKey,
	}
}

// FromDomain populates the persistence model from a domain Dispatch.
func (m *DispatchModel) FromDomain(d *dispatch.Dispatch) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.DispatchNumber = d.DispatchNumber
	m.ContainerID = d.ContainerID
	m.DriverID = d.DriverID
	m.VehicleID = d.VehicleID
	m.OriginWarehouseID = d.OriginWarehouseID
	m.DestinationAddress = d.DestinationAddress
	m.ScheduledAt = d.ScheduledAt
	m.Remarks = d.Remarks
	m.Status = d.Status
	m.StartedAt = d.StartedAt
	m.DeliveredAt = d.DeliveredAt
	m.CancelledAt = d.CancelledAt
	m.DeliveryNoteKey = d.DeliveryNoteKey
}

// DispatchModelFromDomain creates a new persistence model from a domain Dispatch.
func DispatchModelFromDomain(d *dispatch.Dispatch) *DispatchModel {
	m := &DispatchModel{}
	m.FromDomain(d)
	return m
}
