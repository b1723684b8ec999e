package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/freight"
)

// ContainerBookingModel is the persistence model for the Booking aggregate root.
type ContainerBookingModel struct {
	TenantAggregateModel
	BookingNumber     string                `gorm:"type:varchar(30);not null;index"`
	Direction         freight.Direction     `gorm:"type:varchar(10);not null"`
	WarehouseID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName      string                `gorm:"type:varchar(200);not null"`
	CustomerReference string                `gorm:"type:varchar(100)"`
	ShippingLine      string                `gorm:"type:varchar(100)"`
	VesselName        string                `gorm:"type:varchar(100)"`
	VoyageNumber      string                `gorm:"type:varchar(50)"`
	PortOfLoading     string                `gorm:"type:varchar(50)"`
	PortOfDischarge   string                `gorm:"type:varchar(50)"`
	ETA               *time.Time            `gorm:"column:eta"`
	ETD               *time.Time            `gorm:"column:etd"`
	Remarks           string                `gorm:"type:text"`
	Status            freight.BookingStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	ConfirmedAt       *time.Time
	CompletedAt       *time.Time
	CancelledAt       *time.Time
}

// TableName returns the table name for GORM
func (ContainerBookingModel) TableName() string {
	return "container_bookings"
}

// ToDomain converts the persistence model to a domain Booking.
func (m *ContainerBookingModel) ToDomain() *freight.Booking {
	return &freight.Booking{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BookingNumber:       m.BookingNumber,
		Direction:           m.Direction,
		WarehouseID:         m.WarehouseID,
		BookingDetails: freight.BookingDetails{
			CustomerName:      m.CustomerName,
			CustomerReference: m.CustomerReference,
			ShippingLine:      m.ShippingLine,
			VesselName:        m.VesselName,
			VoyageNumber:      m.VoyageNumber,
			PortOfLoading:     m.PortOfLoading,
			PortOfDischarge:   m.PortOfDischarge,
			ETA:               m.ETA,
			ETD:               m.ETD,
			Remarks:           m.Remarks,
		},
		Status:      m.Status,
		ConfirmedAt: m.ConfirmedAt,
		CompletedAt: m.CompletedAt,
		CancelledAt: m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Booking.
func (m *ContainerBookingModel) FromDomain(b *freight.Booking) {
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	m.BookingNumber = b.BookingNumber
	m.Direction = b.Direction
	m.WarehouseID = b.WarehouseID
	m.CustomerName = b.CustomerName
	m.CustomerReference = b.CustomerReference
	m.ShippingLine = b.ShippingLine
	m.VesselName = b.VesselName
	m.VoyageNumber = b.VoyageNumber
	m.PortOfLoading = b.PortOfLoading
	m.PortOfDischarge = b.PortOfDischarge
	m.ETA = b.ETA
	m.ETD = b.ETD
	m.Remarks = b.Remarks
	m.Status = b.Status
	m.ConfirmedAt = b.ConfirmedAt
	m.CompletedAt = b.CompletedAt
	m.CancelledAt = b.CancelledAt
}

// ContainerBookingModelFromDomain creates a new persistence model from a domain Booking.
func ContainerBookingModelFromDomain(b *freight.Booking) *ContainerBookingModel {
	m := &ContainerBookingModel{}
	m.FromDomain(b)
	return m
}

// ContainerDetailModel is the persistence model for the Container aggregate root.
type ContainerDetailModel struct {
	TenantAggregateModel
	BookingID       uuid.UUID               `gorm:"type:uuid;not null;index"`
	Direction       freight.Direction       `gorm:"type:varchar(10);not null"`
	ContainerNumber string                  `gorm:"type:varchar(11);not null;index"`
	Size            freight.ContainerSize   `gorm:"type:varchar(10);not null"`
	SealNumber      string                  `gorm:"type:varchar(50)"`
	TareWeightKg    decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	GrossWeightKg   decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Status          freight.ContainerStatus `gorm:"type:varchar(20);not null;index"`
	ReceivedAt      *time.Time
	PutAwayAt       *time.Time
	PickedUpAt      *time.Time
	DispatchedAt    *time.Time
}

// TableName returns the table name for GORM
func (ContainerDetailModel) TableName() string {
	return "container_details"
}

// ToDomain converts the persistence model to a domain Container.
func (m *ContainerDetailModel) ToDomain() *freight.Container {
	return &freight.Container{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BookingID:           m.BookingID,
		Direction:           m.Direction,
		ContainerNumber:     m.ContainerNumber,
		Size:                m.Size,
		SealNumber:          m.SealNumber,
		TareWeightKg:        m.TareWeightKg,
		GrossWeightKg:       m.GrossWeightKg,
		Status:              m.Status,
		ReceivedAt:          m.ReceivedAt,
		PutAwayAt:           m.PutAwayAt,
		PickedUpAt:          m.PickedUpAt,
		DispatchedAt:        m.DispatchedAt,
	}
}

// FromDomain populates the persistence model from a domain Container.
func (m *ContainerDetailModel) FromDomain(c *freight.Container) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.BookingID = c.BookingID
	m.Direction = c.Direction
	m.ContainerNumber = c.ContainerNumber
	m.Size = c.Size
	m.SealNumber = c.SealNumber
	m.TareWeightKg = c.TareWeightKg
	m.GrossWeightKg = c.GrossWeightKg
	m.Status = c.Status
	m.ReceivedAt = c.ReceivedAt
	m.PutAwayAt = c.PutAwayAt
	m.PickedUpAt = c.PickedUpAt
	m.DispatchedAt = c.DispatchedAt
}

// ContainerDetailModelFromDomain creates a new persistence model from a domain Container.
func ContainerDetailModelFromDomain(c *freight.Container) *ContainerDetailModel {
	m := &ContainerDetailModel{}
	m.FromDomain(c)
	return m
}

// ProductLineModel is the persistence model for the ProductLine aggregate root.
type ProductLineModel struct {
	TenantAggregateModel
	ContainerID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	SKU              string           `gorm:"column:sku;type:varchar(100);not null"`
	Description      string           `gorm:"type:varchar(500)"`
	Unit             freight.Unit     `gorm:"type:varchar(10);not null"`
	ExpectedQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity *decimal.Decimal `gorm:"type:decimal(18,4)"`
	WeightKg         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CBM              decimal.Decimal  `gorm:"column:cbm;type:decimal(18,4);not null;default:0"`
	BatchNumber      string           `gorm:"type:varchar(50)"`
	ExpiryDate       *time.Time       `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (ProductLineModel) TableName() string {
	return "product_lines"
}

// ToDomain converts the persistence model to a domain ProductLine.
func (m *ProductLineModel) ToDomain() *freight.ProductLine {
	return &freight.ProductLine{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		ContainerID:         m.ContainerID,
		SKU:                 m.SKU,
		ExpectedQuantity:    m.ExpectedQuantity,
		ReceivedQuantity:    m.ReceivedQuantity,
		ProductLineDetails: freight.ProductLineDetails{
			Description: m.Description,
			Unit:        m.Unit,
			WeightKg:    m.WeightKg,
			CBM:         m.CBM,
			BatchNumber: m.BatchNumber,
			ExpiryDate:  m.ExpiryDate,
		},
	}
}

// FromDomain populates the persistence model from a domain ProductLine.
func (m *ProductLineModel) FromDomain(p *freight.ProductLine) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.ContainerID = p.ContainerID
	m.SKU = p.SKU
	m.Description = p.Description
	m.Unit = p.Unit
	m.ExpectedQuantity = p.ExpectedQuantity
	m.ReceivedQuantity = p.ReceivedQuantity
	m.WeightKg = p.WeightKg
	m.CBM = p.CBM
	m.BatchNumber = p.BatchNumber
	m.ExpiryDate = p.ExpiryDate
}

// ProductLineModelFromDomain creates a new persistence model from a domain ProductLine.
func ProductLineModelFromDomain(p *freight.ProductLine) *ProductLineModel {
	m := &ProductLineModel{}
	m.FromDomain(p)
	return m
}

// ContainerStatusHistoryModel is an append-only record of container status changes.
type ContainerStatusHistoryModel struct {
	ID          uuid.UUID               `gorm:"type:uuid;primary_key"`
	TenantID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	ContainerID uuid.UUID               `gorm:"type:uuid;not null;index"`
	FromStatus  freight.ContainerStatus `gorm:"type:varchar(20);not null"`
	ToStatus    freight.ContainerStatus `gorm:"type:varchar(20);not null"`
	ActorID     *uuid.UUID              `gorm:"type:uuid"`
	ChangedAt   time.Time               `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ContainerStatusHistoryModel) TableName() string {
	return "container_status_history"
}

// ToDomain converts the persistence model to a domain StatusHistory.
func (m *ContainerStatusHistoryModel) ToDomain() *freight.StatusHistory {
	return &freight.StatusHistory{
		ID:          m.ID,
		TenantID:    m.TenantID,
		ContainerID: m.ContainerID,
		FromStatus:  m.FromStatus,
		ToStatus:    m.ToStatus,
		ActorID:     m.ActorID,
		ChangedAt:   m.ChangedAt,
	}
}

// ContainerStatusHistoryModelFromDomain creates a new persistence model from a domain StatusHistory.
func ContainerStatusHistoryModelFromDomain(h *freight.StatusHistory) *ContainerStatusHistoryModel {
	return &ContainerStatusHistoryModel{
		ID:          h.ID,
		TenantID:    h.TenantID,
		ContainerID: h.ContainerID,
		FromStatus:  h.FromStatus,
		ToStatus:    h.ToStatus,
		ActorID:     h.ActorID,
		ChangedAt:   h.ChangedAt,
	}
}
