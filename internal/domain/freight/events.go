package freight

import (
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

const (
	AggregateTypeBooking   = "ContainerBooking"
	AggregateTypeContainer = "ContainerDetail"

	EventTypeBookingCreated         = "BookingCreated"
	EventTypeBookingConfirmed       = "BookingConfirmed"
	EventTypeBookingCancelled       = "BookingCancelled"
	EventTypeBookingCompleted       = "BookingCompleted"
	EventTypeContainerStatusChanged = "ContainerStatusChanged"
)

// BookingEvent is emitted on booking lifecycle changes
type BookingEvent struct {
	shared.BaseDomainEvent
	BookingNumber string        `json:"booking_number"`
	Direction     Direction     `json:"direction"`
	Status        BookingStatus `json:"status"`
}

// NewBookingEvent creates a booking lifecycle event
func NewBookingEvent(eventType string, b *Booking) *BookingEvent {
	return &BookingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeBooking, b.ID, b.TenantID),
		BookingNumber:   b.BookingNumber,
		Direction:       b.Direction,
		Status:          b.Status,
	}
}

// ContainerStatusChangedEvent is emitted on every container status transition
type ContainerStatusChangedEvent struct {
	shared.BaseDomainEvent
	BookingID       uuid.UUID       `json:"booking_id"`
	ContainerNumber string          `json:"container_number"`
	Direction       Direction       `json:"direction"`
	From            ContainerStatus `json:"from"`
	To              ContainerStatus `json:"to"`
}

// NewContainerStatusChangedEvent creates the event for a container that just moved from `from`
func NewContainerStatusChangedEvent(c *Container, from ContainerStatus, actor uuid.UUID) *ContainerStatusChangedEvent {
	e := &ContainerStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContainerStatusChanged, AggregateTypeContainer, c.ID, c.TenantID),
		BookingID:       c.BookingID,
		ContainerNumber: c.ContainerNumber,
		Direction:       c.Direction,
		From:            from,
		To:              c.Status,
	}
	e.ActorID = actor
	return e
}
