package dispatch

import (
	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

const AggregateTypeDispatch = "Dispatch"

const (
	EventTypeDispatchPlanned   = "DispatchPlanned"
	EventTypeDispatchStarted   = "DispatchStarted"
	EventTypeDispatchDelivered = "DispatchDelivered"
	EventTypeDispatchCancelled = "DispatchCancelled"
)

// DispatchEvent is raised on dispatch lifecycle changes
type DispatchEvent struct {
	shared.BaseDomainEvent
	DispatchNumber string    `json:"dispatch_number"`
	ContainerID    uuid.UUID `json:"container_id"`
	Status         Status    `json:"status"`
}

// NewDispatchEvent snapshots the dispatch for an event
func NewDispatchEvent(eventType string, d *Dispatch) *DispatchEvent {
	return &DispatchEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeDispatch, d.ID, d.TenantID),
		DispatchNumber:  d.DispatchNumber,
		ContainerID:     d.ContainerID,
		Status:          d.Status,
	}
}
