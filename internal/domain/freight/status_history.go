package freight

import (
	"time"

	"github.com/google/uuid"
)

// StatusHistory is one recorded container status change
type StatusHistory struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	ContainerID uuid.UUID
	FromStatus  ContainerStatus
	ToStatus    ContainerStatus
	ActorID     *uuid.UUID
	ChangedAt   time.Time
}

// NewStatusHistory builds a history entry from a status-changed event
func NewStatusHistory(e *ContainerStatusChangedEvent) *StatusHistory {
	h := &StatusHistory{
		ID:          uuid.New(),
		TenantID:    e.TenantID(),
		ContainerID: e.AggregateID(),
		FromStatus:  e.From,
		ToStatus:    e.To,
		ChangedAt:   e.OccurredAt(),
	}
	if e.ActorID != uuid.Nil {
		actor := e.ActorID
		h.ActorID = &actor
	}
	return h
}
