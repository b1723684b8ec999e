package warehouse

import "github.com/tms/backend/internal/domain/shared"

const (
	AggregateTypeWarehouse = "Warehouse"

	EventTypeWarehouseCreated     = "WarehouseCreated"
	EventTypeWarehouseActivated   = "WarehouseActivated"
	EventTypeWarehouseDeactivated = "WarehouseDeactivated"
)

// WarehouseEvent is emitted on warehouse lifecycle changes
type WarehouseEvent struct {
	shared.BaseDomainEvent
	Code   string `json:"code"`
	Status Status `json:"status"`
}

// NewWarehouseEvent creates a warehouse lifecycle event
func NewWarehouseEvent(eventType string, w *Warehouse) *WarehouseEvent {
	return &WarehouseEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeWarehouse, w.ID, w.TenantID),
		Code:            w.Code,
		Status:          w.Status,
	}
}
