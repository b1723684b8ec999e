package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
)

// PickupStock records goods physically picked from a location against an allocation
type PickupStock struct {
	shared.TenantAggregateRoot
	AllocationID   uuid.UUID
	ContainerID    uuid.UUID
	PutAwayStockID uuid.UUID
	Quantity       decimal.Decimal
	PickedAt       time.Time
	PickedBy       *uuid.UUID
	Notes          string
}

// NewPickupStock records a pick of qty against the allocation
func NewPickupStock(container *freight.Container, alloc *Allocation, qty decimal.Decimal, pickedBy uuid.UUID, notes string) (*PickupStock, error) {
	if alloc.ContainerID != container.ID {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation does not belong to the container")
	}
	if err := container.EnsureStatus(freight.ContainerStatusAllocated); err != nil {
		return nil, err
	}
	if err := alloc.RecordPick(qty); err != nil {
		return nil, err
	}
	p := &PickupStock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(container.TenantID),
		AllocationID:        alloc.ID,
		ContainerID:         container.ID,
		PutAwayStockID:      alloc.PutAwayStockID,
		Quantity:            qty,
		PickedAt:            time.Now(),
		Notes:               strings.TrimSpace(notes),
	}
	if pickedBy != uuid.Nil {
		p.PickedBy = &pickedBy
		p.SetCreatedBy(pickedBy)
	}
	return p, nil
}

// Revert undoes the pick on its allocation before the pickup is deleted
func (p *PickupStock) Revert(container *freight.Container, alloc *Allocation) error {
	if alloc.ID != p.AllocationID {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocation does not match the pickup")
	}
	if err := container.EnsureStatus(freight.ContainerStatusAllocated); err != nil {
		return err
	}
	return alloc.RevertPick(p.Quantity)
}
