package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
)

// AllocationStatus mirrors the export container flow for one allocation
type AllocationStatus string

const (
	AllocationStatusAllocated  AllocationStatus = "allocated"
	AllocationStatusPickedUp   AllocationStatus = "picked_up"
	AllocationStatusDispatched AllocationStatus = "dispatched"
)

// Allocation reserves put-away stock for an export container
type Allocation struct {
	shared.TenantAggregateRoot
	ContainerID    uuid.UUID
	PutAwayStockID uuid.UUID
	ProductLineID  uuid.UUID
	SKU            string
	Quantity       decimal.Decimal
	PickedQuantity decimal.Decimal
	Status         AllocationStatus
}

// NewAllocation reserves qty from source for an export container
func NewAllocation(container *freight.Container, source *PutAwayStock, qty decimal.Decimal) (*Allocation, error) {
	if err := container.EnsureDirection(freight.DirectionExport); err != nil {
		return nil, err
	}
	if err := container.EnsureStatus(freight.ContainerStatusAllocated); err != nil {
		return nil, err
	}
	if err := source.Reserve(qty); err != nil {
		return nil, err
	}
	return &Allocation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(container.TenantID),
		ContainerID:         container.ID,
		PutAwayStockID:      source.ID,
		ProductLineID:       source.ProductLineID,
		SKU:                 source.SKU,
		Quantity:            qty,
		PickedQuantity:      decimal.Zero,
		Status:              AllocationStatusAllocated,
	}, nil
}

// Remaining returns the quantity still to pick
func (a *Allocation) Remaining() decimal.Decimal {
	return a.Quantity.Sub(a.PickedQuantity)
}

// IsFullyPicked reports whether every allocated unit has a pickup
func (a *Allocation) IsFullyPicked() bool {
	return a.PickedQuantity.Equal(a.Quantity)
}

// ChangeQuantity resizes the reservation, taking or returning the difference on source
func (a *Allocation) ChangeQuantity(source *PutAwayStock, qty decimal.Decimal) error {
	if err := a.ensureAllocated(); err != nil {
		return err
	}
	if source.ID != a.PutAwayStockID {
		return shared.NewDomainError("INVALID_SOURCE", "Put-away stock does not match the allocation")
	}
	if !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if qty.LessThan(a.PickedQuantity) {
		return shared.NewDomainErrorf("INVALID_QUANTITY", "Quantity cannot drop below the %s already picked", a.PickedQuantity)
	}
	delta := qty.Sub(a.Quantity)
	switch {
	case delta.IsPositive():
		if err := source.Reserve(delta); err != nil {
			return err
		}
	case delta.IsNegative():
		if err := source.Release(delta.Neg()); err != nil {
			return err
		}
	}
	a.Quantity = qty
	a.Touch()
	return nil
}

// Cancel returns the whole reservation to source before deletion
func (a *Allocation) Cancel(source *PutAwayStock) error {
	if err := a.ensureAllocated(); err != nil {
		return err
	}
	if a.PickedQuantity.IsPositive() {
		return shared.NewDomainError("ALLOCATION_PICKED", "Allocation has pickups and cannot be deleted")
	}
	return source.Release(a.Quantity)
}

// RecordPick adds a pickup of qty
func (a *Allocation) RecordPick(qty decimal.Decimal) error {
	if err := a.ensureAllocated(); err != nil {
		return err
	}
	if !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Pickup quantity must be positive")
	}
	if qty.GreaterThan(a.Remaining()) {
		return shared.NewDomainErrorf("QUANTITY_EXCEEDED", "Pickup of %s exceeds the %s left to pick for %s", qty, a.Remaining(), a.SKU)
	}
	a.PickedQuantity = a.PickedQuantity.Add(qty)
	a.Touch()
	return nil
}

// RevertPick undoes a pickup of qty and returns the allocation to allocated
func (a *Allocation) RevertPick(qty decimal.Decimal) error {
	if a.Status == AllocationStatusDispatched {
		return shared.NewDomainError("INVALID_STATE", "Allocation is already dispatched")
	}
	if qty.GreaterThan(a.PickedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot revert more than was picked")
	}
	a.PickedQuantity = a.PickedQuantity.Sub(qty)
	a.Status = AllocationStatusAllocated
	a.Touch()
	return nil
}

// MarkPickedUp moves a fully picked allocation to picked_up
func (a *Allocation) MarkPickedUp() error {
	if err := a.ensureAllocated(); err != nil {
		return err
	}
	if !a.IsFullyPicked() {
		return shared.NewDomainErrorf("PICKUP_INCOMPLETE", "%s: %s of %s picked", a.SKU, a.PickedQuantity, a.Quantity)
	}
	a.Status = AllocationStatusPickedUp
	a.Touch()
	return nil
}

// MarkDispatched moves a picked-up allocation to dispatched and ships its quantity from source
func (a *Allocation) MarkDispatched(source *PutAwayStock) error {
	if a.Status != AllocationStatusPickedUp {
		return shared.NewDomainErrorf("INVALID_STATE", "Allocation must be picked_up before dispatch (current status: %s)", a.Status)
	}
	if source.ID != a.PutAwayStockID {
		return shared.NewDomainError("INVALID_SOURCE", "Put-away stock does not match the allocation")
	}
	if err := source.Ship(a.Quantity); err != nil {
		return err
	}
	a.Status = AllocationStatusDispatched
	a.Touch()
	return nil
}

func (a *Allocation) ensureAllocated() error {
	if a.Status != AllocationStatusAllocated {
		return shared.NewDomainErrorf("INVALID_STATE", "Allocation is %s and can no longer change", a.Status)
	}
	return nil
}
