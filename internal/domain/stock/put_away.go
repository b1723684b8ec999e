package stock

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/warehouse"
)

var locationPattern = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)*$`)

// PutAwayStock is a warehouse-location ledger row for goods received from an import container.
// AllocatedQuantity counts everything reserved for export, including what already left;
// DispatchedQuantity counts what physically left the warehouse.
type PutAwayStock struct {
	shared.TenantAggregateRoot
	ProductLineID      uuid.UUID
	ContainerID        uuid.UUID
	WarehouseID        uuid.UUID
	SKU                string
	LocationCode       string
	Quantity           decimal.Decimal
	AllocatedQuantity  decimal.Decimal
	DispatchedQuantity decimal.Decimal
	PutAwayAt          time.Time
	PutAwayBy          *uuid.UUID
}

// NewPutAwayStock shelves qty of a product line. alreadyPutAway is the line's existing put-away total.
func NewPutAwayStock(
	container *freight.Container,
	line *freight.ProductLine,
	wh *warehouse.Warehouse,
	location string,
	qty, alreadyPutAway decimal.Decimal,
) (*PutAwayStock, error) {
	if err := container.EnsureStatus(freight.ContainerStatusReceived); err != nil {
		return nil, err
	}
	if line.ContainerID != container.ID {
		return nil, shared.NewDomainError("INVALID_PRODUCT_LINE", "Product line does not belong to the container")
	}
	if err := wh.EnsureActive(); err != nil {
		return nil, err
	}
	loc, err := normalizeLocation(location)
	if err != nil {
		return nil, err
	}
	if err := checkPutAwayLimit(line, qty, alreadyPutAway); err != nil {
		return nil, err
	}
	return &PutAwayStock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(container.TenantID),
		ProductLineID:       line.ID,
		ContainerID:         container.ID,
		WarehouseID:         wh.ID,
		SKU:                 line.SKU,
		LocationCode:        loc,
		Quantity:            qty,
		AllocatedQuantity:   decimal.Zero,
		DispatchedQuantity:  decimal.Zero,
		PutAwayAt:           time.Now(),
	}, nil
}

// Available returns the quantity not yet reserved
func (p *PutAwayStock) Available() decimal.Decimal {
	return p.Quantity.Sub(p.AllocatedQuantity)
}

// OnHand returns the quantity still physically in the location
func (p *PutAwayStock) OnHand() decimal.Decimal {
	return p.Quantity.Sub(p.DispatchedQuantity)
}

// ChangeQuantity corrects the shelved quantity. otherPutAway is the line's total excluding this row.
func (p *PutAwayStock) ChangeQuantity(container *freight.Container, line *freight.ProductLine, qty, otherPutAway decimal.Decimal) error {
	if err := container.EnsureStatus(freight.ContainerStatusReceived); err != nil {
		return err
	}
	if qty.LessThan(p.AllocatedQuantity) {
		return shared.NewDomainErrorf("INVALID_QUANTITY", "Quantity cannot drop below the %s already allocated", p.AllocatedQuantity)
	}
	if err := checkPutAwayLimit(line, qty, otherPutAway); err != nil {
		return err
	}
	p.Quantity = qty
	p.Touch()
	return nil
}

// Relocate moves the stock to another location code
func (p *PutAwayStock) Relocate(location string) error {
	loc, err := normalizeLocation(location)
	if err != nil {
		return err
	}
	p.LocationCode = loc
	p.Touch()
	return nil
}

// Reserve allocates qty for an export container
func (p *PutAwayStock) Reserve(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if qty.GreaterThan(p.Available()) {
		return shared.NewDomainErrorf(shared.ErrInsufficientStock.Code,
			"Only %s of %s available at %s, requested %s", p.Available(), p.SKU, p.LocationCode, qty)
	}
	p.AllocatedQuantity = p.AllocatedQuantity.Add(qty)
	p.Touch()
	return nil
}

// Release returns previously reserved qty
func (p *PutAwayStock) Release(qty decimal.Decimal) error {
	if qty.GreaterThan(p.AllocatedQuantity.Sub(p.DispatchedQuantity)) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot release more than is reserved")
	}
	p.AllocatedQuantity = p.AllocatedQuantity.Sub(qty)
	p.Touch()
	return nil
}

// Ship records qty leaving the warehouse on a dispatch
func (p *PutAwayStock) Ship(qty decimal.Decimal) error {
	if p.DispatchedQuantity.Add(qty).GreaterThan(p.AllocatedQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Cannot dispatch more than was allocated")
	}
	p.DispatchedQuantity = p.DispatchedQuantity.Add(qty)
	p.Touch()
	return nil
}

// CanDelete reports whether the row may be removed given its container's status
func (p *PutAwayStock) CanDelete(containerStatus freight.ContainerStatus) error {
	if !p.AllocatedQuantity.IsZero() {
		return shared.NewDomainError("STOCK_ALLOCATED", "Put-away stock has allocations and cannot be deleted")
	}
	if containerStatus == freight.ContainerStatusPutAway {
		return shared.NewDomainError("INVALID_STATE", "Put-away stock of a completed container cannot be deleted")
	}
	return nil
}

func checkPutAwayLimit(line *freight.ProductLine, qty, already decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	received := line.EffectiveReceived()
	if already.Add(qty).GreaterThan(received) {
		return shared.NewDomainErrorf("QUANTITY_EXCEEDED",
			"Put-away of %s for %s exceeds the received quantity (%s received, %s already put away)",
			qty, line.SKU, received, already)
	}
	return nil
}

func normalizeLocation(location string) (string, error) {
	loc := strings.ToUpper(strings.TrimSpace(location))
	if loc == "" || len(loc) > 50 || !locationPattern.MatchString(loc) {
		return "", shared.NewDomainError("INVALID_LOCATION", "Location code must look like A-01-02")
	}
	return loc, nil
}
