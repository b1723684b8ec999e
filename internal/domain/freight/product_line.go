package freight

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// Unit is the counting unit of a product line
type Unit string

const (
	UnitPieces  Unit = "pcs"
	UnitCartons Unit = "ctn"
	UnitPallets Unit = "plt"
	UnitKg      Unit = "kg"
)

// IsValid reports whether the unit is known
func (u Unit) IsValid() bool {
	switch u {
	case UnitPieces, UnitCartons, UnitPallets, UnitKg:
		return true
	}
	return false
}

// ProductLineDetails holds the descriptive fields of a product line
type ProductLineDetails struct {
	Description string
	Unit        Unit
	WeightKg    decimal.Decimal
	CBM         decimal.Decimal
	BatchNumber string
	ExpiryDate  *time.Time
}

// ProductLine is a quantity of one SKU carried in an import container
type ProductLine struct {
	shared.TenantAggregateRoot
	ContainerID      uuid.UUID
	SKU              string
	ExpectedQuantity decimal.Decimal
	ReceivedQuantity *decimal.Decimal
	ProductLineDetails
}

// NewProductLine adds a product line to an import container
func NewProductLine(container *Container, sku string, expected decimal.Decimal, details ProductLineDetails) (*ProductLine, error) {
	if err := EnsureLinesEditable(container); err != nil {
		return nil, err
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if !expected.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Expected quantity must be positive")
	}
	if err := validateLineDetails(details); err != nil {
		return nil, err
	}
	return &ProductLine{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(container.TenantID),
		ContainerID:         container.ID,
		SKU:                 sku,
		ExpectedQuantity:    expected,
		ProductLineDetails:  details,
	}, nil
}

// Update changes the expected quantity and details
func (p *ProductLine) Update(container *Container, expected decimal.Decimal, details ProductLineDetails) error {
	if err := EnsureLinesEditable(container); err != nil {
		return err
	}
	if !expected.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Expected quantity must be positive")
	}
	if err := validateLineDetails(details); err != nil {
		return err
	}
	p.ExpectedQuantity = expected
	p.ProductLineDetails = details
	p.Touch()
	return nil
}

// SetReceivedQuantity records the counted quantity. putAwayTotal is what is already shelved;
// the received quantity cannot drop below it.
func (p *ProductLine) SetReceivedQuantity(container *Container, qty, putAwayTotal decimal.Decimal) error {
	if err := container.EnsureStatus(ContainerStatusReceived); err != nil {
		return err
	}
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
	}
	if qty.LessThan(putAwayTotal) {
		return shared.NewDomainErrorf("INVALID_QUANTITY", "Received quantity %s is below the %s already put away", qty, putAwayTotal)
	}
	p.ReceivedQuantity = &qty
	p.Touch()
	return nil
}

// DefaultReceived fills the received quantity from the expected one when it was never counted
func (p *ProductLine) DefaultReceived() {
	if p.ReceivedQuantity == nil {
		q := p.ExpectedQuantity
		p.ReceivedQuantity = &q
		p.Touch()
	}
}

// EffectiveReceived returns the received quantity, or the expected one if not yet counted
func (p *ProductLine) EffectiveReceived() decimal.Decimal {
	if p.ReceivedQuantity != nil {
		return *p.ReceivedQuantity
	}
	return p.ExpectedQuantity
}

// EnsureLinesEditable checks that product lines on the container may change
func EnsureLinesEditable(container *Container) error {
	if err := container.EnsureDirection(DirectionImport); err != nil {
		return err
	}
	if container.Status != ContainerStatusExpecting && container.Status != ContainerStatusReceived {
		return shared.NewDomainErrorf("INVALID_STATE", "Product lines on container %s cannot change once it is %s", container.ContainerNumber, container.Status)
	}
	return nil
}

func validateLineDetails(d ProductLineDetails) error {
	if !d.Unit.IsValid() {
		return shared.NewDomainErrorf("INVALID_UNIT", "Unknown unit %q", d.Unit)
	}
	if d.WeightKg.IsNegative() || d.CBM.IsNegative() {
		return shared.NewDomainError("INVALID_MEASURE", "Weight and volume cannot be negative")
	}
	return nil
}
