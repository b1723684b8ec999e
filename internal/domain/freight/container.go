package freight

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
)

// ContainerSize is the ISO size/type group of a container
type ContainerSize string

const (
	ContainerSize20GP ContainerSize = "20GP"
	ContainerSize40GP ContainerSize = "40GP"
	ContainerSize40HC ContainerSize = "40HC"
	ContainerSize45HC ContainerSize = "45HC"
	ContainerSize20RF ContainerSize = "20RF"
	ContainerSize40RF ContainerSize = "40RF"
)

// IsValid reports whether the size is known
func (s ContainerSize) IsValid() bool {
	switch s {
	case ContainerSize20GP, ContainerSize40GP, ContainerSize40HC, ContainerSize45HC, ContainerSize20RF, ContainerSize40RF:
		return true
	}
	return false
}

// ContainerStatus is the position of a container in its handling flow
type ContainerStatus string

const (
	// import flow
	ContainerStatusExpecting ContainerStatus = "expecting"
	ContainerStatusReceived  ContainerStatus = "received"
	ContainerStatusPutAway   ContainerStatus = "put_away"

	// export flow
	ContainerStatusAllocated  ContainerStatus = "allocated"
	ContainerStatusPickedUp   ContainerStatus = "picked_up"
	ContainerStatusDispatched ContainerStatus = "dispatched"
)

// containerTransitions whitelists status moves per booking direction
var containerTransitions = map[Direction]map[ContainerStatus]ContainerStatus{
	DirectionImport: {
		ContainerStatusExpecting: ContainerStatusReceived,
		ContainerStatusReceived:  ContainerStatusPutAway,
	},
	DirectionExport: {
		ContainerStatusAllocated: ContainerStatusPickedUp,
		ContainerStatusPickedUp:  ContainerStatusDispatched,
	},
}

// InitialStatus returns the status a new container of the direction starts in
func InitialStatus(d Direction) ContainerStatus {
	if d == DirectionExport {
		return ContainerStatusAllocated
	}
	return ContainerStatusExpecting
}

// TerminalStatus returns the final status for the direction
func TerminalStatus(d Direction) ContainerStatus {
	if d == DirectionExport {
		return ContainerStatusDispatched
	}
	return ContainerStatusPutAway
}

// CanTransition reports whether from -> to is allowed for the direction
func CanTransition(d Direction, from, to ContainerStatus) bool {
	next, ok := containerTransitions[d][from]
	return ok && next == to
}

// NextStatus returns the only status reachable from the given one, if any
func NextStatus(d Direction, from ContainerStatus) (ContainerStatus, bool) {
	next, ok := containerTransitions[d][from]
	return next, ok
}

// IsValidStatus reports whether the status belongs to the direction's flow
func IsValidStatus(d Direction, s ContainerStatus) bool {
	if s == InitialStatus(d) {
		return true
	}
	for _, to := range containerTransitions[d] {
		if to == s {
			return true
		}
	}
	return false
}

// Container is one physical container on a booking
type Container struct {
	shared.TenantAggregateRoot
	BookingID       uuid.UUID
	Direction       Direction
	ContainerNumber string
	Size            ContainerSize
	SealNumber      string
	TareWeightKg    decimal.Decimal
	GrossWeightKg   decimal.Decimal
	Status          ContainerStatus
	ReceivedAt      *time.Time
	PutAwayAt       *time.Time
	PickedUpAt      *time.Time
	DispatchedAt    *time.Time
}

// NewContainer adds a container to a booking in the direction's initial status
func NewContainer(booking *Booking, number string, size ContainerSize) (*Container, error) {
	if !booking.AcceptsContainers() {
		return nil, shared.NewDomainErrorf("INVALID_STATE", "Booking %s is %s and does not accept containers", booking.BookingNumber, booking.Status)
	}
	cn, err := valueobject.NewContainerNumber(number)
	if err != nil {
		return nil, err
	}
	if !size.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_SIZE", "Unknown container size %q", size)
	}
	return &Container{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(booking.TenantID),
		BookingID:           booking.ID,
		Direction:           booking.Direction,
		ContainerNumber:     cn.String(),
		Size:                size,
		TareWeightKg:        decimal.Zero,
		GrossWeightKg:       decimal.Zero,
		Status:              InitialStatus(booking.Direction),
	}, nil
}

// UpdateDetails changes physical attributes while the container is in its initial status
func (c *Container) UpdateDetails(size ContainerSize, sealNumber string, tareKg, grossKg decimal.Decimal) error {
	if !c.IsInitial() {
		return shared.NewDomainErrorf("INVALID_STATE", "Container %s can only be edited while %s", c.ContainerNumber, InitialStatus(c.Direction))
	}
	if !size.IsValid() {
		return shared.NewDomainErrorf("INVALID_SIZE", "Unknown container size %q", size)
	}
	if tareKg.IsNegative() || grossKg.IsNegative() {
		return shared.NewDomainError("INVALID_WEIGHT", "Weights cannot be negative")
	}
	if grossKg.IsPositive() && grossKg.LessThan(tareKg) {
		return shared.NewDomainError("INVALID_WEIGHT", "Gross weight cannot be less than tare weight")
	}
	c.Size = size
	c.SealNumber = sealNumber
	c.TareWeightKg = tareKg
	c.GrossWeightKg = grossKg
	c.Touch()
	return nil
}

// TransitionTo moves the container along its whitelist and records a status-changed event.
// Quantity reconciliation is checked by the caller before calling this.
func (c *Container) TransitionTo(target ContainerStatus, actor uuid.UUID) error {
	if !CanTransition(c.Direction, c.Status, target) {
		return shared.NewDomainErrorf(shared.ErrInvalidTransition.Code,
			"invalid status transition from %s to %s", c.Status, target)
	}
	from := c.Status
	now := time.Now()
	switch target {
	case ContainerStatusReceived:
		c.ReceivedAt = &now
	case ContainerStatusPutAway:
		c.PutAwayAt = &now
	case ContainerStatusPickedUp:
		c.PickedUpAt = &now
	case ContainerStatusDispatched:
		c.DispatchedAt = &now
	}
	c.Status = target
	c.Touch()
	c.AddDomainEvent(NewContainerStatusChangedEvent(c, from, actor))
	return nil
}

// IsInitial reports whether the container has not moved yet
func (c *Container) IsInitial() bool {
	return c.Status == InitialStatus(c.Direction)
}

// IsTerminal reports whether the container finished its flow
func (c *Container) IsTerminal() bool {
	return c.Status == TerminalStatus(c.Direction)
}

// EnsureStatus returns an invalid-state error unless the container is in s
func (c *Container) EnsureStatus(s ContainerStatus) error {
	if c.Status != s {
		return shared.NewDomainErrorf("INVALID_STATE", "Container %s must be %s (current status: %s)", c.ContainerNumber, s, c.Status)
	}
	return nil
}

// EnsureDirection returns an error unless the container belongs to direction d
func (c *Container) EnsureDirection(d Direction) error {
	if c.Direction != d {
		return shared.NewDomainErrorf("INVALID_DIRECTION", "Container %s is an %s container", c.ContainerNumber, c.Direction)
	}
	return nil
}

// CanDelete reports whether the container may be removed; dependents are checked by the caller
func (c *Container) CanDelete() bool {
	return c.IsInitial()
}
