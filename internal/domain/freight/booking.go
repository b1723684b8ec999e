package freight

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// Direction tells whether a booking brings goods in or ships them out
type Direction string

const (
	DirectionImport Direction = "import"
	DirectionExport Direction = "export"
)

// IsValid reports whether the direction is known
func (d Direction) IsValid() bool {
	return d == DirectionImport || d == DirectionExport
}

// NumberPrefix returns the booking number prefix for the direction
func (d Direction) NumberPrefix() string {
	if d == DirectionExport {
		return "EXP"
	}
	return "IMP"
}

// BookingStatus is the lifecycle status of a booking
type BookingStatus string

const (
	BookingStatusDraft      BookingStatus = "draft"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// BookingDetails holds the editable shipping fields of a booking
type BookingDetails struct {
	CustomerName      string
	CustomerReference string
	ShippingLine      string
	VesselName        string
	VoyageNumber      string
	PortOfLoading     string
	PortOfDischarge   string
	ETA               *time.Time
	ETD               *time.Time
	Remarks           string
}

// Booking is an import or export container job
type Booking struct {
	shared.TenantAggregateRoot
	BookingNumber string
	Direction     Direction
	WarehouseID   uuid.UUID
	BookingDetails
	Status      BookingStatus
	ConfirmedAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// FormatBookingNumber renders a booking number like IMP-20260131-0007
func FormatBookingNumber(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, day.Format("20060102"), seq)
}

// BookingNumberPrefix returns the per-day number prefix used to find the next sequence
func BookingNumberPrefix(prefix string, day time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, day.Format("20060102"))
}

// NewBooking creates a draft booking
func NewBooking(tenantID uuid.UUID, number string, direction Direction, warehouseID uuid.UUID, details BookingDetails) (*Booking, error) {
	if !direction.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_DIRECTION", "Unknown booking direction %q", direction)
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_BOOKING_NUMBER", "Booking number cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required")
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	b := &Booking{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BookingNumber:       number,
		Direction:           direction,
		WarehouseID:         warehouseID,
		BookingDetails:      trimDetails(details),
		Status:              BookingStatusDraft,
	}
	b.AddDomainEvent(NewBookingEvent(EventTypeBookingCreated, b))
	return b, nil
}

// Update replaces shipping details while the booking is not yet under way
func (b *Booking) Update(details BookingDetails) error {
	if b.Status != BookingStatusDraft && b.Status != BookingStatusConfirmed {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot edit a booking that is %s", b.Status)
	}
	if err := validateDetails(details); err != nil {
		return err
	}
	b.BookingDetails = trimDetails(details)
	b.Touch()
	return nil
}

// ChangeWarehouse moves a draft booking to another warehouse
func (b *Booking) ChangeWarehouse(warehouseID uuid.UUID) error {
	if b.Status != BookingStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Warehouse can only change while the booking is a draft")
	}
	if warehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required")
	}
	b.WarehouseID = warehouseID
	b.Touch()
	return nil
}

// Confirm commits a draft booking
func (b *Booking) Confirm() error {
	if b.Status != BookingStatusDraft {
		return shared.NewDomainErrorf("INVALID_STATE", "Only draft bookings can be confirmed (current status: %s)", b.Status)
	}
	now := time.Now()
	b.Status = BookingStatusConfirmed
	b.ConfirmedAt = &now
	b.Touch()
	b.AddDomainEvent(NewBookingEvent(EventTypeBookingConfirmed, b))
	return nil
}

// MarkInProgress records that container work has begun. It is a no-op once under way.
func (b *Booking) MarkInProgress() error {
	switch b.Status {
	case BookingStatusInProgress:
		return nil
	case BookingStatusConfirmed:
		b.Status = BookingStatusInProgress
		b.Touch()
		return nil
	}
	return shared.NewDomainErrorf("INVALID_STATE", "Booking %s must be confirmed before container work starts (current status: %s)", b.BookingNumber, b.Status)
}

// Cancel abandons a booking. containersStarted is true when any container has left its initial status.
func (b *Booking) Cancel(containersStarted bool) error {
	if b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot cancel a booking that is %s", b.Status)
	}
	if containersStarted {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a booking whose containers are already being handled")
	}
	now := time.Now()
	b.Status = BookingStatusCancelled
	b.CancelledAt = &now
	b.Touch()
	b.AddDomainEvent(NewBookingEvent(EventTypeBookingCancelled, b))
	return nil
}

// Complete closes the booking once every container reached its terminal status
func (b *Booking) Complete(containers []Container) error {
	if b.Status != BookingStatusConfirmed && b.Status != BookingStatusInProgress {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot complete a booking that is %s", b.Status)
	}
	if len(containers) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Booking has no containers")
	}
	var pending []string
	for i := range containers {
		if !containers[i].IsTerminal() {
			pending = append(pending, fmt.Sprintf("%s is %s", containers[i].ContainerNumber, containers[i].Status))
		}
	}
	if len(pending) > 0 {
		return shared.NewDomainError("CONTAINERS_PENDING", "All containers must be finished before completing the booking").
			WithDetails(pending...)
	}
	now := time.Now()
	b.Status = BookingStatusCompleted
	b.CompletedAt = &now
	b.Touch()
	b.AddDomainEvent(NewBookingEvent(EventTypeBookingCompleted, b))
	return nil
}

// AcceptsContainers reports whether containers can still be added
func (b *Booking) AcceptsContainers() bool {
	return b.Status == BookingStatusDraft || b.Status == BookingStatusConfirmed || b.Status == BookingStatusInProgress
}

// CanDelete reports whether the booking may be removed
func (b *Booking) CanDelete() bool {
	return b.Status == BookingStatusDraft
}

func validateDetails(d BookingDetails) error {
	if strings.TrimSpace(d.CustomerName) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot be empty")
	}
	if len(d.CustomerName) > 200 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name cannot exceed 200 characters")
	}
	if d.ETA != nil && d.ETD != nil && d.ETA.Before(*d.ETD) {
		return shared.NewDomainError("INVALID_SCHEDULE", "ETA cannot be before ETD")
	}
	return nil
}

func trimDetails(d BookingDetails) BookingDetails {
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.CustomerReference = strings.TrimSpace(d.CustomerReference)
	d.ShippingLine = strings.TrimSpace(d.ShippingLine)
	d.VesselName = strings.TrimSpace(d.VesselName)
	d.VoyageNumber = strings.TrimSpace(d.VoyageNumber)
	d.PortOfLoading = strings.ToUpper(strings.TrimSpace(d.PortOfLoading))
	d.PortOfDischarge = strings.ToUpper(strings.TrimSpace(d.PortOfDischarge))
	return d
}
