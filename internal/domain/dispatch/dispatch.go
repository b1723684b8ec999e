package dispatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
)

// Status is the lifecycle status of a dispatch
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// NumberPrefix is the prefix of every dispatch number
const NumberPrefix = "DSP"

// Details holds the editable fields of a planned dispatch
type Details struct {
	DestinationAddress string
	ScheduledAt        time.Time
	Remarks            string
}

// Dispatch moves one picked export container out of a warehouse
type Dispatch struct {
	shared.TenantAggregateRoot
	DispatchNumber    string
	ContainerID       uuid.UUID
	DriverID          uuid.UUID
	VehicleID         uuid.UUID
	OriginWarehouseID uuid.UUID
	Details
	Status          Status
	StartedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	DeliveryNoteKey string
}

// FormatNumber renders a dispatch number like DSP-20260131-0003
func FormatNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", NumberPrefix, day.Format("20060102"), seq)
}

// NumberDayPrefix returns the per-day number prefix used to find the next sequence
func NumberDayPrefix(day time.Time) string {
	return fmt.Sprintf("%s-%s-", NumberPrefix, day.Format("20060102"))
}

// NewDispatch plans a dispatch for a picked-up export container
func NewDispatch(
	number string,
	container *freight.Container,
	booking *freight.Booking,
	driver *fleet.Driver,
	vehicle *fleet.Vehicle,
	details Details,
) (*Dispatch, error) {
	if err := container.EnsureDirection(freight.DirectionExport); err != nil {
		return nil, err
	}
	if err := container.EnsureStatus(freight.ContainerStatusPickedUp); err != nil {
		return nil, err
	}
	if booking.ID != container.BookingID {
		return nil, shared.NewDomainError("INVALID_BOOKING", "Booking does not match the container")
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}
	if err := checkCrew(driver, vehicle, details.ScheduledAt); err != nil {
		return nil, err
	}
	d := &Dispatch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(container.TenantID),
		DispatchNumber:      number,
		ContainerID:         container.ID,
		DriverID:            driver.ID,
		VehicleID:           vehicle.ID,
		OriginWarehouseID:   booking.WarehouseID,
		Details:             trimDetails(details),
		Status:              StatusPlanned,
	}
	d.AddDomainEvent(NewDispatchEvent(EventTypeDispatchPlanned, d))
	return d, nil
}

// Update changes the details of a planned dispatch
func (d *Dispatch) Update(details Details) error {
	if err := d.ensurePlanned("edit"); err != nil {
		return err
	}
	if err := validateDetails(details); err != nil {
		return err
	}
	d.Details = trimDetails(details)
	d.Touch()
	return nil
}

// Reassign swaps the driver or vehicle of a planned dispatch
func (d *Dispatch) Reassign(driver *fleet.Driver, vehicle *fleet.Vehicle) error {
	if err := d.ensurePlanned("reassign"); err != nil {
		return err
	}
	if err := checkCrew(driver, vehicle, d.ScheduledAt); err != nil {
		return err
	}
	d.DriverID = driver.ID
	d.VehicleID = vehicle.ID
	d.Touch()
	return nil
}

// Start puts the dispatch on the road. The driver goes on duty and the vehicle into use;
// the caller moves the container and its allocations to dispatched.
func (d *Dispatch) Start(driver *fleet.Driver, vehicle *fleet.Vehicle) error {
	if err := d.ensurePlanned("start"); err != nil {
		return err
	}
	if driver.ID != d.DriverID || vehicle.ID != d.VehicleID {
		return shared.NewDomainError("INVALID_CREW", "Driver or vehicle does not match the dispatch")
	}
	now := time.Now()
	if !driver.LicenseValidAt(now) {
		return shared.NewDomainErrorf("LICENSE_EXPIRED", "Driver %s has an expired license", driver.Name)
	}
	if err := driver.GoOnDuty(); err != nil {
		return err
	}
	if err := vehicle.PutInUse(); err != nil {
		return err
	}
	d.Status = StatusInTransit
	d.StartedAt = &now
	d.Touch()
	d.AddDomainEvent(NewDispatchEvent(EventTypeDispatchStarted, d))
	return nil
}

// Complete records delivery and frees the driver and vehicle
func (d *Dispatch) Complete(driver *fleet.Driver, vehicle *fleet.Vehicle) error {
	if d.Status != StatusInTransit {
		return shared.NewDomainErrorf("INVALID_STATE", "Only in-transit dispatches can be completed (current status: %s)", d.Status)
	}
	if driver.ID != d.DriverID || vehicle.ID != d.VehicleID {
		return shared.NewDomainError("INVALID_CREW", "Driver or vehicle does not match the dispatch")
	}
	now := time.Now()
	driver.Release()
	vehicle.Release()
	d.Status = StatusDelivered
	d.DeliveredAt = &now
	d.Touch()
	d.AddDomainEvent(NewDispatchEvent(EventTypeDispatchDelivered, d))
	return nil
}

// Cancel abandons a planned dispatch
func (d *Dispatch) Cancel() error {
	if err := d.ensurePlanned("cancel"); err != nil {
		return err
	}
	now := time.Now()
	d.Status = StatusCancelled
	d.CancelledAt = &now
	d.Touch()
	d.AddDomainEvent(NewDispatchEvent(EventTypeDispatchCancelled, d))
	return nil
}

// AttachDeliveryNote records the storage key of the rendered delivery note
func (d *Dispatch) AttachDeliveryNote(key string) {
	d.DeliveryNoteKey = key
	d.Touch()
}

// IsActive reports whether the dispatch still holds its container
func (d *Dispatch) IsActive() bool {
	return d.Status == StatusPlanned || d.Status == StatusInTransit
}

// CanDelete reports whether the dispatch may be removed
func (d *Dispatch) CanDelete() bool {
	return d.Status == StatusPlanned || d.Status == StatusCancelled
}

func (d *Dispatch) ensurePlanned(action string) error {
	if d.Status != StatusPlanned {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot %s a dispatch that is %s", action, d.Status)
	}
	return nil
}

func checkCrew(driver *fleet.Driver, vehicle *fleet.Vehicle, at time.Time) error {
	if err := driver.EnsureAssignable(at); err != nil {
		return err
	}
	return vehicle.EnsureAssignable()
}

func validateDetails(d Details) error {
	if strings.TrimSpace(d.DestinationAddress) == "" {
		return shared.NewDomainError("INVALID_DESTINATION", "Destination address is required")
	}
	if len(d.DestinationAddress) > 500 {
		return shared.NewDomainError("INVALID_DESTINATION", "Destination address cannot exceed 500 characters")
	}
	if d.ScheduledAt.IsZero() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}
	return nil
}

func trimDetails(d Details) Details {
	d.DestinationAddress = strings.TrimSpace(d.DestinationAddress)
	d.Remarks = strings.TrimSpace(d.Remarks)
	return d
}
