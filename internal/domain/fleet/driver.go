package fleet

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// DriverStatus represents a driver's availability
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusOnDuty    DriverStatus = "on_duty"
	DriverStatusOffDuty   DriverStatus = "off_duty"
	DriverStatusInactive  DriverStatus = "inactive"
)

// IsValid reports whether the status is known
func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverStatusAvailable, DriverStatusOnDuty, DriverStatusOffDuty, DriverStatusInactive:
		return true
	}
	return false
}

// Driver is a truck driver who can be assigned to dispatches
type Driver struct {
	shared.TenantAggregateRoot
	Name          string
	Phone         string
	LicenseNumber string
	LicenseExpiry *time.Time
	Status        DriverStatus
	Notes         string
}

// NewDriver creates an available driver
func NewDriver(tenantID uuid.UUID, name, licenseNumber string) (*Driver, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Driver name cannot be empty")
	}
	license := strings.ToUpper(strings.TrimSpace(licenseNumber))
	if license == "" {
		return nil, shared.NewDomainError("INVALID_LICENSE", "License number cannot be empty")
	}
	return &Driver{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		LicenseNumber:       license,
		Status:              DriverStatusAvailable,
	}, nil
}

// Update changes the driver's details
func (d *Driver) Update(name, phone string, licenseExpiry *time.Time, notes string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Driver name cannot be empty")
	}
	d.Name = strings.TrimSpace(name)
	d.Phone = strings.TrimSpace(phone)
	d.LicenseExpiry = licenseExpiry
	d.Notes = notes
	d.Touch()
	return nil
}

// SetStatus changes availability. on_duty is reserved for dispatch start.
func (d *Driver) SetStatus(status DriverStatus) error {
	if !status.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Unknown driver status %q", status)
	}
	if status == DriverStatusOnDuty {
		return shared.NewDomainError("INVALID_STATUS", "Drivers go on duty when a dispatch starts")
	}
	if d.Status == DriverStatusOnDuty {
		return shared.NewDomainError("DRIVER_ON_DUTY", "Driver is on an active dispatch")
	}
	d.Status = status
	d.Touch()
	return nil
}

// LicenseValidAt reports whether the license is unexpired at t. A missing expiry counts as valid.
func (d *Driver) LicenseValidAt(t time.Time) bool {
	return d.LicenseExpiry == nil || !d.LicenseExpiry.Before(t)
}

// EnsureAssignable checks the driver can take a dispatch scheduled at t
func (d *Driver) EnsureAssignable(t time.Time) error {
	if d.Status != DriverStatusAvailable {
		return shared.NewDomainErrorf("DRIVER_UNAVAILABLE", "Driver %s is %s", d.Name, d.Status)
	}
	if !d.LicenseValidAt(t) {
		return shared.NewDomainErrorf("LICENSE_EXPIRED", "Driver %s has an expired license", d.Name)
	}
	return nil
}

// GoOnDuty marks the driver as driving a dispatch
func (d *Driver) GoOnDuty() error {
	if d.Status != DriverStatusAvailable {
		return shared.NewDomainErrorf("DRIVER_UNAVAILABLE", "Driver %s is %s", d.Name, d.Status)
	}
	d.Status = DriverStatusOnDuty
	d.Touch()
	return nil
}

// Release returns the driver to available after a dispatch
func (d *Driver) Release() {
	if d.Status == DriverStatusOnDuty {
		d.Status = DriverStatusAvailable
		d.Touch()
	}
}

// CanDelete reports whether the driver may be removed
func (d *Driver) CanDelete() bool {
	return d.Status != DriverStatusOnDuty
}
