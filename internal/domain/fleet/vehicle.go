package fleet

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
)

// VehicleType classifies vehicles
type VehicleType string

const (
	VehicleTypePrimeMover VehicleType = "prime_mover"
	VehicleTypeRigid      VehicleType = "rigid"
	VehicleTypeTrailer    VehicleType = "trailer"
	VehicleTypeVan        VehicleType = "van"
)

// IsValid reports whether the type is known
func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleTypePrimeMover, VehicleTypeRigid, VehicleTypeTrailer, VehicleTypeVan:
		return true
	}
	return false
}

// VehicleStatus represents a vehicle's availability
type VehicleStatus string

const (
	VehicleStatusAvailable   VehicleStatus = "available"
	VehicleStatusInUse       VehicleStatus = "in_use"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

// IsValid reports whether the status is known
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusInUse, VehicleStatusMaintenance, VehicleStatusRetired:
		return true
	}
	return false
}

// Vehicle is a truck or trailer used for dispatches
type Vehicle struct {
	shared.TenantAggregateRoot
	Registration string
	Type         VehicleType
	Make         string
	Model        string
	MaxPayloadKg decimal.Decimal
	Status       VehicleStatus
	Notes        string
}

// NewVehicle creates an available vehicle
func NewVehicle(tenantID uuid.UUID, registration string, vehicleType VehicleType) (*Vehicle, error) {
	reg := normalizeRegistration(registration)
	if reg == "" {
		return nil, shared.NewDomainError("INVALID_REGISTRATION", "Registration cannot be empty")
	}
	if len(reg) > 20 {
		return nil, shared.NewDomainError("INVALID_REGISTRATION", "Registration cannot exceed 20 characters")
	}
	if !vehicleType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_TYPE", "Unknown vehicle type %q", vehicleType)
	}
	return &Vehicle{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Registration:        reg,
		Type:                vehicleType,
		MaxPayloadKg:        decimal.Zero,
		Status:              VehicleStatusAvailable,
	}, nil
}

// Update changes descriptive fields
func (v *Vehicle) Update(vehicleType VehicleType, manufacturer, model string, maxPayloadKg decimal.Decimal, notes string) error {
	if !vehicleType.IsValid() {
		return shared.NewDomainErrorf("INVALID_TYPE", "Unknown vehicle type %q", vehicleType)
	}
	if maxPayloadKg.IsNegative() {
		return shared.NewDomainError("INVALID_PAYLOAD", "Max payload cannot be negative")
	}
	v.Type = vehicleType
	v.Make = strings.TrimSpace(manufacturer)
	v.Model = strings.TrimSpace(model)
	v.MaxPayloadKg = maxPayloadKg
	v.Notes = notes
	v.Touch()
	return nil
}

// SetStatus changes availability. in_use is reserved for dispatch start.
func (v *Vehicle) SetStatus(status VehicleStatus) error {
	if !status.IsValid() {
		return shared.NewDomainErrorf("INVALID_STATUS", "Unknown vehicle status %q", status)
	}
	if status == VehicleStatusInUse {
		return shared.NewDomainError("INVALID_STATUS", "Vehicles go in use when a dispatch starts")
	}
	if v.Status == VehicleStatusInUse {
		return shared.NewDomainError("VEHICLE_IN_USE", "Vehicle is on an active dispatch")
	}
	v.Status = status
	v.Touch()
	return nil
}

// EnsureAssignable checks the vehicle can take a dispatch
func (v *Vehicle) EnsureAssignable() error {
	if v.Status != VehicleStatusAvailable {
		return shared.NewDomainErrorf("VEHICLE_UNAVAILABLE", "Vehicle %s is %s", v.Registration, v.Status)
	}
	return nil
}

// PutInUse marks the vehicle as on the road
func (v *Vehicle) PutInUse() error {
	if err := v.EnsureAssignable(); err != nil {
		return err
	}
	v.Status = VehicleStatusInUse
	v.Touch()
	return nil
}

// Release returns the vehicle to available after a dispatch
func (v *Vehicle) Release() {
	if v.Status == VehicleStatusInUse {
		v.Status = VehicleStatusAvailable
		v.Touch()
	}
}

// CanDelete reports whether the vehicle may be removed
func (v *Vehicle) CanDelete() bool {
	return v.Status != VehicleStatusInUse
}

func normalizeRegistration(reg string) string {
	return strings.ToUpper(strings.Join(strings.Fields(reg), ""))
}
