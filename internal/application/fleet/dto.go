package fleet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/fleet"
)

// CreateDriverRequest is the input for creating a driver
type CreateDriverRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=100"`
	Phone         string     `json:"phone" binding:"max=50"`
	LicenseNumber string     `json:"license_number" binding:"required,min=1,max=50"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	Notes         string     `json:"notes" binding:"max=2000"`
}

// UpdateDriverRequest is the input for updating a driver. The license number is immutable.
type UpdateDriverRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Phone         *string    `json:"phone" binding:"omitempty,max=50"`
	LicenseExpiry *time.Time `json:"license_expiry"`
	Notes         *string    `json:"notes" binding:"omitempty,max=2000"`
}

// SetStatusRequest changes a driver's or vehicle's availability
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// DriverResponse is the API view of a driver
type DriverResponse struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone,omitempty"`
	LicenseNumber string     `json:"license_number"`
	LicenseExpiry *time.Time `json:"license_expiry,omitempty"`
	LicenseValid  bool       `json:"license_valid"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToDriverResponse maps a domain driver to its response
func ToDriverResponse(d *fleet.Driver) DriverResponse {
	return DriverResponse{
		ID:            d.ID,
		TenantID:      d.TenantID,
		Name:          d.Name,
		Phone:         d.Phone,
		LicenseNumber: d.LicenseNumber,
		LicenseExpiry: d.LicenseExpiry,
		LicenseValid:  d.LicenseValidAt(time.Now()),
		Status:        string(d.Status),
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// CreateVehicleRequest is the input for creating a vehicle
type CreateVehicleRequest struct {
	Registration string           `json:"registration" binding:"required,min=1,max=20"`
	Type         string           `json:"type" binding:"required,oneof=prime_mover rigid trailer van"`
	Make         string           `json:"make" binding:"max=100"`
	Model        string           `json:"model" binding:"max=100"`
	MaxPayloadKg *decimal.Decimal `json:"max_payload_kg"`
	Notes        string           `json:"notes" binding:"max=2000"`
}

// UpdateVehicleRequest is the input for updating a vehicle. The registration is immutable.
type UpdateVehicleRequest struct {
	Type         *string          `json:"type" binding:"omitempty,oneof=prime_mover rigid trailer van"`
	Make         *string          `json:"make" binding:"omitempty,max=100"`
	Model        *string          `json:"model" binding:"omitempty,max=100"`
	MaxPayloadKg *decimal.Decimal `json:"max_payload_kg"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
}

// VehicleResponse is the API view of a vehicle
type VehicleResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Registration string          `json:"registration"`
	Type         string          `json:"type"`
	Make         string          `json:"make,omitempty"`
	Model        string          `json:"model,omitempty"`
	MaxPayloadKg decimal.Decimal `json:"max_payload_kg"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToVehicleResponse maps a domain vehicle to its response
func ToVehicleResponse(v *fleet.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID,
		TenantID:     v.TenantID,
		Registration: v.Registration,
		Type:         string(v.Type),
		Make:         v.Make,
		Model:        v.Model,
		MaxPayloadKg: v.MaxPayloadKg,
		Status:       string(v.Status),
		Notes:        v.Notes,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
