package dispatch

import (
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/dispatch"
)

// CreateDispatchRequest plans a dispatch for a picked-up export container
type CreateDispatchRequest struct {
	ContainerID        uuid.UUID `json:"container_id" binding:"required"`
	DriverID           uuid.UUID `json:"driver_id" binding:"required"`
	VehicleID          uuid.UUID `json:"vehicle_id" binding:"required"`
	DestinationAddress string    `json:"destination_address" binding:"required,min=1,max=500"`
	ScheduledAt        time.Time `json:"scheduled_at" binding:"required"`
	Remarks            string    `json:"remarks" binding:"max=5000"`
}

// UpdateDispatchRequest changes a planned dispatch
type UpdateDispatchRequest struct {
	DriverID           *uuid.UUID `json:"driver_id"`
	VehicleID          *uuid.UUID `json:"vehicle_id"`
	DestinationAddress *string    `json:"destination_address" binding:"omitempty,min=1,max=500"`
	ScheduledAt        *time.Time `json:"scheduled_at"`
	Remarks            *string    `json:"remarks" binding:"omitempty,max=5000"`
}

// DispatchResponse is the API view of a dispatch
type DispatchResponse struct {
	ID                 uuid.UUID  `json:"id"`
	TenantID           uuid.UUID  `json:"tenant_id"`
	DispatchNumber     string     `json:"dispatch_number"`
	ContainerID        uuid.UUID  `json:"container_id"`
	DriverID           uuid.UUID  `json:"driver_id"`
	VehicleID          uuid.UUID  `json:"vehicle_id"`
	OriginWarehouseID  uuid.UUID  `json:"origin_warehouse_id"`
	DestinationAddress string     `json:"destination_address"`
	ScheduledAt        time.Time  `json:"scheduled_at"`
	Remarks            string     `json:"remarks,omitempty"`
	Status             string     `json:"status"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	DeliveryNoteKey    string     `json:"delivery_note_key,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToDispatchResponse maps a domain dispatch to its response
func ToDispatchResponse(d *dispatch.Dispatch) DispatchResponse {
	return DispatchResponse{
		ID:                 d.ID,
		TenantID:           d.TenantID,
		DispatchNumber:     d.DispatchNumber,
		ContainerID:        d.ContainerID,
		DriverID:           d.DriverID,
		VehicleID:          d.VehicleID,
		OriginWarehouseID:  d.OriginWarehouseID,
		DestinationAddress: d.DestinationAddress,
		ScheduledAt:        d.ScheduledAt,
		Remarks:            d.Remarks,
		Status:             string(d.Status),
		StartedAt:          d.StartedAt,
		DeliveredAt:        d.DeliveredAt,
		CancelledAt:        d.CancelledAt,
		DeliveryNoteKey:    d.DeliveryNoteKey,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// Delivery note formats
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
)

// DeliveryNoteResponse is a rendered delivery note: a stored PDF with a download
// link, or the HTML itself when PDF rendering is disabled.
type DeliveryNoteResponse struct {
	Format    string     `json:"format"`
	Key       string     `json:"key,omitempty"`
	URL       string     `json:"url,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	HTML      string     `json:"html,omitempty"`
}
