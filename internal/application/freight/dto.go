package freight

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/freight"
)

// BookingDetailsInput holds the editable shipping fields of a booking
type BookingDetailsInput struct {
	CustomerName      string     `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerReference string     `json:"customer_reference" binding:"max=100"`
	ShippingLine      string     `json:"shipping_line" binding:"max=100"`
	VesselName        string     `json:"vessel_name" binding:"max=100"`
	VoyageNumber      string     `json:"voyage_number" binding:"max=50"`
	PortOfLoading     string     `json:"port_of_loading" binding:"max=10"`
	PortOfDischarge   string     `json:"port_of_discharge" binding:"max=10"`
	ETA               *time.Time `json:"eta"`
	ETD               *time.Time `json:"etd"`
	Remarks           string     `json:"remarks" binding:"max=5000"`
}

func (in BookingDetailsInput) toDomain() freight.BookingDetails {
	return freight.BookingDetails{
		CustomerName:      in.CustomerName,
		CustomerReference: in.CustomerReference,
		ShippingLine:      in.ShippingLine,
		VesselName:        in.VesselName,
		VoyageNumber:      in.VoyageNumber,
		PortOfLoading:     in.PortOfLoading,
		PortOfDischarge:   in.PortOfDischarge,
		ETA:               in.ETA,
		ETD:               in.ETD,
		Remarks:           in.Remarks,
	}
}

// CreateBookingRequest is the input for creating a booking
type CreateBookingRequest struct {
	Direction   string    `json:"direction" binding:"required,oneof=import export"`
	WarehouseID uuid.UUID `json:"warehouse_id" binding:"required"`
	BookingDetailsInput
}

// UpdateBookingRequest replaces the shipping fields. WarehouseID may only change on drafts.
type UpdateBookingRequest struct {
	WarehouseID *uuid.UUID `json:"warehouse_id"`
	BookingDetailsInput
}

// BookingResponse is the API view of a booking
type BookingResponse struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	BookingNumber     string     `json:"booking_number"`
	Direction         string     `json:"direction"`
	WarehouseID       uuid.UUID  `json:"warehouse_id"`
	CustomerName      string     `json:"customer_name"`
	CustomerReference string     `json:"customer_reference,omitempty"`
	ShippingLine      string     `json:"shipping_line,omitempty"`
	VesselName        string     `json:"vessel_name,omitempty"`
	VoyageNumber      string     `json:"voyage_number,omitempty"`
	PortOfLoading     string     `json:"port_of_loading,omitempty"`
	PortOfDischarge   string     `json:"port_of_discharge,omitempty"`
	ETA               *time.Time `json:"eta,omitempty"`
	ETD               *time.Time `json:"etd,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
	Status            string     `json:"status"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToBookingResponse maps a domain booking to its response
func ToBookingResponse(b *freight.Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		TenantID:          b.TenantID,
		BookingNumber:     b.BookingNumber,
		Direction:         string(b.Direction),
		WarehouseID:       b.WarehouseID,
		CustomerName:      b.CustomerName,
		CustomerReference: b.CustomerReference,
		ShippingLine:      b.ShippingLine,
		VesselName:        b.VesselName,
		VoyageNumber:      b.VoyageNumber,
		PortOfLoading:     b.PortOfLoading,
		PortOfDischarge:   b.PortOfDischarge,
		ETA:               b.ETA,
		ETD:               b.ETD,
		Remarks:           b.Remarks,
		Status:            string(b.Status),
		ConfirmedAt:       b.ConfirmedAt,
		CompletedAt:       b.CompletedAt,
		CancelledAt:       b.CancelledAt,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// AttachmentResponse describes a stored booking attachment
type AttachmentResponse struct {
	Key         string    `json:"key"`
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	URL         string    `json:"url,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateContainerRequest is the input for adding a container to a booking
type CreateContainerRequest struct {
	BookingID       uuid.UUID        `json:"booking_id" binding:"required"`
	ContainerNumber string           `json:"container_number" binding:"required,container_no"`
	Size            string           `json:"size" binding:"required,oneof=20GP 40GP 40HC 45HC 20RF 40RF"`
	SealNumber      string           `json:"seal_number" binding:"max=50"`
	TareWeightKg    *decimal.Decimal `json:"tare_weight_kg"`
	GrossWeightKg   *decimal.Decimal `json:"gross_weight_kg"`
}

// UpdateContainerRequest changes the physical attributes of a container
type UpdateContainerRequest struct {
	Size          *string          `json:"size" binding:"omitempty,oneof=20GP 40GP 40HC 45HC 20RF 40RF"`
	SealNumber    *string          `json:"seal_number" binding:"omitempty,max=50"`
	TareWeightKg  *decimal.Decimal `json:"tare_weight_kg"`
	GrossWeightKg *decimal.Decimal `json:"gross_weight_kg"`
}

// ChangeStatusRequest moves a container to the next status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ContainerResponse is the API view of a container
type ContainerResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	BookingID       uuid.UUID       `json:"booking_id"`
	Direction       string          `json:"direction"`
	ContainerNumber string          `json:"container_number"`
	Size            string          `json:"size"`
	SealNumber      string          `json:"seal_number,omitempty"`
	TareWeightKg    decimal.Decimal `json:"tare_weight_kg"`
	GrossWeightKg   decimal.Decimal `json:"gross_weight_kg"`
	Status          string          `json:"status"`
	NextStatus      string          `json:"next_status,omitempty"`
	ReceivedAt      *time.Time      `json:"received_at,omitempty"`
	PutAwayAt       *time.Time      `json:"put_away_at,omitempty"`
	PickedUpAt      *time.Time      `json:"picked_up_at,omitempty"`
	DispatchedAt    *time.Time      `json:"dispatched_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToContainerResponse maps a domain container to its response
func ToContainerResponse(c *freight.Container) ContainerResponse {
	resp := ContainerResponse{
		ID:              c.ID,
		TenantID:        c.TenantID,
		BookingID:       c.BookingID,
		Direction:       string(c.Direction),
		ContainerNumber: c.ContainerNumber,
		Size:            string(c.Size),
		SealNumber:      c.SealNumber,
		TareWeightKg:    c.TareWeightKg,
		GrossWeightKg:   c.GrossWeightKg,
		Status:          string(c.Status),
		ReceivedAt:      c.ReceivedAt,
		PutAwayAt:       c.PutAwayAt,
		PickedUpAt:      c.PickedUpAt,
		DispatchedAt:    c.DispatchedAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	if next, ok := freight.NextStatus(c.Direction, c.Status); ok {
		resp.NextStatus = string(next)
	}
	return resp
}

// StatusHistoryResponse is one entry of a container's status history
type StatusHistoryResponse struct {
	ID         uuid.UUID  `json:"id"`
	FromStatus string     `json:"from_status"`
	ToStatus   string     `json:"to_status"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	ChangedAt  time.Time  `json:"changed_at"`
}

// ToStatusHistoryResponse maps a history entry to its response
func ToStatusHistoryResponse(h *freight.StatusHistory) StatusHistoryResponse {
	return StatusHistoryResponse{
		ID:         h.ID,
		FromStatus: string(h.FromStatus),
		ToStatus:   string(h.ToStatus),
		ActorID:    h.ActorID,
		ChangedAt:  h.ChangedAt,
	}
}

// ProductLineInput holds the descriptive fields of a product line
type ProductLineInput struct {
	Description string           `json:"description" binding:"max=500"`
	Unit        string           `json:"unit" binding:"required,oneof=pcs ctn plt kg"`
	WeightKg    *decimal.Decimal `json:"weight_kg"`
	CBM         *decimal.Decimal `json:"cbm"`
	BatchNumber string           `json:"batch_number" binding:"max=100"`
	ExpiryDate  *time.Time       `json:"expiry_date"`
}

func (in ProductLineInput) toDomain() freight.ProductLineDetails {
	d := freight.ProductLineDetails{
		Description: in.Description,
		Unit:        freight.Unit(in.Unit),
		WeightKg:    decimal.Zero,
		CBM:         decimal.Zero,
		BatchNumber: in.BatchNumber,
		ExpiryDate:  in.ExpiryDate,
	}
	if in.WeightKg != nil {
		d.WeightKg = *in.WeightKg
	}
	if in.CBM != nil {
		d.CBM = *in.CBM
	}
	return d
}

// CreateProductLineRequest is the input for adding a product line to an import container
type CreateProductLineRequest struct {
	ContainerID      uuid.UUID       `json:"container_id" binding:"required"`
	SKU              string          `json:"sku" binding:"required,min=1,max=100"`
	ExpectedQuantity decimal.Decimal `json:"expected_quantity"`
	ProductLineInput
}

// UpdateProductLineRequest changes a product line. ReceivedQuantity is only accepted once
// the container is received; the other fields only before that.
type UpdateProductLineRequest struct {
	ExpectedQuantity *decimal.Decimal  `json:"expected_quantity"`
	ReceivedQuantity *decimal.Decimal  `json:"received_quantity"`
	Details          *ProductLineInput `json:"details"`
}

// ProductLineResponse is the API view of a product line
type ProductLineResponse struct {
	ID               uuid.UUID        `json:"id"`
	TenantID         uuid.UUID        `json:"tenant_id"`
	ContainerID      uuid.UUID        `json:"container_id"`
	SKU              string           `json:"sku"`
	Description      string           `json:"description,omitempty"`
	Unit             string           `json:"unit"`
	ExpectedQuantity decimal.Decimal  `json:"expected_quantity"`
	ReceivedQuantity *decimal.Decimal `json:"received_quantity,omitempty"`
	WeightKg         decimal.Decimal  `json:"weight_kg"`
	CBM              decimal.Decimal  `json:"cbm"`
	BatchNumber      string           `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time       `json:"expiry_date,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// ToProductLineResponse maps a domain product line to its response
func ToProductLineResponse(p *freight.ProductLine) ProductLineResponse {
	return ProductLineResponse{
		ID:               p.ID,
		TenantID:         p.TenantID,
		ContainerID:      p.ContainerID,
		SKU:              p.SKU,
		Description:      p.Description,
		Unit:             string(p.Unit),
		ExpectedQuantity: p.ExpectedQuantity,
		ReceivedQuantity: p.ReceivedQuantity,
		WeightKg:         p.WeightKg,
		CBM:              p.CBM,
		BatchNumber:      p.BatchNumber,
		ExpiryDate:       p.ExpiryDate,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
