package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/application/document"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
	"go.uber.org/zap"
)

// DeliveryNoteRepositories are the read models a delivery note is assembled from
type DeliveryNoteRepositories struct {
	Tenants     identity.TenantRepository
	Dispatches  dispatch.DispatchRepository
	Containers  freight.ContainerRepository
	Bookings    freight.BookingRepository
	Warehouses  warehouse.WarehouseRepository
	Drivers     fleet.DriverRepository
	Vehicles    fleet.VehicleRepository
	Allocations stock.AllocationRepository
	PutAways    stock.PutAwayRepository
}

// DeliveryNoteService renders delivery notes for dispatches
type DeliveryNoteService struct {
	repos       DeliveryNoteRepositories
	html        document.HTMLRenderer
	pdf         document.PDFRenderer
	storage     document.ObjectStorage
	companyName string
	logger      *zap.Logger
	now         func() time.Time
}

// NewDeliveryNoteService creates the service. With a nil pdf renderer or nil
// storage the note is returned as HTML.
func NewDeliveryNoteService(
	repos DeliveryNoteRepositories,
	html document.HTMLRenderer,
	pdf document.PDFRenderer,
	storage document.ObjectStorage,
	companyName string,
	logger *zap.Logger,
) *DeliveryNoteService {
	return &DeliveryNoteService{
		repos:       repos,
		html:        html,
		pdf:         pdf,
		storage:     storage,
		companyName: companyName,
		logger:      logger,
		now:         time.Now,
	}
}

// Generate renders the delivery note of a dispatch. As a PDF it is stored and
// the dispatch remembers its key; the caller gets a presigned link.
func (s *DeliveryNoteService) Generate(ctx context.Context, tenantID, dispatchID uuid.UUID) (*DeliveryNoteResponse, error) {
	d, err := s.repos.Dispatches.FindByIDForTenant(ctx, tenantID, dispatchID)
	if err != nil {
		return nil, err
	}
	if d.Status == dispatch.StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cancelled dispatches have no delivery note")
	}
	note, err := s.assemble(ctx, tenantID, d)
	if err != nil {
		return nil, err
	}

	html, err := s.html.RenderHTML(ctx, document.DeliveryNoteTemplate, note)
	if err != nil {
		return nil, fmt.Errorf("render delivery note: %w", err)
	}
	if s.pdf == nil || s.storage == nil {
		return &DeliveryNoteResponse{Format: FormatHTML, HTML: html}, nil
	}

	pdf, err := s.pdf.RenderPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render delivery note pdf: %w", err)
	}
	key := fmt.Sprintf("tenants/%s/dispatches/%s/%s.pdf", tenantID, d.ID, d.DispatchNumber)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(pdf), int64(len(pdf)), "application/pdf"); err != nil {
		return nil, fmt.Errorf("store delivery note: %w", err)
	}
	url, expiresAt, err := s.storage.DownloadURL(ctx, key, 0)
	if err != nil {
		return nil, fmt.Errorf("presign delivery note: %w", err)
	}

	if d.DeliveryNoteKey != key {
		d.AttachDeliveryNote(key)
		if err := s.repos.Dispatches.Save(ctx, d); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Delivery note generated",
		zap.String("dispatch_id", d.ID.String()),
		zap.String("key", key),
		zap.Int("bytes", len(pdf)),
	)
	return &DeliveryNoteResponse{Format: FormatPDF, Key: key, URL: url, ExpiresAt: &expiresAt}, nil
}

func (s *DeliveryNoteService) assemble(ctx context.Context, tenantID uuid.UUID, d *dispatch.Dispatch) (*document.DeliveryNote, error) {
	t, err := s.repos.Tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	c, err := s.repos.Containers.FindByIDForTenant(ctx, tenantID, d.ContainerID)
	if err != nil {
		return nil, err
	}
	b, err := s.repos.Bookings.FindByIDForTenant(ctx, tenantID, c.BookingID)
	if err != nil {
		return nil, err
	}
	wh, err := s.repos.Warehouses.FindByIDForTenant(ctx, tenantID, d.OriginWarehouseID)
	if err != nil {
		return nil, err
	}
	driver, err := s.repos.Drivers.FindByIDForTenant(ctx, tenantID, d.DriverID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.repos.Vehicles.FindByIDForTenant(ctx, tenantID, d.VehicleID)
	if err != nil {
		return nil, err
	}
	lines, total, err := s.lines(ctx, tenantID, c.ID)
	if err != nil {
		return nil, err
	}

	return &document.DeliveryNote{
		CompanyName:        s.companyName,
		TenantName:         t.Name,
		DispatchNumber:     d.DispatchNumber,
		Status:             string(d.Status),
		ScheduledAt:        d.ScheduledAt,
		StartedAt:          d.StartedAt,
		DeliveredAt:        d.DeliveredAt,
		DestinationAddress: d.DestinationAddress,
		Remarks:            d.Remarks,
		Origin: document.NoteWarehouse{
			Code:    wh.Code,
			Name:    wh.Name,
			Address: wh.Address,
			City:    wh.City,
			Country: wh.Country,
		},
		Booking: document.NoteBooking{
			Number:            b.BookingNumber,
			CustomerName:      b.CustomerName,
			CustomerReference: b.CustomerReference,
			VesselName:        b.VesselName,
			VoyageNumber:      b.VoyageNumber,
		},
		Container: document.NoteContainer{
			Number:        c.ContainerNumber,
			Size:          string(c.Size),
			SealNumber:    c.SealNumber,
			GrossWeightKg: c.GrossWeightKg,
		},
		Driver: document.NoteDriver{
			Name:          driver.Name,
			Phone:         driver.Phone,
			LicenseNumber: driver.LicenseNumber,
		},
		Vehicle: document.NoteVehicle{
			Registration: vehicle.Registration,
			Type:         string(vehicle.Type),
			Make:         vehicle.Make,
			Model:        vehicle.Model,
		},
		Lines:         lines,
		TotalQuantity: total,
		GeneratedAt:   s.now(),
	}, nil
}

// lines lists the container's allocations with the location they were picked from
func (s *DeliveryNoteService) lines(ctx context.Context, tenantID, containerID uuid.UUID) ([]document.NoteLine, decimal.Decimal, error) {
	filter := shared.Filter{
		Page:     1,
		PageSize: shared.MaxPageSize,
		OrderBy:  "created_at",
		OrderDir: "asc",
	}.With("container_id", containerID.String())
	allocs, err := s.repos.Allocations.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, decimal.Zero, err
	}

	total := decimal.Zero
	lines := make([]document.NoteLine, 0, len(allocs))
	for i := range allocs {
		source, err := s.repos.PutAways.FindByIDForTenant(ctx, tenantID, allocs[i].PutAwayStockID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lines = append(lines, document.NoteLine{
			SKU:          allocs[i].SKU,
			LocationCode: source.LocationCode,
			Quantity:     allocs[i].Quantity,
		})
		total = total.Add(allocs[i].Quantity)
	}
	return lines, total, nil
}
