package freight

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
)

// StatusCount is a grouped count used by dashboards
type StatusCount struct {
	Direction string
	Status    string
	Count     int64
}

// BookingRepository defines persistence for container bookings
type BookingRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error)
	// FindByIDForUpdate loads and row-locks a booking inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Booking, error)
	// FindAllForTenant lists bookings; supports "direction", "status" and "warehouse_id" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Booking, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	// LastNumberWithPrefix returns the highest booking number starting with prefix, or "" when none
	LastNumberWithPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
	// CountByWarehouse counts open bookings that reference a warehouse
	CountByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)
	Save(ctx context.Context, b *Booking) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ContainerRepository defines persistence for container details
type ContainerRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Container, error)
	// FindByIDForUpdate loads and row-locks a container inside a transaction
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Container, error)
	// FindAllForTenant lists containers; supports "booking_id", "direction" and "status" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Container, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]Container, error)
	// ExistsOpenNumber reports whether a non-terminal container already uses the number
	ExistsOpenNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID uuid.UUID) (bool, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]StatusCount, error)
	Save(ctx context.Context, c *Container) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProductLineRepository defines persistence for product lines
type ProductLineRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ProductLine, error)
	// FindAllForTenant lists product lines; supports "container_id" and "sku" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ProductLine, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindByContainer(ctx context.Context, tenantID, containerID uuid.UUID) ([]ProductLine, error)
	CountByContainer(ctx context.Context, tenantID, containerID uuid.UUID) (int64, error)
	Save(ctx context.Context, p *ProductLine) error
	SaveBatch(ctx context.Context, lines []ProductLine) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// StatusHistoryRepository stores container status changes
type StatusHistoryRepository interface {
	Append(ctx context.Context, h *StatusHistory) error
	FindByContainer(ctx context.Context, tenantID, containerID uuid.UUID) ([]StatusHistory, error)
}
