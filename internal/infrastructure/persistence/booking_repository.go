package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBookingRepository implements freight.BookingRepository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByIDForTenant finds a booking by ID within a tenant
func (r *GormBookingRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*freight.Booking, error) {
	var model models.ContainerBookingModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Booking")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a booking and locks its row until the transaction ends
func (r *GormBookingRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*freight.Booking, error) {
	var model models.ContainerBookingModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Booking")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists bookings of a tenant
func (r *GormBookingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]freight.Booking, error) {
	var bookingModels []models.ContainerBookingModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContainerBookingModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, BookingSortFields, "created_at")
	if err := query.Find(&bookingModels).Error; err != nil {
		return nil, err
	}
	bookings := make([]freight.Booking, len(bookingModels))
	for i, model := range bookingModels {
		bookings[i] = *model.ToDomain()
	}
	return bookings, nil
}

// CountForTenant counts bookings of a tenant matching the filter
func (r *GormBookingRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContainerBookingModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LastNumberWithPrefix returns the highest booking number starting with prefix.
// Numbers share a fixed-width suffix, so string order is sequence order.
func (r *GormBookingRepository) LastNumberWithPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return lastNumber(r.db.WithContext(ctx).Model(&models.ContainerBookingModel{}).Scopes(tenant.Scope(tenantID)),
		"booking_number", prefix)
}

// CountByWarehouse counts open bookings that reference a warehouse
func (r *GormBookingRepository) CountByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ContainerBookingModel{}).Scopes(tenant.Scope(tenantID)).
		Where("warehouse_id = ?", warehouseID).
		Where("status NOT IN ?", []freight.BookingStatus{freight.BookingStatusCompleted, freight.BookingStatusCancelled}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus groups bookings by direction and status
func (r *GormBookingRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]freight.StatusCount, error) {
	var counts []freight.StatusCount
	if err := r.db.WithContext(ctx).Model(&models.ContainerBookingModel{}).Scopes(tenant.Scope(tenantID)).
		Select("direction, status, COUNT(*) AS count").
		Group("direction, status").
		Order("direction, status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save creates or updates a booking
func (r *GormBookingRepository) Save(ctx context.Context, b *freight.Booking) error {
	return translate(r.db.WithContext(ctx).Save(models.ContainerBookingModelFromDomain(b)).Error, "Booking")
}

// DeleteForTenant deletes a booking within a tenant
func (r *GormBookingRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.ContainerBookingModel{}, "id = ?", id), "Booking")
}

func (r *GormBookingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "booking_number", "customer_name", "customer_reference", "vessel_name")
	for key, value := range filter.Filters {
		switch key {
		case "direction":
			query = query.Where("direction = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		}
	}
	return query
}

var _ freight.BookingRepository = (*GormBookingRepository)(nil)
