package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activeDispatchStatuses hold a driver, vehicle and container
var activeDispatchStatuses = []dispatch.Status{dispatch.StatusPlanned, dispatch.StatusInTransit}

// GormDispatchRepository implements dispatch.DispatchRepository using GORM
type GormDispatchRepository struct {
	db *gorm.DB
}

// NewGormDispatchRepository creates a new GormDispatchRepository
func NewGormDispatchRepository(db *gorm.DB) *GormDispatchRepository {
	return &GormDispatchRepository{db: db}
}

// FindByIDForTenant finds a dispatch by ID within a tenant
func (r *GormDispatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*dispatch.Dispatch, error) {
	var model models.DispatchModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Dispatch")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a dispatch and locks its row until the transaction ends
func (r *GormDispatchRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*dispatch.Dispatch, error) {
	var model models.DispatchModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Dispatch")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists dispatches of a tenant
func (r *GormDispatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]dispatch.Dispatch, error) {
	var dispatchModels []models.DispatchModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DispatchModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, DispatchSortFields, "scheduled_at")
	if err := query.Find(&dispatchModels).Error; err != nil {
		return nil, err
	}
	dispatches := make([]dispatch.Dispatch, len(dispatchModels))
	for i, model := range dispatchModels {
		dispatches[i] = *model.ToDomain()
	}
	return dispatches, nil
}

// CountForTenant counts dispatches of a tenant matching the filter
func (r *GormDispatchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DispatchModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsActiveForContainer reports a planned or in-transit dispatch for the container
func (r *GormDispatchRepository) ExistsActiveForContainer(ctx context.Context, tenantID, containerID, excludeID uuid.UUID) (bool, error) {
	query := r.activeQuery(ctx, tenantID).Where("container_id = ?", containerID)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActiveByDriver counts planned or in-transit dispatches of a driver
func (r *GormDispatchRepository) CountActiveByDriver(ctx context.Context, tenantID, driverID uuid.UUID) (int64, error) {
	var count int64
	if err := r.activeQuery(ctx, tenantID).Where("driver_id = ?", driverID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByVehicle counts planned or in-transit dispatches of a vehicle
func (r *GormDispatchRepository) CountActiveByVehicle(ctx context.Context, tenantID, vehicleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.activeQuery(ctx, tenantID).Where("vehicle_id = ?", vehicleID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// LastNumberWithPrefix returns the highest dispatch number starting with prefix
func (r *GormDispatchRepository) LastNumberWithPrefix(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return lastNumber(r.db.WithContext(ctx).Model(&models.DispatchModel{}).Scopes(tenant.Scope(tenantID)),
		"dispatch_number", prefix)
}

// CountByStatus groups dispatches by status
func (r *GormDispatchRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]dispatch.StatusCount, error) {
	var counts []dispatch.StatusCount
	if err := r.db.WithContext(ctx).Model(&models.DispatchModel{}).Scopes(tenant.Scope(tenantID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save creates or updates a dispatch
func (r *GormDispatchRepository) Save(ctx context.Context, d *dispatch.Dispatch) error {
	return translate(r.db.WithContext(ctx).Save(models.DispatchModelFromDomain(d)).Error, "Dispatch")
}

// DeleteForTenant deletes a dispatch within a tenant
func (r *GormDispatchRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.DispatchModel{}, "id = ?", id), "Dispatch")
}

func (r *GormDispatchRepository) activeQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.DispatchModel{}).Scopes(tenant.Scope(tenantID)).
		Where("status IN ?", activeDispatchStatuses)
}

func (r *GormDispatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "dispatch_number", "destination_address")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "container_id":
			query = query.Where("container_id = ?", value)
		case "driver_id":
			query = query.Where("driver_id = ?", value)
		case "vehicle_id":
			query = query.Where("vehicle_id = ?", value)
		}
	}
	return query
}

var _ dispatch.DispatchRepository = (*GormDispatchRepository)(nil)
