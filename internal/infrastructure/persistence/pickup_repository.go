package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormPickupRepository implements stock.PickupRepository using GORM
type GormPickupRepository struct {
	db *gorm.DB
}

// NewGormPickupRepository creates a new GormPickupRepository
func NewGormPickupRepository(db *gorm.DB) *GormPickupRepository {
	return &GormPickupRepository{db: db}
}

// FindByIDForTenant finds a pickup by ID within a tenant
func (r *GormPickupRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.PickupStock, error) {
	var model models.PickupStockModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Pickup")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists pickups of a tenant
func (r *GormPickupRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.PickupStock, error) {
	var pickupModels []models.PickupStockModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PickupStockModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, PickupSortFields, "picked_at")
	if err := query.Find(&pickupModels).Error; err != nil {
		return nil, err
	}
	pickups := make([]stock.PickupStock, len(pickupModels))
	for i, model := range pickupModels {
		pickups[i] = *model.ToDomain()
	}
	return pickups, nil
}

// CountForTenant counts pickups of a tenant matching the filter
func (r *GormPickupRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PickupStockModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a pickup
func (r *GormPickupRepository) Save(ctx context.Context, p *stock.PickupStock) error {
	return translate(r.db.WithContext(ctx).Save(models.PickupStockModelFromDomain(p)).Error, "Pickup")
}

// DeleteForTenant deletes a pickup within a tenant
func (r *GormPickupRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.PickupStockModel{}, "id = ?", id), "Pickup")
}

func (r *GormPickupRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "allocation_id":
			query = query.Where("allocation_id = ?", value)
		case "container_id":
			query = query.Where("container_id = ?", value)
		}
	}
	return query
}

var _ stock.PickupRepository = (*GormPickupRepository)(nil)
