package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/warehouse"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormWarehouseRepository implements warehouse.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByIDForTenant finds a warehouse by ID within a tenant
func (r *GormWarehouseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*warehouse.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Warehouse")
	}
	return model.ToDomain(), nil
}

// FindByCode finds a warehouse by its code within a tenant
func (r *GormWarehouseRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*warehouse.Warehouse, error) {
	var model models.WarehouseModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, translate(err, "Warehouse")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all warehouses for a tenant
func (r *GormWarehouseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]warehouse.Warehouse, error) {
	var warehouseModels []models.WarehouseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WarehouseModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, WarehouseSortFields, "code")
	if err := query.Find(&warehouseModels).Error; err != nil {
		return nil, err
	}
	warehouses := make([]warehouse.Warehouse, len(warehouseModels))
	for i, model := range warehouseModels {
		warehouses[i] = *model.ToDomain()
	}
	return warehouses, nil
}

// CountForTenant counts warehouses for a tenant matching the filter
func (r *GormWarehouseRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.WarehouseModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a warehouse with the given code exists in the tenant
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.WarehouseModel{}).Scopes(tenant.Scope(tenantID)).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, w *warehouse.Warehouse) error {
	return translate(r.db.WithContext(ctx).Save(models.WarehouseModelFromDomain(w)).Error, "Warehouse")
}

// DeleteForTenant deletes a warehouse within a tenant
func (r *GormWarehouseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.WarehouseModel{}, "id = ?", id), "Warehouse")
}

func (r *GormWarehouseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "code", "name", "city")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "country":
			query = query.Where("country = ?", value)
		}
	}
	return query
}

var _ warehouse.WarehouseRepository = (*GormWarehouseRepository)(nil)
