package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAllocationRepository implements stock.AllocationRepository using GORM
type GormAllocationRepository struct {
	db *gorm.DB
}

// NewGormAllocationRepository creates a new GormAllocationRepository
func NewGormAllocationRepository(db *gorm.DB) *GormAllocationRepository {
	return &GormAllocationRepository{db: db}
}

// FindByIDForTenant finds an allocation by ID within a tenant
func (r *GormAllocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.Allocation, error) {
	var model models.ContainerStockAllocationModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Allocation")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an allocation and locks it until the transaction ends
func (r *GormAllocationRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*stock.Allocation, error) {
	var model models.ContainerStockAllocationModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Allocation")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists allocations of a tenant
func (r *GormAllocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.Allocation, error) {
	var allocationModels []models.ContainerStockAllocationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContainerStockAllocationModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, AllocationSortFields, "created_at")
	if err := query.Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return allocationsToDomain(allocationModels), nil
}

// CountForTenant counts allocations of a tenant matching the filter
func (r *GormAllocationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContainerStockAllocationModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByContainerForUpdate loads and locks every allocation of an export container
func (r *GormAllocationRepository) FindByContainerForUpdate(ctx context.Context, tenantID, containerID uuid.UUID) ([]stock.Allocation, error) {
	var allocationModels []models.ContainerStockAllocationModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("container_id = ?", containerID).
		Order("created_at ASC").
		Find(&allocationModels).Error; err != nil {
		return nil, err
	}
	return allocationsToDomain(allocationModels), nil
}

// CountByContainer counts allocations of a container
func (r *GormAllocationRepository) CountByContainer(ctx context.Context, tenantID, containerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ContainerStockAllocationModel{}).Scopes(tenant.Scope(tenantID)).
		Where("container_id = ?", containerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an allocation
func (r *GormAllocationRepository) Save(ctx context.Context, a *stock.Allocation) error {
	return translate(r.db.WithContext(ctx).Save(models.ContainerStockAllocationModelFromDomain(a)).Error, "Allocation")
}

// DeleteForTenant deletes an allocation within a tenant
func (r *GormAllocationRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.ContainerStockAllocationModel{}, "id = ?", id), "Allocation")
}

func (r *GormAllocationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "sku")
	for key, value := range filter.Filters {
		switch key {
		case "container_id":
			query = query.Where("container_id = ?", value)
		case "put_away_stock_id":
			query = query.Where("put_away_stock_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

func allocationsToDomain(allocationModels []models.ContainerStockAllocationModel) []stock.Allocation {
	allocations := make([]stock.Allocation, len(allocationModels))
	for i, model := range allocationModels {
		allocations[i] = *model.ToDomain()
	}
	return allocations
}

var _ stock.AllocationRepository = (*GormAllocationRepository)(nil)
