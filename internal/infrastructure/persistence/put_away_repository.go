package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPutAwayRepository implements stock.PutAwayRepository using GORM
type GormPutAwayRepository struct {
	db *gorm.DB
}

// NewGormPutAwayRepository creates a new GormPutAwayRepository
func NewGormPutAwayRepository(db *gorm.DB) *GormPutAwayRepository {
	return &GormPutAwayRepository{db: db}
}

// FindByIDForTenant finds a put-away row by ID within a tenant
func (r *GormPutAwayRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*stock.PutAwayStock, error) {
	var model models.PutAwayStockModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Put-away stock")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a put-away row and locks it until the transaction ends
func (r *GormPutAwayRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*stock.PutAwayStock, error) {
	var model models.PutAwayStockModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Put-away stock")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists put-away rows of a tenant
func (r *GormPutAwayRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]stock.PutAwayStock, error) {
	var rowModels []models.PutAwayStockModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PutAwayStockModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, PutAwaySortFields, "put_away_at")
	if err := query.Find(&rowModels).Error; err != nil {
		return nil, err
	}
	return putAwayToDomain(rowModels), nil
}

// CountForTenant counts put-away rows of a tenant matching the filter
func (r *GormPutAwayRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PutAwayStockModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByContainer returns every put-away row of an import container
func (r *GormPutAwayRepository) FindByContainer(ctx context.Context, tenantID, containerID uuid.UUID) ([]stock.PutAwayStock, error) {
	var rowModels []models.PutAwayStockModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("container_id = ?", containerID).
		Order("put_away_at ASC").
		Find(&rowModels).Error; err != nil {
		return nil, err
	}
	return putAwayToDomain(rowModels), nil
}

// SumByProductLine totals put-away quantity of a line, skipping excludeID
func (r *GormPutAwayRepository) SumByProductLine(ctx context.Context, tenantID, productLineID, excludeID uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.PutAwayStockModel{}).Scopes(tenant.Scope(tenantID)).
		Where("product_line_id = ?", productLineID)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	return sumDecimal(query, "quantity")
}

// CountWithStockByWarehouse counts rows in a warehouse that still hold goods
func (r *GormPutAwayRepository) CountWithStockByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PutAwayStockModel{}).Scopes(tenant.Scope(tenantID)).
		Where("warehouse_id = ?", warehouseID).
		Where("quantity > dispatched_quantity").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumAvailable totals unreserved quantity across the tenant
func (r *GormPutAwayRepository) SumAvailable(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.PutAwayStockModel{}).Scopes(tenant.Scope(tenantID))
	return sumDecimal(query, "quantity - allocated_quantity")
}

// Save creates or updates a put-away row
func (r *GormPutAwayRepository) Save(ctx context.Context, p *stock.PutAwayStock) error {
	return translate(r.db.WithContext(ctx).Save(models.PutAwayStockModelFromDomain(p)).Error, "Put-away stock")
}

// DeleteForTenant deletes a put-away row within a tenant
func (r *GormPutAwayRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.PutAwayStockModel{}, "id = ?", id), "Put-away stock")
}

func (r *GormPutAwayRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "sku", "location_code")
	for key, value := range filter.Filters {
		switch key {
		case "container_id":
			query = query.Where("container_id = ?", value)
		case "product_line_id":
			query = query.Where("product_line_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "sku":
			if s, ok := value.(string); ok {
				value = strings.ToUpper(strings.TrimSpace(s))
			}
			query = query.Where("sku = ?", value)
		case "location_code":
			if s, ok := value.(string); ok {
				value = strings.ToUpper(strings.TrimSpace(s))
			}
			query = query.Where("location_code = ?", value)
		case "available_only":
			if on, ok := value.(bool); ok && on {
				query = query.Where("quantity > allocated_quantity")
			}
		}
	}
	return query
}

// sumDecimal sums expr over the query. COALESCE keeps an empty set at zero.
func sumDecimal(query *gorm.DB, expr string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := query.Select("COALESCE(SUM(" + expr + "), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func putAwayToDomain(rowModels []models.PutAwayStockModel) []stock.PutAwayStock {
	rows := make([]stock.PutAwayStock, len(rowModels))
	for i, model := range rowModels {
		rows[i] = *model.ToDomain()
	}
	return rows
}

var _ stock.PutAwayRepository = (*GormPutAwayRepository)(nil)
