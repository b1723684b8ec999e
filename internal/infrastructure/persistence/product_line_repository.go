package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormProductLineRepository implements freight.ProductLineRepository using GORM
type GormProductLineRepository struct {
	db *gorm.DB
}

// NewGormProductLineRepository creates a new GormProductLineRepository
func NewGormProductLineRepository(db *gorm.DB) *GormProductLineRepository {
	return &GormProductLineRepository{db: db}
}

// FindByIDForTenant finds a product line by ID within a tenant
func (r *GormProductLineRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*freight.ProductLine, error) {
	var model models.ProductLineModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Product line")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists product lines of a tenant
func (r *GormProductLineRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]freight.ProductLine, error) {
	var lineModels []models.ProductLineModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductLineModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, ProductLineSortFields, "created_at")
	if err := query.Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return productLinesToDomain(lineModels), nil
}

// CountForTenant counts product lines of a tenant matching the filter
func (r *GormProductLineRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductLineModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByContainer returns every product line of a container
func (r *GormProductLineRepository) FindByContainer(ctx context.Context, tenantID, containerID uuid.UUID) ([]freight.ProductLine, error) {
	var lineModels []models.ProductLineModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("container_id = ?", containerID).
		Order("sku ASC").
		Find(&lineModels).Error; err != nil {
		return nil, err
	}
	return productLinesToDomain(lineModels), nil
}

// CountByContainer counts the product lines of a container
func (r *GormProductLineRepository) CountByContainer(ctx context.Context, tenantID, containerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductLineModel{}).Scopes(tenant.Scope(tenantID)).
		Where("container_id = ?", containerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product line
func (r *GormProductLineRepository) Save(ctx context.Context, p *freight.ProductLine) error {
	return translate(r.db.WithContext(ctx).Save(models.ProductLineModelFromDomain(p)).Error, "Product line")
}

// SaveBatch creates or updates multiple product lines
func (r *GormProductLineRepository) SaveBatch(ctx context.Context, lines []freight.ProductLine) error {
	if len(lines) == 0 {
		return nil
	}
	lineModels := make([]*models.ProductLineModel, len(lines))
	for i := range lines {
		lineModels[i] = models.ProductLineModelFromDomain(&lines[i])
	}
	return translate(r.db.WithContext(ctx).Save(lineModels).Error, "Product line")
}

// DeleteForTenant deletes a product line within a tenant
func (r *GormProductLineRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.ProductLineModel{}, "id = ?", id), "Product line")
}

func (r *GormProductLineRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "sku", "description", "batch_number")
	for key, value := range filter.Filters {
		switch key {
		case "container_id":
			query = query.Where("container_id = ?", value)
		case "sku":
			if s, ok := value.(string); ok {
				value = strings.ToUpper(strings.TrimSpace(s))
			}
			query = query.Where("sku = ?", value)
		}
	}
	return query
}

func productLinesToDomain(lineModels []models.ProductLineModel) []freight.ProductLine {
	lines := make([]freight.ProductLine, len(lineModels))
	for i, model := range lineModels {
		lines[i] = *model.ToDomain()
	}
	return lines
}

var _ freight.ProductLineRepository = (*GormProductLineRepository)(nil)
