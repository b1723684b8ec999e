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

// terminalContainerStatuses are the end states of both flows
var terminalContainerStatuses = []freight.ContainerStatus{
	freight.ContainerStatusPutAway,
	freight.ContainerStatusDispatched,
}

// GormContainerRepository implements freight.ContainerRepository using GORM
type GormContainerRepository struct {
	db *gorm.DB
}

// NewGormContainerRepository creates a new GormContainerRepository
func NewGormContainerRepository(db *gorm.DB) *GormContainerRepository {
	return &GormContainerRepository{db: db}
}

// FindByIDForTenant finds a container by ID within a tenant
func (r *GormContainerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*freight.Container, error) {
	var model models.ContainerDetailModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Container")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a container and locks its row until the transaction ends.
// Status changes and stock movements on a container serialize on this lock.
func (r *GormContainerRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*freight.Container, error) {
	var model models.ContainerDetailModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Container")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists containers of a tenant
func (r *GormContainerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]freight.Container, error) {
	var containerModels []models.ContainerDetailModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContainerDetailModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, ContainerSortFields, "created_at")
	if err := query.Find(&containerModels).Error; err != nil {
		return nil, err
	}
	return containersToDomain(containerModels), nil
}

// CountForTenant counts containers of a tenant matching the filter
func (r *GormContainerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ContainerDetailModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByBooking returns every container on a booking
func (r *GormContainerRepository) FindByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]freight.Container, error) {
	var containerModels []models.ContainerDetailModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("booking_id = ?", bookingID).
		Order("container_number ASC").
		Find(&containerModels).Error; err != nil {
		return nil, err
	}
	return containersToDomain(containerModels), nil
}

// ExistsOpenNumber reports whether a non-terminal container already uses the number
func (r *GormContainerRepository) ExistsOpenNumber(ctx context.Context, tenantID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.ContainerDetailModel{}).Scopes(tenant.Scope(tenantID)).
		Where("container_number = ?", number).
		Where("status NOT IN ?", terminalContainerStatuses)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus groups containers by direction and status
func (r *GormContainerRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) ([]freight.StatusCount, error) {
	var counts []freight.StatusCount
	if err := r.db.WithContext(ctx).Model(&models.ContainerDetailModel{}).Scopes(tenant.Scope(tenantID)).
		Select("direction, status, COUNT(*) AS count").
		Group("direction, status").
		Order("direction, status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// Save creates or updates a container
func (r *GormContainerRepository) Save(ctx context.Context, c *freight.Container) error {
	return translate(r.db.WithContext(ctx).Save(models.ContainerDetailModelFromDomain(c)).Error, "Container")
}

// DeleteForTenant deletes a container within a tenant
func (r *GormContainerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.ContainerDetailModel{}, "id = ?", id), "Container")
}

func (r *GormContainerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "container_number", "seal_number")
	for key, value := range filter.Filters {
		switch key {
		case "booking_id":
			query = query.Where("booking_id = ?", value)
		case "direction":
			query = query.Where("direction = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "size":
			query = query.Where("size = ?", value)
		}
	}
	return query
}

func containersToDomain(containerModels []models.ContainerDetailModel) []freight.Container {
	containers := make([]freight.Container, len(containerModels))
	for i, model := range containerModels {
		containers[i] = *model.ToDomain()
	}
	return containers
}

var _ freight.ContainerRepository = (*GormContainerRepository)(nil)
