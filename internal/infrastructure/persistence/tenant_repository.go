package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository using GORM.
// Tenants are the one global table, so queries here are not tenant-scoped.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Tenant")
	}
	return model.ToDomain(), nil
}

// FindBySubdomain finds a tenant by its subdomain label
func (r *GormTenantRepository) FindBySubdomain(ctx context.Context, subdomain string) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("subdomain = ?", strings.ToLower(strings.TrimSpace(subdomain))).
		First(&model).Error; err != nil {
		return nil, translate(err, "Tenant")
	}
	return model.ToDomain(), nil
}

// FindAll finds all tenants matching the filter
func (r *GormTenantRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Tenant, error) {
	var tenantModels []models.TenantModel
	query := paginate(r.applyFilter(r.db.WithContext(ctx).Model(&models.TenantModel{}), filter), filter, TenantSortFields, "created_at")
	if err := query.Find(&tenantModels).Error; err != nil {
		return nil, err
	}
	tenants := make([]identity.Tenant, len(tenantModels))
	for i, model := range tenantModels {
		tenants[i] = *model.ToDomain()
	}
	return tenants, nil
}

// Count counts tenants matching the filter
func (r *GormTenantRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.TenantModel{}), filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsBySubdomain reports whether a subdomain is taken
func (r *GormTenantRepository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("subdomain = ?", strings.ToLower(strings.TrimSpace(subdomain))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return translate(r.db.WithContext(ctx).Save(models.TenantModelFromDomain(tenant)).Error, "Tenant")
}

func (r *GormTenantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "subdomain", "contact_email")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
