package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormTenantRoleRepository implements identity.TenantRoleRepository using GORM
type GormTenantRoleRepository struct {
	db *gorm.DB
}

// NewGormTenantRoleRepository creates a new GormTenantRoleRepository
func NewGormTenantRoleRepository(db *gorm.DB) *GormTenantRoleRepository {
	return &GormTenantRoleRepository{db: db}
}

// FindByIDForTenant finds a role by ID within a tenant
func (r *GormTenantRoleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.TenantRole, error) {
	var model models.TenantRoleModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Role")
	}
	return model.ToDomain(), nil
}

// FindByName finds a role by name within a tenant, case-insensitively
func (r *GormTenantRoleRepository) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*identity.TenantRole, error) {
	var model models.TenantRoleModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&model).Error; err != nil {
		return nil, translate(err, "Role")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists roles of a tenant
func (r *GormTenantRoleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.TenantRole, error) {
	var roleModels []models.TenantRoleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TenantRoleModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, RoleSortFields, "name")
	if err := query.Find(&roleModels).Error; err != nil {
		return nil, err
	}
	roles := make([]identity.TenantRole, len(roleModels))
	for i, model := range roleModels {
		roles[i] = *model.ToDomain()
	}
	return roles, nil
}

// CountForTenant counts roles of a tenant matching the filter
func (r *GormTenantRoleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TenantRoleModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName reports whether the role name is used in the tenant
func (r *GormTenantRoleRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TenantRoleModel{}).Scopes(tenant.Scope(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a role
func (r *GormTenantRoleRepository) Save(ctx context.Context, role *identity.TenantRole) error {
	return translate(r.db.WithContext(ctx).Save(models.TenantRoleModelFromDomain(role)).Error, "Role")
}

// DeleteForTenant deletes a role within a tenant
func (r *GormTenantRoleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.TenantRoleModel{}, "id = ?", id), "Role")
}

func (r *GormTenantRoleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "description")
	if v, ok := filter.Filters["is_system"]; ok {
		query = query.Where("is_system = ?", v)
	}
	return query
}

var _ identity.TenantRoleRepository = (*GormTenantRoleRepository)(nil)
