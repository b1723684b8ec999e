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

// GormTenantUserRepository implements identity.TenantUserRepository using GORM
type GormTenantUserRepository struct {
	db *gorm.DB
}

// NewGormTenantUserRepository creates a new GormTenantUserRepository
func NewGormTenantUserRepository(db *gorm.DB) *GormTenantUserRepository {
	return &GormTenantUserRepository{db: db}
}

// FindByIDForTenant finds a user by ID within a tenant
func (r *GormTenantUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.TenantUser, error) {
	var model models.TenantUserModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "User")
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email within a tenant
func (r *GormTenantUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.TenantUser, error) {
	var model models.TenantUserModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("email = ?", normalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translate(err, "User")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists users of a tenant
func (r *GormTenantUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.TenantUser, error) {
	var userModels []models.TenantUserModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TenantUserModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, UserSortFields, "created_at")
	if err := query.Find(&userModels).Error; err != nil {
		return nil, err
	}
	users := make([]identity.TenantUser, len(userModels))
	for i, model := range userModels {
		users[i] = *model.ToDomain()
	}
	return users, nil
}

// CountForTenant counts users of a tenant matching the filter
func (r *GormTenantUserRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TenantUserModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail reports whether the email is registered in the tenant
func (r *GormTenantUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TenantUserModel{}).Scopes(tenant.Scope(tenantID)).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByRole counts users assigned to a role
func (r *GormTenantUserRepository) CountByRole(ctx context.Context, tenantID, roleID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.TenantUserModel{}).Scopes(tenant.Scope(tenantID)).
		Where("role_id = ?", roleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a user
func (r *GormTenantUserRepository) Save(ctx context.Context, user *identity.TenantUser) error {
	return translate(r.db.WithContext(ctx).Save(models.TenantUserModelFromDomain(user)).Error, "User")
}

// DeleteForTenant deletes a user within a tenant
func (r *GormTenantUserRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.TenantUserModel{}, "id = ?", id), "User")
}

func (r *GormTenantUserRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "email", "first_name", "last_name")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "role_id":
			query = query.Where("role_id = ?", value)
		}
	}
	return query
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ identity.TenantUserRepository = (*GormTenantUserRepository)(nil)
