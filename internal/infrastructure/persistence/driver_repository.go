package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDriverRepository implements fleet.DriverRepository using GORM
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GormDriverRepository
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// FindByIDForTenant finds a driver by ID within a tenant
func (r *GormDriverRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Driver, error) {
	var model models.DriverModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Driver")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a driver and locks its row until the transaction ends
func (r *GormDriverRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Driver, error) {
	var model models.DriverModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Driver")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists drivers of a tenant
func (r *GormDriverRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fleet.Driver, error) {
	var driverModels []models.DriverModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DriverModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, DriverSortFields, "name")
	if err := query.Find(&driverModels).Error; err != nil {
		return nil, err
	}
	drivers := make([]fleet.Driver, len(driverModels))
	for i, model := range driverModels {
		drivers[i] = *model.ToDomain()
	}
	return drivers, nil
}

// CountForTenant counts drivers of a tenant matching the filter
func (r *GormDriverRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DriverModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByLicense reports whether a license number is already registered in the tenant
func (r *GormDriverRepository) ExistsByLicense(ctx context.Context, tenantID uuid.UUID, licenseNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DriverModel{}).Scopes(tenant.Scope(tenantID)).
		Where("license_number = ?", strings.ToUpper(strings.TrimSpace(licenseNumber))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a driver
func (r *GormDriverRepository) Save(ctx context.Context, d *fleet.Driver) error {
	return translate(r.db.WithContext(ctx).Save(models.DriverModelFromDomain(d)).Error, "Driver")
}

// DeleteForTenant deletes a driver within a tenant
func (r *GormDriverRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.DriverModel{}, "id = ?", id), "Driver")
}

func (r *GormDriverRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "name", "license_number", "phone")
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

var _ fleet.DriverRepository = (*GormDriverRepository)(nil)
