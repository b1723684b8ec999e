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

// GormVehicleRepository implements fleet.VehicleRepository using GORM
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByIDForTenant finds a vehicle by ID within a tenant
func (r *GormVehicleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Vehicle, error) {
	var model models.VehicleModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Vehicle")
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a vehicle and locks its row until the transaction ends
func (r *GormVehicleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*fleet.Vehicle, error) {
	var model models.VehicleModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translate(err, "Vehicle")
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists vehicles of a tenant
func (r *GormVehicleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]fleet.Vehicle, error) {
	var vehicleModels []models.VehicleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.VehicleModel{}).Scopes(tenant.Scope(tenantID)), filter)
	query = paginate(query, filter, VehicleSortFields, "registration")
	if err := query.Find(&vehicleModels).Error; err != nil {
		return nil, err
	}
	vehicles := make([]fleet.Vehicle, len(vehicleModels))
	for i, model := range vehicleModels {
		vehicles[i] = *model.ToDomain()
	}
	return vehicles, nil
}

// CountForTenant counts vehicles of a tenant matching the filter
func (r *GormVehicleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.VehicleModel{}).Scopes(tenant.Scope(tenantID)), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByRegistration reports whether a registration is already used in the tenant
func (r *GormVehicleRepository) ExistsByRegistration(ctx context.Context, tenantID uuid.UUID, registration string) (bool, error) {
	reg := strings.ToUpper(strings.Join(strings.Fields(registration), ""))
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.VehicleModel{}).Scopes(tenant.Scope(tenantID)).
		Where("registration = ?", reg).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a vehicle
func (r *GormVehicleRepository) Save(ctx context.Context, v *fleet.Vehicle) error {
	return translate(r.db.WithContext(ctx).Save(models.VehicleModelFromDomain(v)).Error, "Vehicle")
}

// DeleteForTenant deletes a vehicle within a tenant
func (r *GormVehicleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleted(r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.VehicleModel{}, "id = ?", id), "Vehicle")
}

func (r *GormVehicleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = searchLike(query, filter.Search, "registration", "make", "model")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		}
	}
	return query
}

var _ fleet.VehicleRepository = (*GormVehicleRepository)(nil)
