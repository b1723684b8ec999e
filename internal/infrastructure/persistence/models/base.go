package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the aggregate version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain BaseAggregateRoot
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version: m.Version,
	}
}

// TenantAggregateModel adds tenant ownership and creator to AggregateModel
type TenantAggregateModel struct {
	AggregateModel
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
}

// FromDomainTenantAggregateRoot populates TenantAggregateModel from domain TenantAggregateRoot
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TenantID = t.TenantID
	m.CreatedBy = t.CreatedBy
}

// ToTenantAggregateRoot rebuilds the domain TenantAggregateRoot
func (m *TenantAggregateModel) ToTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.ToAggregateRoot(),
		TenantID:          m.TenantID,
		CreatedBy:         m.CreatedBy,
	}
}

// AllModels lists every persistence model, in dependency order, for AutoMigrate in tests.
func AllModels() []any {
	return []any{
		&TenantModel{},
		&TenantRoleModel{},
		&TenantUserModel{},
		&WarehouseModel{},
		&DriverModel{},
		&VehicleModel{},
		&ContainerBookingModel{},
		&ContainerDetailModel{},
		&ProductLineModel{},
		&ContainerStatusHistoryModel{},
		&PutAwayStockModel{},
		&ContainerStockAllocationModel{},
		&PickupStockModel{},
		&DispatchModel{},
	}
}

// tenantUniqueIndexes repeats the per-tenant unique indexes of the SQL
// migrations. The tenant column lives in the embedded TenantAggregateModel,
// so a composite index cannot be declared with field tags.
var tenantUniqueIndexes = []struct{ name, table, column string }{
	{"idx_container_bookings_number", "container_bookings", "booking_number"},
	{"idx_dispatches_number", "dispatches", "dispatch_number"},
}

// AutoMigrate creates every table and the per-tenant number indexes. Tests
// use it in place of the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return err
	}
	for _, idx := range tenantUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (tenant_id, %s)", idx.name, idx.table, idx.column)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
