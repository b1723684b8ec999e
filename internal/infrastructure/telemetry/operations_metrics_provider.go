package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOperationsMetricsProvider implements OperationsMetricsProvider using GORM.
// It aggregates the put_away_stock and dispatches tables directly.
type GormOperationsMetricsProvider struct {
	db *gorm.DB
}

// NewGormOperationsMetricsProvider creates a new GormOperationsMetricsProvider.
func NewGormOperationsMetricsProvider(db *gorm.DB) *GormOperationsMetricsProvider {
	return &GormOperationsMetricsProvider{db: db}
}

// GetAvailableStock returns the tenant's put-away quantity not yet allocated.
func (p *GormOperationsMetricsProvider) GetAvailableStock(ctx context.Context, tenantID uuid.UUID) (float64, error) {
	var total float64
	err := p.db.WithContext(ctx).
		Table("put_away_stock").
		Select("COALESCE(SUM(quantity - allocated_quantity), 0)").
		Where("tenant_id = ?", tenantID).
		Scan(&total).Error

	return total, err
}

// GetActiveDispatchCount returns planned and in-transit dispatches for a tenant.
func (p *GormOperationsMetricsProvider) GetActiveDispatchCount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("dispatches").
		Where("tenant_id = ? AND status IN ?", tenantID, []string{"planned", "in_transit"}).
		Count(&count).Error

	return count, err
}

// GormTenantProvider implements TenantProvider using GORM.
type GormTenantProvider struct {
	db *gorm.DB
}

// NewGormTenantProvider creates a new GormTenantProvider.
func NewGormTenantProvider(db *gorm.DB) *GormTenantProvider {
	return &GormTenantProvider{db: db}
}

// GetActiveTenantIDs returns all active tenant IDs.
func (p *GormTenantProvider) GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("status = ?", "active").
		Find(&ids).Error

	return ids, err
}
