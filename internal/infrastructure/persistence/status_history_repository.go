package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormStatusHistoryRepository implements freight.StatusHistoryRepository using GORM.
// History rows are append-only.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

// NewGormStatusHistoryRepository creates a new GormStatusHistoryRepository
func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

// Append records one status change
func (r *GormStatusHistoryRepository) Append(ctx context.Context, h *freight.StatusHistory) error {
	return r.db.WithContext(ctx).Create(models.ContainerStatusHistoryModelFromDomain(h)).Error
}

// FindByContainer returns the status changes of a container, oldest first
func (r *GormStatusHistoryRepository) FindByContainer(ctx context.Context, tenantID, containerID uuid.UUID) ([]freight.StatusHistory, error) {
	var historyModels []models.ContainerStatusHistoryModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("container_id = ?", containerID).
		Order("changed_at ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}
	entries := make([]freight.StatusHistory, len(historyModels))
	for i, model := range historyModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

var _ freight.StatusHistoryRepository = (*GormStatusHistoryRepository)(nil)
