package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// PickupService records picks against allocations. Pickups are never edited;
// a wrong pick is deleted and recorded again.
type PickupService struct {
	pickupRepo stock.PickupRepository
	txScope    scope.TransactionScope
	logger     *zap.Logger
}

// NewPickupService creates a new PickupService
func NewPickupService(pickupRepo stock.PickupRepository, txScope scope.TransactionScope, logger *zap.Logger) *PickupService {
	return &PickupService{pickupRepo: pickupRepo, txScope: txScope, logger: logger}
}

// Create records a pick and adds it to the allocation's picked quantity
func (s *PickupService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreatePickupRequest) (*PickupResponse, error) {
	var p *stock.PickupStock
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		a, err := repos.AllocationRepo().FindByIDForUpdate(ctx, tenantID, req.AllocationID)
		if err != nil {
			return err
		}
		c, err := repos.ContainerRepo().FindByIDForTenant(ctx, tenantID, a.ContainerID)
		if err != nil {
			return err
		}
		p, err = stock.NewPickupStock(c, a, req.Quantity, actorID, req.Notes)
		if err != nil {
			return err
		}
		if err := repos.AllocationRepo().Save(ctx, a); err != nil {
			return err
		}
		return repos.PickupRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock picked",
		zap.String("pickup_id", p.ID.String()),
		zap.String("allocation_id", p.AllocationID.String()),
		zap.String("quantity", p.Quantity.String()),
	)
	resp := ToPickupResponse(p)
	return &resp, nil
}

// GetByID retrieves a pickup
func (s *PickupService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PickupResponse, error) {
	p, err := s.pickupRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPickupResponse(p)
	return &resp, nil
}

// List lists pickups; supports "allocation_id" and "container_id" filters
func (s *PickupService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[PickupResponse], error) {
	filter = filter.Normalize()
	items, err := s.pickupRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.pickupRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToPickupResponse), total, filter), nil
}

// Delete undoes a pick while the export container is still allocated. The
// allocation's picked quantity and status are reverted in the same transaction.
func (s *PickupService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		p, err := repos.PickupRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		a, err := repos.AllocationRepo().FindByIDForUpdate(ctx, tenantID, p.AllocationID)
		if err != nil {
			return err
		}
		c, err := repos.ContainerRepo().FindByIDForTenant(ctx, tenantID, p.ContainerID)
		if err != nil {
			return err
		}
		if err := p.Revert(c, a); err != nil {
			return err
		}
		if err := repos.AllocationRepo().Save(ctx, a); err != nil {
			return err
		}
		return repos.PickupRepo().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Pickup deleted", zap.String("pickup_id", id.String()))
	return nil
}
