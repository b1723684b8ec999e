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

// AllocationService reserves put-away stock for export containers
type AllocationService struct {
	allocationRepo stock.AllocationRepository
	txScope        scope.TransactionScope
	logger         *zap.Logger
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(allocationRepo stock.AllocationRepository, txScope scope.TransactionScope, logger *zap.Logger) *AllocationService {
	return &AllocationService{allocationRepo: allocationRepo, txScope: txScope, logger: logger}
}

// Create reserves quantity from a put-away row for an allocated export container
func (s *AllocationService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateAllocationRequest) (*AllocationResponse, error) {
	var a *stock.Allocation
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		c, err := repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, req.ContainerID)
		if err != nil {
			return err
		}
		source, err := repos.PutAwayRepo().FindByIDForUpdate(ctx, tenantID, req.PutAwayStockID)
		if err != nil {
			return err
		}
		a, err = stock.NewAllocation(c, source, req.Quantity)
		if err != nil {
			return err
		}
		a.SetCreatedBy(actorID)
		if err := repos.PutAwayRepo().Save(ctx, source); err != nil {
			return err
		}
		return repos.AllocationRepo().Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock allocated",
		zap.String("allocation_id", a.ID.String()),
		zap.String("container_id", a.ContainerID.String()),
		zap.String("sku", a.SKU),
		zap.String("quantity", a.Quantity.String()),
	)
	resp := ToAllocationResponse(a)
	return &resp, nil
}

// GetByID retrieves an allocation
func (s *AllocationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AllocationResponse, error) {
	a, err := s.allocationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToAllocationResponse(a)
	return &resp, nil
}

// List lists allocations; supports "container_id", "put_away_stock_id" and "status" filters
func (s *AllocationService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[AllocationResponse], error) {
	filter = filter.Normalize()
	items, err := s.allocationRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.allocationRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToAllocationResponse), total, filter), nil
}

// Update resizes an allocation, taking or returning the difference on its source row
func (s *AllocationService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateAllocationRequest) (*AllocationResponse, error) {
	var a *stock.Allocation
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		a, err = repos.AllocationRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		source, err := repos.PutAwayRepo().FindByIDForUpdate(ctx, tenantID, a.PutAwayStockID)
		if err != nil {
			return err
		}
		if err := a.ChangeQuantity(source, req.Quantity); err != nil {
			return err
		}
		if err := repos.PutAwayRepo().Save(ctx, source); err != nil {
			return err
		}
		return repos.AllocationRepo().Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	resp := ToAllocationResponse(a)
	return &resp, nil
}

// Delete releases an unpicked allocation back to its source row
func (s *AllocationService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		a, err := repos.AllocationRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		source, err := repos.PutAwayRepo().FindByIDForUpdate(ctx, tenantID, a.PutAwayStockID)
		if err != nil {
			return err
		}
		if err := a.Cancel(source); err != nil {
			return err
		}
		if err := repos.PutAwayRepo().Save(ctx, source); err != nil {
			return err
		}
		return repos.AllocationRepo().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Allocation deleted", zap.String("allocation_id", id.String()))
	return nil
}
