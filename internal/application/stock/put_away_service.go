// Package stock implements put-away, allocation and pickup use cases. Every
// write that touches more than one ledger row runs in one transaction with the
// rows locked, so quantities stay reconciled under concurrent requests.
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

// PutAwayService handles the warehouse location ledger for received goods
type PutAwayService struct {
	putAwayRepo stock.PutAwayRepository
	txScope     scope.TransactionScope
	logger      *zap.Logger
}

// NewPutAwayService creates a new PutAwayService
func NewPutAwayService(putAwayRepo stock.PutAwayRepository, txScope scope.TransactionScope, logger *zap.Logger) *PutAwayService {
	return &PutAwayService{putAwayRepo: putAwayRepo, txScope: txScope, logger: logger}
}

// Create shelves goods of a received container's product line
func (s *PutAwayService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreatePutAwayRequest) (*PutAwayResponse, error) {
	var p *stock.PutAwayStock
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		// The container lock serializes put-aways for its lines.
		c, err := repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, req.ContainerID)
		if err != nil {
			return err
		}
		line, err := repos.ProductLineRepo().FindByIDForTenant(ctx, tenantID, req.ProductLineID)
		if err != nil {
			return err
		}
		wh, err := repos.WarehouseRepo().FindByIDForTenant(ctx, tenantID, req.WarehouseID)
		if err != nil {
			return err
		}
		already, err := repos.PutAwayRepo().SumByProductLine(ctx, tenantID, line.ID, uuid.Nil)
		if err != nil {
			return err
		}
		p, err = stock.NewPutAwayStock(c, line, wh, req.LocationCode, req.Quantity, already)
		if err != nil {
			return err
		}
		if actorID != uuid.Nil {
			p.PutAwayBy = &actorID
			p.SetCreatedBy(actorID)
		}
		return repos.PutAwayRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock put away",
		zap.String("put_away_id", p.ID.String()),
		zap.String("sku", p.SKU),
		zap.String("location", p.LocationCode),
		zap.String("quantity", p.Quantity.String()),
	)
	resp := ToPutAwayResponse(p)
	return &resp, nil
}

// GetByID retrieves a put-away row
func (s *PutAwayService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PutAwayResponse, error) {
	p, err := s.putAwayRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPutAwayResponse(p)
	return &resp, nil
}

// List lists put-away rows; supports "container_id", "product_line_id", "warehouse_id",
// "sku", "location_code" and "available_only" filters
func (s *PutAwayService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[PutAwayResponse], error) {
	filter = filter.Normalize()
	items, err := s.putAwayRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.putAwayRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToPutAwayResponse), total, filter), nil
}

// Update corrects the quantity or relocates the stock
func (s *PutAwayService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePutAwayRequest) (*PutAwayResponse, error) {
	var p *stock.PutAwayStock
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		p, err = repos.PutAwayRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if req.Quantity != nil {
			c, err := repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, p.ContainerID)
			if err != nil {
				return err
			}
			line, err := repos.ProductLineRepo().FindByIDForTenant(ctx, tenantID, p.ProductLineID)
			if err != nil {
				return err
			}
			others, err := repos.PutAwayRepo().SumByProductLine(ctx, tenantID, line.ID, p.ID)
			if err != nil {
				return err
			}
			if err := p.ChangeQuantity(c, line, *req.Quantity, others); err != nil {
				return err
			}
		}
		if req.LocationCode != nil {
			if err := p.Relocate(*req.LocationCode); err != nil {
				return err
			}
		}
		return repos.PutAwayRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	resp := ToPutAwayResponse(p)
	return &resp, nil
}

// Delete removes an unallocated row of a container that is not yet put away
func (s *PutAwayService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		p, err := repos.PutAwayRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		c, err := repos.ContainerRepo().FindByIDForTenant(ctx, tenantID, p.ContainerID)
		if err != nil {
			return err
		}
		if err := p.CanDelete(c.Status); err != nil {
			return err
		}
		return repos.PutAwayRepo().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Put-away stock deleted", zap.String("put_away_id", id.String()))
	return nil
}
