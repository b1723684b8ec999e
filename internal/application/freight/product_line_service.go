package freight

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// ProductLineService handles the goods carried in import containers
type ProductLineService struct {
	productLineRepo freight.ProductLineRepository
	containerRepo   freight.ContainerRepository
	putAwayRepo     stock.PutAwayRepository
	txScope         scope.TransactionScope
	logger          *zap.Logger
}

// NewProductLineService creates a new ProductLineService
func NewProductLineService(
	productLineRepo freight.ProductLineRepository,
	containerRepo freight.ContainerRepository,
	putAwayRepo stock.PutAwayRepository,
	txScope scope.TransactionScope,
	logger *zap.Logger,
) *ProductLineService {
	return &ProductLineService{
		productLineRepo: productLineRepo,
		containerRepo:   containerRepo,
		putAwayRepo:     putAwayRepo,
		txScope:         txScope,
		logger:          logger,
	}
}

// Create adds a product line to an import container
func (s *ProductLineService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateProductLineRequest) (*ProductLineResponse, error) {
	c, err := s.containerRepo.FindByIDForTenant(ctx, tenantID, req.ContainerID)
	if err != nil {
		return nil, err
	}
	line, err := freight.NewProductLine(c, req.SKU, req.ExpectedQuantity, req.ProductLineInput.toDomain())
	if err != nil {
		return nil, err
	}
	line.SetCreatedBy(actorID)

	if err := s.productLineRepo.Save(ctx, line); err != nil {
		return nil, err
	}

	s.logger.Info("Product line created",
		zap.String("product_line_id", line.ID.String()),
		zap.String("container_id", c.ID.String()),
		zap.String("sku", line.SKU),
	)
	resp := ToProductLineResponse(line)
	return &resp, nil
}

// GetByID retrieves a product line
func (s *ProductLineService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductLineResponse, error) {
	line, err := s.productLineRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductLineResponse(line)
	return &resp, nil
}

// List lists product lines; supports "container_id" and "sku" filters
func (s *ProductLineService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[ProductLineResponse], error) {
	filter = filter.Normalize()
	items, err := s.productLineRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productLineRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToProductLineResponse), total, filter), nil
}

// Update changes the expected quantity and details, or records the counted
// quantity. The container row is locked so put-away cannot race the check.
func (s *ProductLineService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductLineRequest) (*ProductLineResponse, error) {
	var line *freight.ProductLine
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		line, err = repos.ProductLineRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		c, err := repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, line.ContainerID)
		if err != nil {
			return err
		}

		if req.ExpectedQuantity != nil || req.Details != nil {
			expected, details := line.ExpectedQuantity, line.ProductLineDetails
			if req.ExpectedQuantity != nil {
				expected = *req.ExpectedQuantity
			}
			if req.Details != nil {
				details = req.Details.toDomain()
			}
			if err := line.Update(c, expected, details); err != nil {
				return err
			}
		}
		if req.ReceivedQuantity != nil {
			putAway, err := repos.PutAwayRepo().SumByProductLine(ctx, tenantID, line.ID, uuid.Nil)
			if err != nil {
				return err
			}
			if err := line.SetReceivedQuantity(c, *req.ReceivedQuantity, putAway); err != nil {
				return err
			}
		}
		return repos.ProductLineRepo().Save(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	resp := ToProductLineResponse(line)
	return &resp, nil
}

// Delete removes a product line that has not been put away
func (s *ProductLineService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	var sku string
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		line, err := repos.ProductLineRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		sku = line.SKU
		c, err := repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, line.ContainerID)
		if err != nil {
			return err
		}
		if err := freight.EnsureLinesEditable(c); err != nil {
			return err
		}
		putAway, err := repos.PutAwayRepo().SumByProductLine(ctx, tenantID, line.ID, uuid.Nil)
		if err != nil {
			return err
		}
		if putAway.IsPositive() {
			return shared.NewDomainErrorf("PRODUCT_LINE_IN_USE", "%s already has %s put away", line.SKU, putAway)
		}
		return repos.ProductLineRepo().DeleteForTenant(ctx, tenantID, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Product line deleted", zap.String("product_line_id", id.String()), zap.String("sku", sku))
	return nil
}
