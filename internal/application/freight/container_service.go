package freight

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ContainerService handles container details and their status machine
type ContainerService struct {
	containerRepo   freight.ContainerRepository
	bookingRepo     freight.BookingRepository
	productLineRepo freight.ProductLineRepository
	historyRepo     freight.StatusHistoryRepository
	putAwayRepo     stock.PutAwayRepository
	allocationRepo  stock.AllocationRepository
	txScope         scope.TransactionScope
	logger          *zap.Logger
}

// NewContainerService creates a new ContainerService
func NewContainerService(
	containerRepo freight.ContainerRepository,
	bookingRepo freight.BookingRepository,
	productLineRepo freight.ProductLineRepository,
	historyRepo freight.StatusHistoryRepository,
	putAwayRepo stock.PutAwayRepository,
	allocationRepo stock.AllocationRepository,
	txScope scope.TransactionScope,
	logger *zap.Logger,
) *ContainerService {
	return &ContainerService{
		containerRepo:   containerRepo,
		bookingRepo:     bookingRepo,
		productLineRepo: productLineRepo,
		historyRepo:     historyRepo,
		putAwayRepo:     putAwayRepo,
		allocationRepo:  allocationRepo,
		txScope:         txScope,
		logger:          logger,
	}
}

// Create adds a container to a booking in its direction's initial status
func (s *ContainerService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateContainerRequest) (*ContainerResponse, error) {
	b, err := s.bookingRepo.FindByIDForTenant(ctx, tenantID, req.BookingID)
	if err != nil {
		return nil, err
	}
	c, err := freight.NewContainer(b, req.ContainerNumber, freight.ContainerSize(req.Size))
	if err != nil {
		return nil, err
	}
	if req.SealNumber != "" || req.TareWeightKg != nil || req.GrossWeightKg != nil {
		tare, gross := c.TareWeightKg, c.GrossWeightKg
		if req.TareWeightKg != nil {
			tare = *req.TareWeightKg
		}
		if req.GrossWeightKg != nil {
			gross = *req.GrossWeightKg
		}
		if err := c.UpdateDetails(c.Size, req.SealNumber, tare, gross); err != nil {
			return nil, err
		}
	}

	exists, err := s.containerRepo.ExistsOpenNumber(ctx, tenantID, c.ContainerNumber, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf(shared.ErrAlreadyExists.Code, "Container %s is already open on another booking", c.ContainerNumber)
	}
	c.SetCreatedBy(actorID)

	if err := s.containerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("Container created",
		zap.String("container_id", c.ID.String()),
		zap.String("container_number", c.ContainerNumber),
		zap.String("booking_id", b.ID.String()),
	)
	resp := ToContainerResponse(c)
	return &resp, nil
}

// GetByID retrieves a container
func (s *ContainerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ContainerResponse, error) {
	c, err := s.containerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToContainerResponse(c)
	return &resp, nil
}

// List lists containers; supports "booking_id", "direction" and "status" filters
func (s *ContainerService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[ContainerResponse], error) {
	filter = filter.Normalize()
	items, err := s.containerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.containerRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToContainerResponse), total, filter), nil
}

// Update changes the physical attributes of a container in its initial status
func (s *ContainerService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateContainerRequest) (*ContainerResponse, error) {
	c, err := s.containerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	size, seal, tare, gross := c.Size, c.SealNumber, c.TareWeightKg, c.GrossWeightKg
	if req.Size != nil {
		size = freight.ContainerSize(*req.Size)
	}
	if req.SealNumber != nil {
		seal = *req.SealNumber
	}
	if req.TareWeightKg != nil {
		tare = *req.TareWeightKg
	}
	if req.GrossWeightKg != nil {
		gross = *req.GrossWeightKg
	}
	if err := c.UpdateDetails(size, seal, tare, gross); err != nil {
		return nil, err
	}

	if err := s.containerRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContainerResponse(c)
	return &resp, nil
}

// Delete removes a container that is still in its initial status and has nothing attached
func (s *ContainerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	c, err := s.containerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !c.CanDelete() {
		return shared.NewDomainErrorf("INVALID_STATE", "Container %s can only be deleted while %s", c.ContainerNumber, freight.InitialStatus(c.Direction))
	}

	lines, err := s.productLineRepo.CountByContainer(ctx, tenantID, id)
	if err != nil {
		return err
	}
	allocs, err := s.allocationRepo.CountByContainer(ctx, tenantID, id)
	if err != nil {
		return err
	}
	putAways, err := s.putAwayRepo.FindByContainer(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if lines > 0 || allocs > 0 || len(putAways) > 0 {
		return shared.NewDomainErrorf("CONTAINER_IN_USE", "Container %s still has product lines or stock records", c.ContainerNumber)
	}

	if err := s.containerRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Container deleted", zap.String("container_id", id.String()), zap.String("container_number", c.ContainerNumber))
	return nil
}

// ChangeStatus moves a container one step along its direction's whitelist.
// The reconciliation guard for the target status and all bookkeeping it
// implies run in the same transaction as the status write.
func (s *ContainerService) ChangeStatus(ctx context.Context, tenantID, id, actorID uuid.UUID, req ChangeStatusRequest) (*ContainerResponse, error) {
	target := freight.ContainerStatus(req.Status)

	ctx, span := telemetry.StartServiceSpan(ctx, "container", "change_status")
	defer span.End()
	telemetry.SetAttributes(span,
		"container_id", id.String(),
		telemetry.SpanAttrContainerStatus, req.Status,
	)

	var c *freight.Container
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		c, err = repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		telemetry.SetAttributes(span,
			telemetry.SpanAttrContainerNumber, c.ContainerNumber,
			telemetry.SpanAttrDirection, string(c.Direction),
		)
		if !freight.CanTransition(c.Direction, c.Status, target) {
			return shared.NewDomainErrorf(shared.ErrInvalidTransition.Code,
				"invalid status transition from %s to %s", c.Status, target)
		}

		switch target {
		case freight.ContainerStatusReceived:
			err = s.receive(ctx, repos, c)
		case freight.ContainerStatusPutAway:
			err = s.checkPutAway(ctx, repos, c)
		case freight.ContainerStatusPickedUp:
			err = s.pickUp(ctx, repos, c)
		case freight.ContainerStatusDispatched:
			err = shared.NewDomainError("DISPATCH_REQUIRED", "Containers are dispatched by starting a dispatch")
		}
		if err != nil {
			return err
		}

		if err := c.TransitionTo(target, actorID); err != nil {
			return err
		}
		if err := repos.ContainerRepo().Save(ctx, c); err != nil {
			return err
		}
		repos.Track(c)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)

	s.logger.Info("Container status changed",
		zap.String("container_id", c.ID.String()),
		zap.String("container_number", c.ContainerNumber),
		zap.String("status", string(c.Status)),
	)
	resp := ToContainerResponse(c)
	return &resp, nil
}

// receive starts the booking and defaults every uncounted line to its expected quantity
func (s *ContainerService) receive(ctx context.Context, repos scope.TransactionalRepositories, c *freight.Container) error {
	if err := startBooking(ctx, repos, c); err != nil {
		return err
	}
	lines, err := repos.ProductLineRepo().FindByContainer(ctx, c.TenantID, c.ID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].DefaultReceived()
	}
	return repos.ProductLineRepo().SaveBatch(ctx, lines)
}

func (s *ContainerService) checkPutAway(ctx context.Context, repos scope.TransactionalRepositories, c *freight.Container) error {
	lines, err := repos.ProductLineRepo().FindByContainer(ctx, c.TenantID, c.ID)
	if err != nil {
		return err
	}
	putAways, err := repos.PutAwayRepo().FindByContainer(ctx, c.TenantID, c.ID)
	if err != nil {
		return err
	}
	return stock.CheckPutAwayComplete(lines, putAways)
}

// pickUp checks every allocation is fully picked and moves them all to picked_up
func (s *ContainerService) pickUp(ctx context.Context, repos scope.TransactionalRepositories, c *freight.Container) error {
	if err := startBooking(ctx, repos, c); err != nil {
		return err
	}
	allocs, err := repos.AllocationRepo().FindByContainerForUpdate(ctx, c.TenantID, c.ID)
	if err != nil {
		return err
	}
	if err := stock.CheckPickupComplete(allocs); err != nil {
		return err
	}
	for i := range allocs {
		if err := allocs[i].MarkPickedUp(); err != nil {
			return err
		}
		if err := repos.AllocationRepo().Save(ctx, &allocs[i]); err != nil {
			return err
		}
	}
	return nil
}

// startBooking moves a confirmed booking to in_progress on its first container movement
func startBooking(ctx context.Context, repos scope.TransactionalRepositories, c *freight.Container) error {
	b, err := repos.BookingRepo().FindByIDForUpdate(ctx, c.TenantID, c.BookingID)
	if err != nil {
		return err
	}
	if b.Status == freight.BookingStatusInProgress {
		return nil
	}
	if err := b.MarkInProgress(); err != nil {
		return err
	}
	if err := repos.BookingRepo().Save(ctx, b); err != nil {
		return err
	}
	repos.Track(b)
	return nil
}

// History returns the recorded status changes of a container, oldest first
func (s *ContainerService) History(ctx context.Context, tenantID, id uuid.UUID) ([]StatusHistoryResponse, error) {
	if _, err := s.containerRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.FindByContainer(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return query.Map(entries, ToStatusHistoryResponse), nil
}
