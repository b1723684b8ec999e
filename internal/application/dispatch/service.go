// Package dispatch implements dispatch planning and execution: starting a
// dispatch ships its export container, completing it frees the crew and may
// close the booking.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const numberAttempts = 3

// DispatchService handles dispatch operations
type DispatchService struct {
	dispatchRepo dispatch.DispatchRepository
	txScope      scope.TransactionScope
	logger       *zap.Logger
	now          func() time.Time
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(dispatchRepo dispatch.DispatchRepository, txScope scope.TransactionScope, logger *zap.Logger) *DispatchService {
	return &DispatchService{
		dispatchRepo: dispatchRepo,
		txScope:      txScope,
		logger:       logger,
		now:          time.Now,
	}
}

// Create plans a dispatch for a picked-up export container
func (s *DispatchService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateDispatchRequest) (*DispatchResponse, error) {
	day := s.now().UTC()
	var d *dispatch.Dispatch
	var err error
	for attempt := 1; attempt <= numberAttempts; attempt++ {
		err = s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
			c, err := repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, req.ContainerID)
			if err != nil {
				return err
			}
			active, err := repos.DispatchRepo().ExistsActiveForContainer(ctx, tenantID, c.ID, uuid.Nil)
			if err != nil {
				return err
			}
			if active {
				return shared.NewDomainErrorf("DISPATCH_EXISTS", "Container %s already has an active dispatch", c.ContainerNumber)
			}
			b, err := repos.BookingRepo().FindByIDForTenant(ctx, tenantID, c.BookingID)
			if err != nil {
				return err
			}
			driver, err := repos.DriverRepo().FindByIDForUpdate(ctx, tenantID, req.DriverID)
			if err != nil {
				return err
			}
			vehicle, err := repos.VehicleRepo().FindByIDForUpdate(ctx, tenantID, req.VehicleID)
			if err != nil {
				return err
			}

			prefix := dispatch.NumberDayPrefix(day)
			last, err := repos.DispatchRepo().LastNumberWithPrefix(ctx, tenantID, prefix)
			if err != nil {
				return err
			}
			d, err = dispatch.NewDispatch(dispatch.FormatNumber(day, shared.NextSequence(prefix, last)), c, b, driver, vehicle, dispatch.Details{
				DestinationAddress: req.DestinationAddress,
				ScheduledAt:        req.ScheduledAt,
				Remarks:            req.Remarks,
			})
			if err != nil {
				return err
			}
			d.SetCreatedBy(actorID)
			if err := repos.DispatchRepo().Save(ctx, d); err != nil {
				return err
			}
			repos.Track(d)
			return nil
		})
		if !errors.Is(err, shared.ErrAlreadyExists) {
			break
		}
		s.logger.Warn("Dispatch number taken, retrying", zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dispatch planned",
		zap.String("dispatch_id", d.ID.String()),
		zap.String("dispatch_number", d.DispatchNumber),
		zap.String("container_id", d.ContainerID.String()),
	)
	resp := ToDispatchResponse(d)
	return &resp, nil
}

// GetByID retrieves a dispatch
func (s *DispatchService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DispatchResponse, error) {
	d, err := s.dispatchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDispatchResponse(d)
	return &resp, nil
}

// List lists dispatches; supports "status", "container_id", "driver_id" and "vehicle_id" filters
func (s *DispatchService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[DispatchResponse], error) {
	filter = filter.Normalize()
	items, err := s.dispatchRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.dispatchRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToDispatchResponse), total, filter), nil
}

// Update changes the details or crew of a planned dispatch
func (s *DispatchService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateDispatchRequest) (*DispatchResponse, error) {
	var d *dispatch.Dispatch
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		d, err = repos.DispatchRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}

		details := d.Details
		if req.DestinationAddress != nil {
			details.DestinationAddress = *req.DestinationAddress
		}
		if req.ScheduledAt != nil {
			details.ScheduledAt = *req.ScheduledAt
		}
		if req.Remarks != nil {
			details.Remarks = *req.Remarks
		}
		if err := d.Update(details); err != nil {
			return err
		}

		driverID, vehicleID := d.DriverID, d.VehicleID
		if req.DriverID != nil {
			driverID = *req.DriverID
		}
		if req.VehicleID != nil {
			vehicleID = *req.VehicleID
		}
		if driverID != d.DriverID || vehicleID != d.VehicleID {
			driver, err := repos.DriverRepo().FindByIDForUpdate(ctx, tenantID, driverID)
			if err != nil {
				return err
			}
			vehicle, err := repos.VehicleRepo().FindByIDForUpdate(ctx, tenantID, vehicleID)
			if err != nil {
				return err
			}
			if err := d.Reassign(driver, vehicle); err != nil {
				return err
			}
		}
		return repos.DispatchRepo().Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	resp := ToDispatchResponse(d)
	return &resp, nil
}

// Delete removes a planned or cancelled dispatch
func (s *DispatchService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	d, err := s.dispatchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !d.CanDelete() {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot delete a dispatch that is %s", d.Status)
	}
	if err := s.dispatchRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Dispatch deleted", zap.String("dispatch_id", id.String()), zap.String("dispatch_number", d.DispatchNumber))
	return nil
}

// Start puts a planned dispatch on the road. In one transaction the driver goes
// on duty, the vehicle into use, every allocation of the container ships from
// its put-away row and the container moves to dispatched.
func (s *DispatchService) Start(ctx context.Context, tenantID, id, actorID uuid.UUID) (*DispatchResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dispatch", "start")
	defer span.End()

	var d *dispatch.Dispatch
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		d, err = repos.DispatchRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		telemetry.SetAttributes(span,
			telemetry.SpanAttrDispatchNumber, d.DispatchNumber,
			telemetry.SpanAttrDriverID, d.DriverID.String(),
			telemetry.SpanAttrVehicleID, d.VehicleID.String(),
		)
		driver, err := repos.DriverRepo().FindByIDForUpdate(ctx, tenantID, d.DriverID)
		if err != nil {
			return err
		}
		vehicle, err := repos.VehicleRepo().FindByIDForUpdate(ctx, tenantID, d.VehicleID)
		if err != nil {
			return err
		}
		c, err := repos.ContainerRepo().FindByIDForUpdate(ctx, tenantID, d.ContainerID)
		if err != nil {
			return err
		}

		if err := d.Start(driver, vehicle); err != nil {
			return err
		}

		allocs, err := repos.AllocationRepo().FindByContainerForUpdate(ctx, tenantID, c.ID)
		if err != nil {
			return err
		}
		for i := range allocs {
			source, err := repos.PutAwayRepo().FindByIDForUpdate(ctx, tenantID, allocs[i].PutAwayStockID)
			if err != nil {
				return err
			}
			if err := allocs[i].MarkDispatched(source); err != nil {
				return err
			}
			if err := repos.PutAwayRepo().Save(ctx, source); err != nil {
				return err
			}
			if err := repos.AllocationRepo().Save(ctx, &allocs[i]); err != nil {
				return err
			}
		}
		if err := c.TransitionTo(freight.ContainerStatusDispatched, actorID); err != nil {
			return err
		}

		if err := repos.ContainerRepo().Save(ctx, c); err != nil {
			return err
		}
		if err := repos.DriverRepo().Save(ctx, driver); err != nil {
			return err
		}
		if err := repos.VehicleRepo().Save(ctx, vehicle); err != nil {
			return err
		}
		if err := repos.DispatchRepo().Save(ctx, d); err != nil {
			return err
		}
		repos.Track(d, c)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.AddEvent(span, "container_dispatched", "container_id", d.ContainerID.String())

	s.logger.Info("Dispatch started", zap.String("dispatch_id", id.String()), zap.String("dispatch_number", d.DispatchNumber))
	resp := ToDispatchResponse(d)
	return &resp, nil
}

// Complete records delivery, frees the crew and completes the booking once
// every one of its containers is dispatched
func (s *DispatchService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*DispatchResponse, error) {
	var d *dispatch.Dispatch
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		d, err = repos.DispatchRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		driver, err := repos.DriverRepo().FindByIDForUpdate(ctx, tenantID, d.DriverID)
		if err != nil {
			return err
		}
		vehicle, err := repos.VehicleRepo().FindByIDForUpdate(ctx, tenantID, d.VehicleID)
		if err != nil {
			return err
		}
		if err := d.Complete(driver, vehicle); err != nil {
			return err
		}
		if err := repos.DriverRepo().Save(ctx, driver); err != nil {
			return err
		}
		if err := repos.VehicleRepo().Save(ctx, vehicle); err != nil {
			return err
		}
		if err := repos.DispatchRepo().Save(ctx, d); err != nil {
			return err
		}
		repos.Track(d)
		return completeBooking(ctx, repos, tenantID, d.ContainerID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dispatch delivered", zap.String("dispatch_id", id.String()), zap.String("dispatch_number", d.DispatchNumber))
	resp := ToDispatchResponse(d)
	return &resp, nil
}

// completeBooking closes the container's booking when all its containers are terminal
func completeBooking(ctx context.Context, repos scope.TransactionalRepositories, tenantID, containerID uuid.UUID) error {
	c, err := repos.ContainerRepo().FindByIDForTenant(ctx, tenantID, containerID)
	if err != nil {
		return err
	}
	b, err := repos.BookingRepo().FindByIDForUpdate(ctx, tenantID, c.BookingID)
	if err != nil {
		return err
	}
	if b.Status != freight.BookingStatusConfirmed && b.Status != freight.BookingStatusInProgress {
		return nil
	}
	containers, err := repos.ContainerRepo().FindByBooking(ctx, tenantID, b.ID)
	if err != nil {
		return err
	}
	for i := range containers {
		if !containers[i].IsTerminal() {
			return nil
		}
	}
	if err := b.Complete(containers); err != nil {
		return err
	}
	if err := repos.BookingRepo().Save(ctx, b); err != nil {
		return err
	}
	repos.Track(b)
	return nil
}

// Cancel abandons a planned dispatch
func (s *DispatchService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*DispatchResponse, error) {
	var d *dispatch.Dispatch
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		d, err = repos.DispatchRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := d.Cancel(); err != nil {
			return err
		}
		if err := repos.DispatchRepo().Save(ctx, d); err != nil {
			return err
		}
		repos.Track(d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Dispatch cancelled", zap.String("dispatch_id", id.String()), zap.String("dispatch_number", d.DispatchNumber))
	resp := ToDispatchResponse(d)
	return &resp, nil
}
