// Package warehouse implements warehouse management use cases.
package warehouse

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/stock"
	"github.com/tms/backend/internal/domain/warehouse"
	"go.uber.org/zap"
)

// WarehouseService handles warehouse-related business operations
type WarehouseService struct {
	warehouseRepo warehouse.WarehouseRepository
	putAwayRepo   stock.PutAwayRepository
	bookingRepo   freight.BookingRepository
	txScope       scope.TransactionScope
	logger        *zap.Logger
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo warehouse.WarehouseRepository,
	putAwayRepo stock.PutAwayRepository,
	bookingRepo freight.BookingRepository,
	txScope scope.TransactionScope,
	logger *zap.Logger,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		putAwayRepo:   putAwayRepo,
		bookingRepo:   bookingRepo,
		txScope:       txScope,
		logger:        logger,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Warehouse with this code already exists")
	}

	w, err := warehouse.NewWarehouse(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := w.Update(req.Name, req.Address, req.City, req.Country); err != nil {
		return nil, err
	}
	if req.ContactName != "" || req.ContactPhone != "" {
		w.SetContact(req.ContactName, req.ContactPhone)
	}
	if req.CapacityCBM != nil {
		if err := w.SetCapacity(req.CapacityCBM); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		w.SetNotes(req.Notes)
	}
	w.SetCreatedBy(actorID)

	err = s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		if err := repos.WarehouseRepo().Save(ctx, w); err != nil {
			return err
		}
		repos.Track(w)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Warehouse created", zap.String("warehouse_id", w.ID.String()), zap.String("code", w.Code))
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// GetByID retrieves a warehouse
func (s *WarehouseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// List lists warehouses; the "status" filter and search on code/name/city are supported
func (s *WarehouseService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[WarehouseResponse], error) {
	filter = filter.Normalize()
	items, err := s.warehouseRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.warehouseRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToWarehouseResponse), total, filter), nil
}

// Update updates a warehouse
func (s *WarehouseService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, address, city, country := w.Name, w.Address, w.City, w.Country
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.City != nil {
		city = *req.City
	}
	if req.Country != nil {
		country = *req.Country
	}
	if err := w.Update(name, address, city, country); err != nil {
		return nil, err
	}

	if req.ContactName != nil || req.ContactPhone != nil {
		contactName, contactPhone := w.ContactName, w.ContactPhone
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.ContactPhone != nil {
			contactPhone = *req.ContactPhone
		}
		w.SetContact(contactName, contactPhone)
	}
	if req.CapacityCBM != nil {
		capacity := req.CapacityCBM
		if capacity.IsZero() {
			capacity = nil
		}
		if err := w.SetCapacity(capacity); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		w.SetNotes(*req.Notes)
	}

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Activate lets the warehouse take new bookings and put-away stock
func (s *WarehouseService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*WarehouseResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*warehouse.Warehouse).Activate)
}

// Deactivate stops new bookings and put-aways at the warehouse
func (s *WarehouseService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*WarehouseResponse, error) {
	return s.changeStatus(ctx, tenantID, id, (*warehouse.Warehouse).Deactivate)
}

func (s *WarehouseService) changeStatus(ctx context.Context, tenantID, id uuid.UUID, apply func(*warehouse.Warehouse) error) (*WarehouseResponse, error) {
	var w *warehouse.Warehouse
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		w, err = repos.WarehouseRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := apply(w); err != nil {
			return err
		}
		if err := repos.WarehouseRepo().Save(ctx, w); err != nil {
			return err
		}
		repos.Track(w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Warehouse status changed", zap.String("warehouse_id", id.String()), zap.String("status", string(w.Status)))
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Delete removes a warehouse that holds no stock and no open bookings
func (s *WarehouseService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	w, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	stocked, err := s.putAwayRepo.CountWithStockByWarehouse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if stocked > 0 {
		return shared.NewDomainErrorf("WAREHOUSE_IN_USE", "Warehouse %s still holds put-away stock", w.Code)
	}
	bookings, err := s.bookingRepo.CountByWarehouse(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if bookings > 0 {
		return shared.NewDomainErrorf("WAREHOUSE_IN_USE", "Warehouse %s is referenced by %d open booking(s)", w.Code, bookings)
	}

	if err := s.warehouseRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Warehouse deleted", zap.String("warehouse_id", id.String()), zap.String("code", w.Code))
	return nil
}
