// Package fleet implements driver and vehicle management use cases.
package fleet

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DriverService handles driver-related business operations
type DriverService struct {
	driverRepo fleet.DriverRepository
	logger     *zap.Logger
}

// NewDriverService creates a new DriverService
func NewDriverService(driverRepo fleet.DriverRepository, logger *zap.Logger) *DriverService {
	return &DriverService{driverRepo: driverRepo, logger: logger}
}

// Create creates a new driver
func (s *DriverService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateDriverRequest) (*DriverResponse, error) {
	exists, err := s.driverRepo.ExistsByLicense(ctx, tenantID, req.LicenseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Driver with this license number already exists")
	}

	d, err := fleet.NewDriver(tenantID, req.Name, req.LicenseNumber)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.Name, req.Phone, req.LicenseExpiry, req.Notes); err != nil {
		return nil, err
	}
	d.SetCreatedBy(actorID)

	if err := s.driverRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Driver created", zap.String("driver_id", d.ID.String()), zap.String("license", d.LicenseNumber))
	resp := ToDriverResponse(d)
	return &resp, nil
}

// GetByID retrieves a driver
func (s *DriverService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DriverResponse, error) {
	d, err := s.driverRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDriverResponse(d)
	return &resp, nil
}

// List lists drivers; supports the "status" filter and search on name/license
func (s *DriverService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[DriverResponse], error) {
	filter = filter.Normalize()
	items, err := s.driverRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.driverRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToDriverResponse), total, filter), nil
}

// Update updates a driver
func (s *DriverService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateDriverRequest) (*DriverResponse, error) {
	d, err := s.driverRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, phone, expiry, notes := d.Name, d.Phone, d.LicenseExpiry, d.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.LicenseExpiry != nil {
		expiry = req.LicenseExpiry
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := d.Update(name, phone, expiry, notes); err != nil {
		return nil, err
	}

	if err := s.driverRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDriverResponse(d)
	return &resp, nil
}

// SetStatus changes a driver's availability
func (s *DriverService) SetStatus(ctx context.Context, tenantID, id uuid.UUID, req SetStatusRequest) (*DriverResponse, error) {
	d, err := s.driverRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := d.SetStatus(fleet.DriverStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.driverRepo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("Driver status changed", zap.String("driver_id", id.String()), zap.String("status", req.Status))
	resp := ToDriverResponse(d)
	return &resp, nil
}

// Delete removes a driver that is not on duty
func (s *DriverService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	d, err := s.driverRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !d.CanDelete() {
		return shared.NewDomainErrorf("DRIVER_ON_DUTY", "Driver %s is on an active dispatch", d.Name)
	}
	if err := s.driverRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Driver deleted", zap.String("driver_id", id.String()))
	return nil
}
