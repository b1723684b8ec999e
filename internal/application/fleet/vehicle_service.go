package fleet

import (
	"context"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/domain/fleet"
	"github.com/tms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VehicleService handles vehicle-related business operations
type VehicleService struct {
	vehicleRepo fleet.VehicleRepository
	logger      *zap.Logger
}

// NewVehicleService creates a new VehicleService
func NewVehicleService(vehicleRepo fleet.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo, logger: logger}
}

// Create creates a new vehicle
func (s *VehicleService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateVehicleRequest) (*VehicleResponse, error) {
	exists, err := s.vehicleRepo.ExistsByRegistration(ctx, tenantID, req.Registration)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Vehicle with this registration already exists")
	}

	v, err := fleet.NewVehicle(tenantID, req.Registration, fleet.VehicleType(req.Type))
	if err != nil {
		return nil, err
	}
	payload := v.MaxPayloadKg
	if req.MaxPayloadKg != nil {
		payload = *req.MaxPayloadKg
	}
	if err := v.Update(v.Type, req.Make, req.Model, payload, req.Notes); err != nil {
		return nil, err
	}
	v.SetCreatedBy(actorID)

	if err := s.vehicleRepo.Save(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("Vehicle created", zap.String("vehicle_id", v.ID.String()), zap.String("registration", v.Registration))
	resp := ToVehicleResponse(v)
	return &resp, nil
}

// GetByID retrieves a vehicle
func (s *VehicleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToVehicleResponse(v)
	return &resp, nil
}

// List lists vehicles; supports "status" and "type" filters and search on registration
func (s *VehicleService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[VehicleResponse], error) {
	filter = filter.Normalize()
	items, err := s.vehicleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.vehicleRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToVehicleResponse), total, filter), nil
}

// Update updates a vehicle
func (s *VehicleService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateVehicleRequest) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	vehicleType, manufacturer, model, payload, notes := v.Type, v.Make, v.Model, v.MaxPayloadKg, v.Notes
	if req.Type != nil {
		vehicleType = fleet.VehicleType(*req.Type)
	}
	if req.Make != nil {
		manufacturer = *req.Make
	}
	if req.Model != nil {
		model = *req.Model
	}
	if req.MaxPayloadKg != nil {
		payload = *req.MaxPayloadKg
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := v.Update(vehicleType, manufacturer, model, payload, notes); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Save(ctx, v); err != nil {
		return nil, err
	}
	resp := ToVehicleResponse(v)
	return &resp, nil
}

// SetStatus changes a vehicle's availability
func (s *VehicleService) SetStatus(ctx context.Context, tenantID, id uuid.UUID, req SetStatusRequest) (*VehicleResponse, error) {
	v, err := s.vehicleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := v.SetStatus(fleet.VehicleStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.vehicleRepo.Save(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("Vehicle status changed", zap.String("vehicle_id", id.String()), zap.String("status", req.Status))
	resp := ToVehicleResponse(v)
	return &resp, nil
}

// Delete removes a vehicle that is not in use
func (s *VehicleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	v, err := s.vehicleRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !v.CanDelete() {
		return shared.NewDomainErrorf("VEHICLE_IN_USE", "Vehicle %s is on an active dispatch", v.Registration)
	}
	if err := s.vehicleRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Vehicle deleted", zap.String("vehicle_id", id.String()))
	return nil
}
