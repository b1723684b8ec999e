package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/fleet"
)

// DriverHandler handles driver endpoints
type DriverHandler struct {
	BaseHandler
	driverService *fleet.DriverService
}

// NewDriverHandler creates a new DriverHandler
func NewDriverHandler(driverService *fleet.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// List godoc
// @ID           listDrivers
// @Summary      List drivers
// @Tags         drivers
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search name or license"
// @Param        status query string false "available, on_duty, off_duty or inactive"
// @Success      200 {object} APIResponse[[]fleet.DriverResponse]
// @Router       /drivers [get]
func (h *DriverHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.driverService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createDriver
// @Summary      Create a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        request body fleet.CreateDriverRequest true "Driver"
// @Success      201 {object} APIResponse[fleet.DriverResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /drivers [post]
func (h *DriverHandler) Create(c *gin.Context) {
	var req fleet.CreateDriverRequest
	if !h.bind(c, &req) {
		return
	}
	d, err := h.driverService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, d)
}

// Get godoc
// @ID           getDriver
// @Summary      Get a driver
// @Tags         drivers
// @Produce      json
// @Param        id path string true "Driver ID" format(uuid)
// @Success      200 {object} APIResponse[fleet.DriverResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /drivers/{id} [get]
func (h *DriverHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*fleet.DriverResponse, error) {
		return h.driverService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateDriver
// @Summary      Update a driver
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        id path string true "Driver ID" format(uuid)
// @Param        request body fleet.UpdateDriverRequest true "Changes"
// @Success      200 {object} APIResponse[fleet.DriverResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /drivers/{id} [put]
func (h *DriverHandler) Update(c *gin.Context) {
	var req fleet.UpdateDriverRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*fleet.DriverResponse, error) {
		return h.driverService.Update(ctx, tenantID(c), id, req)
	})
}

// SetStatus godoc
// @ID           setDriverStatus
// @Summary      Change driver availability
// @Description  A driver on an active dispatch cannot be set available or off duty
// @Tags         drivers
// @Accept       json
// @Produce      json
// @Param        id path string true "Driver ID" format(uuid)
// @Param        request body fleet.SetStatusRequest true "Status"
// @Success      200 {object} APIResponse[fleet.DriverResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /drivers/{id}/status [post]
func (h *DriverHandler) SetStatus(c *gin.Context) {
	var req fleet.SetStatusRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*fleet.DriverResponse, error) {
		return h.driverService.SetStatus(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteDriver
// @Summary      Delete a driver
// @Tags         drivers
// @Param        id path string true "Driver ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /drivers/{id} [delete]
func (h *DriverHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.driverService.Delete(ctx, tenantID(c), id)
	})
}

// VehicleHandler handles vehicle endpoints
type VehicleHandler struct {
	BaseHandler
	vehicleService *fleet.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler
func NewVehicleHandler(vehicleService *fleet.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// List godoc
// @ID           listVehicles
// @Summary      List vehicles
// @Tags         vehicles
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search registration, make or model"
// @Param        status query string false "available, in_use, maintenance or retired"
// @Success      200 {object} APIResponse[[]fleet.VehicleResponse]
// @Router       /vehicles [get]
func (h *VehicleHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.vehicleService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createVehicle
// @Summary      Create a vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        request body fleet.CreateVehicleRequest true "Vehicle"
// @Success      201 {object} APIResponse[fleet.VehicleResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /vehicles [post]
func (h *VehicleHandler) Create(c *gin.Context) {
	var req fleet.CreateVehicleRequest
	if !h.bind(c, &req) {
		return
	}
	v, err := h.vehicleService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, v)
}

// Get godoc
// @ID           getVehicle
// @Summary      Get a vehicle
// @Tags         vehicles
// @Produce      json
// @Param        id path string true "Vehicle ID" format(uuid)
// @Success      200 {object} APIResponse[fleet.VehicleResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /vehicles/{id} [get]
func (h *VehicleHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*fleet.VehicleResponse, error) {
		return h.vehicleService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateVehicle
// @Summary      Update a vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id path string true "Vehicle ID" format(uuid)
// @Param        request body fleet.UpdateVehicleRequest true "Changes"
// @Success      200 {object} APIResponse[fleet.VehicleResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /vehicles/{id} [put]
func (h *VehicleHandler) Update(c *gin.Context) {
	var req fleet.UpdateVehicleRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*fleet.VehicleResponse, error) {
		return h.vehicleService.Update(ctx, tenantID(c), id, req)
	})
}

// SetStatus godoc
// @ID           setVehicleStatus
// @Summary      Change vehicle availability
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        id path string true "Vehicle ID" format(uuid)
// @Param        request body fleet.SetStatusRequest true "Status"
// @Success      200 {object} APIResponse[fleet.VehicleResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /vehicles/{id}/status [post]
func (h *VehicleHandler) SetStatus(c *gin.Context) {
	var req fleet.SetStatusRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*fleet.VehicleResponse, error) {
		return h.vehicleService.SetStatus(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteVehicle
// @Summary      Delete a vehicle
// @Tags         vehicles
// @Param        id path string true "Vehicle ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.vehicleService.Delete(ctx, tenantID(c), id)
	})
}
