package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/stock"
)

// PutAwayHandler handles put-away stock endpoints
type PutAwayHandler struct {
	BaseHandler
	putAwayService *stock.PutAwayService
}

// NewPutAwayHandler creates a new PutAwayHandler
func NewPutAwayHandler(putAwayService *stock.PutAwayService) *PutAwayHandler {
	return &PutAwayHandler{putAwayService: putAwayService}
}

// List godoc
// @ID           listPutAwayStock
// @Summary      List put-away stock
// @Tags         put-away-stock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        container_id query string false "Container ID" format(uuid)
// @Param        product_line_id query string false "Product line ID" format(uuid)
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        sku query string false "SKU"
// @Param        location_code query string false "Location code"
// @Param        available_only query bool false "Only rows with unallocated quantity"
// @Success      200 {object} APIResponse[[]stock.PutAwayResponse]
// @Router       /put-away-stock [get]
func (h *PutAwayHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.putAwayService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createPutAwayStock
// @Summary      Put received goods away
// @Description  The container must be received and the total put away may not exceed the received quantity
// @Tags         put-away-stock
// @Accept       json
// @Produce      json
// @Param        request body stock.CreatePutAwayRequest true "Put-away"
// @Success      201 {object} APIResponse[stock.PutAwayResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /put-away-stock [post]
func (h *PutAwayHandler) Create(c *gin.Context) {
	var req stock.CreatePutAwayRequest
	if !h.bind(c, &req) {
		return
	}
	pa, err := h.putAwayService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pa)
}

// Get godoc
// @ID           getPutAwayStock
// @Summary      Get a put-away row
// @Tags         put-away-stock
// @Produce      json
// @Param        id path string true "Put-away ID" format(uuid)
// @Success      200 {object} APIResponse[stock.PutAwayResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /put-away-stock/{id} [get]
func (h *PutAwayHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*stock.PutAwayResponse, error) {
		return h.putAwayService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updatePutAwayStock
// @Summary      Correct a put-away row
// @Tags         put-away-stock
// @Accept       json
// @Produce      json
// @Param        id path string true "Put-away ID" format(uuid)
// @Param        request body stock.UpdatePutAwayRequest true "Changes"
// @Success      200 {object} APIResponse[stock.PutAwayResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /put-away-stock/{id} [put]
func (h *PutAwayHandler) Update(c *gin.Context) {
	var req stock.UpdatePutAwayRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*stock.PutAwayResponse, error) {
		return h.putAwayService.Update(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deletePutAwayStock
// @Summary      Delete a put-away row
// @Description  Rows with allocations cannot be deleted
// @Tags         put-away-stock
// @Param        id path string true "Put-away ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /put-away-stock/{id} [delete]
func (h *PutAwayHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.putAwayService.Delete(ctx, tenantID(c), id)
	})
}

// AllocationHandler handles export stock allocation endpoints
type AllocationHandler struct {
	BaseHandler
	allocationService *stock.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *stock.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// List godoc
// @ID           listContainerStockAllocations
// @Summary      List allocations
// @Tags         container-stock-allocations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        container_id query string false "Container ID" format(uuid)
// @Param        put_away_stock_id query string false "Put-away ID" format(uuid)
// @Param        status query string false "Allocation status"
// @Success      200 {object} APIResponse[[]stock.AllocationResponse]
// @Router       /container-stock-allocations [get]
func (h *AllocationHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.allocationService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createContainerStockAllocation
// @Summary      Allocate put-away stock to an export container
// @Tags         container-stock-allocations
// @Accept       json
// @Produce      json
// @Param        request body stock.CreateAllocationRequest true "Allocation"
// @Success      201 {object} APIResponse[stock.AllocationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-stock-allocations [post]
func (h *AllocationHandler) Create(c *gin.Context) {
	var req stock.CreateAllocationRequest
	if !h.bind(c, &req) {
		return
	}
	a, err := h.allocationService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// Get godoc
// @ID           getContainerStockAllocation
// @Summary      Get an allocation
// @Tags         container-stock-allocations
// @Produce      json
// @Param        id path string true "Allocation ID" format(uuid)
// @Success      200 {object} APIResponse[stock.AllocationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /container-stock-allocations/{id} [get]
func (h *AllocationHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*stock.AllocationResponse, error) {
		return h.allocationService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateContainerStockAllocation
// @Summary      Resize an allocation
// @Tags         container-stock-allocations
// @Accept       json
// @Produce      json
// @Param        id path string true "Allocation ID" format(uuid)
// @Param        request body stock.UpdateAllocationRequest true "Quantity"
// @Success      200 {object} APIResponse[stock.AllocationResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-stock-allocations/{id} [put]
func (h *AllocationHandler) Update(c *gin.Context) {
	var req stock.UpdateAllocationRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*stock.AllocationResponse, error) {
		return h.allocationService.Update(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteContainerStockAllocation
// @Summary      Release an allocation
// @Tags         container-stock-allocations
// @Param        id path string true "Allocation ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /container-stock-allocations/{id} [delete]
func (h *AllocationHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.allocationService.Delete(ctx, tenantID(c), id)
	})
}

// PickupHandler handles pickup stock endpoints. Pickups are corrected by
// deleting and recording them again.
type PickupHandler struct {
	BaseHandler
	pickupService *stock.PickupService
}

// NewPickupHandler creates a new PickupHandler
func NewPickupHandler(pickupService *stock.PickupService) *PickupHandler {
	return &PickupHandler{pickupService: pickupService}
}

// List godoc
// @ID           listPickupStock
// @Summary      List pickups
// @Tags         pickup-stock
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        allocation_id query string false "Allocation ID" format(uuid)
// @Param        container_id query string false "Container ID" format(uuid)
// @Success      200 {object} APIResponse[[]stock.PickupResponse]
// @Router       /pickup-stock [get]
func (h *PickupHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.pickupService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createPickupStock
// @Summary      Record a pickup against an allocation
// @Tags         pickup-stock
// @Accept       json
// @Produce      json
// @Param        request body stock.CreatePickupRequest true "Pickup"
// @Success      201 {object} APIResponse[stock.PickupResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /pickup-stock [post]
func (h *PickupHandler) Create(c *gin.Context) {
	var req stock.CreatePickupRequest
	if !h.bind(c, &req) {
		return
	}
	p, err := h.pickupService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Get godoc
// @ID           getPickupStock
// @Summary      Get a pickup
// @Tags         pickup-stock
// @Produce      json
// @Param        id path string true "Pickup ID" format(uuid)
// @Success      200 {object} APIResponse[stock.PickupResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /pickup-stock/{id} [get]
func (h *PickupHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*stock.PickupResponse, error) {
		return h.pickupService.GetByID(ctx, tenantID(c), id)
	})
}

// Delete godoc
// @ID           deletePickupStock
// @Summary      Delete a pickup
// @Tags         pickup-stock
// @Param        id path string true "Pickup ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /pickup-stock/{id} [delete]
func (h *PickupHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.pickupService.Delete(ctx, tenantID(c), id)
	})
}
