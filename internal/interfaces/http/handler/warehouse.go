package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/warehouse"
)

// WarehouseHandler handles warehouse endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *warehouse.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *warehouse.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Tags         warehouses
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search code, name or city"
// @Param        status query string false "active or inactive"
// @Success      200 {object} APIResponse[[]warehouse.WarehouseResponse]
// @Router       /warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.warehouseService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a warehouse
// @Description  Warehouse codes are unique per tenant
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        request body warehouse.CreateWarehouseRequest true "Warehouse"
// @Success      201 {object} APIResponse[warehouse.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req warehouse.CreateWarehouseRequest
	if !h.bind(c, &req) {
		return
	}
	w, err := h.warehouseService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, w)
}

// Get godoc
// @ID           getWarehouse
// @Summary      Get a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[warehouse.WarehouseResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /warehouses/{id} [get]
func (h *WarehouseHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*warehouse.WarehouseResponse, error) {
		return h.warehouseService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Tags         warehouses
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body warehouse.UpdateWarehouseRequest true "Changes"
// @Success      200 {object} APIResponse[warehouse.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	var req warehouse.UpdateWarehouseRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*warehouse.WarehouseResponse, error) {
		return h.warehouseService.Update(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteWarehouse
// @Summary      Delete a warehouse
// @Description  Warehouses referenced by bookings or stock cannot be deleted
// @Tags         warehouses
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /warehouses/{id} [delete]
func (h *WarehouseHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.warehouseService.Delete(ctx, tenantID(c), id)
	})
}

// Activate godoc
// @ID           activateWarehouse
// @Summary      Activate a warehouse
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[warehouse.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /warehouses/{id}/activate [post]
func (h *WarehouseHandler) Activate(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*warehouse.WarehouseResponse, error) {
		return h.warehouseService.Activate(ctx, tenantID(c), id)
	})
}

// Deactivate godoc
// @ID           deactivateWarehouse
// @Summary      Deactivate a warehouse
// @Description  Inactive warehouses accept no new bookings or put-away
// @Tags         warehouses
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[warehouse.WarehouseResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /warehouses/{id}/deactivate [post]
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*warehouse.WarehouseResponse, error) {
		return h.warehouseService.Deactivate(ctx, tenantID(c), id)
	})
}
