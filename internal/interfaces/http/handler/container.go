package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/freight"
)

// ContainerHandler handles container endpoints
type ContainerHandler struct {
	BaseHandler
	containerService *freight.ContainerService
}

// NewContainerHandler creates a new ContainerHandler
func NewContainerHandler(containerService *freight.ContainerService) *ContainerHandler {
	return &ContainerHandler{containerService: containerService}
}

// List godoc
// @ID           listContainers
// @Summary      List containers
// @Tags         container-details
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search container or seal number"
// @Param        booking_id query string false "Booking ID" format(uuid)
// @Param        direction query string false "import or export"
// @Param        status query string false "Container status"
// @Param        size query string false "Container size"
// @Success      200 {object} APIResponse[[]freight.ContainerResponse]
// @Router       /container-details [get]
func (h *ContainerHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.containerService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createContainer
// @Summary      Add a container to a booking
// @Description  Import containers start as expecting, export containers as allocated
// @Tags         container-details
// @Accept       json
// @Produce      json
// @Param        request body freight.CreateContainerRequest true "Container"
// @Success      201 {object} APIResponse[freight.ContainerResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-details [post]
func (h *ContainerHandler) Create(c *gin.Context) {
	var req freight.CreateContainerRequest
	if !h.bind(c, &req) {
		return
	}
	ctr, err := h.containerService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ctr)
}

// Get godoc
// @ID           getContainer
// @Summary      Get a container
// @Tags         container-details
// @Produce      json
// @Param        id path string true "Container ID" format(uuid)
// @Success      200 {object} APIResponse[freight.ContainerResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /container-details/{id} [get]
func (h *ContainerHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.ContainerResponse, error) {
		return h.containerService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateContainer
// @Summary      Update a container
// @Tags         container-details
// @Accept       json
// @Produce      json
// @Param        id path string true "Container ID" format(uuid)
// @Param        request body freight.UpdateContainerRequest true "Changes"
// @Success      200 {object} APIResponse[freight.ContainerResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-details/{id} [put]
func (h *ContainerHandler) Update(c *gin.Context) {
	var req freight.UpdateContainerRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.ContainerResponse, error) {
		return h.containerService.Update(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteContainer
// @Summary      Delete a container
// @Description  Only containers in their first status without stock can be deleted
// @Tags         container-details
// @Param        id path string true "Container ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /container-details/{id} [delete]
func (h *ContainerHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.containerService.Delete(ctx, tenantID(c), id)
	})
}

// ChangeStatus godoc
// @ID           changeContainerStatus
// @Summary      Advance a container
// @Description  Import: expecting, received, put_away. Export: allocated, picked_up, dispatched.
// @Description  Each step checks that the recorded quantities reconcile.
// @Tags         container-details
// @Accept       json
// @Produce      json
// @Param        id path string true "Container ID" format(uuid)
// @Param        request body freight.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[freight.ContainerResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-details/{id}/status [post]
func (h *ContainerHandler) ChangeStatus(c *gin.Context) {
	var req freight.ChangeStatusRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.ContainerResponse, error) {
		return h.containerService.ChangeStatus(ctx, tenantID(c), id, userID(c), req)
	})
}

// History godoc
// @ID           getContainerHistory
// @Summary      Container status history
// @Tags         container-details
// @Produce      json
// @Param        id path string true "Container ID" format(uuid)
// @Success      200 {object} APIResponse[[]freight.StatusHistoryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /container-details/{id}/history [get]
func (h *ContainerHandler) History(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	history, err := h.containerService.History(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if history == nil {
		history = []freight.StatusHistoryResponse{}
	}
	h.Success(c, history)
}
