package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/dispatch"
)

// DispatchHandler handles dispatch and delivery note endpoints
type DispatchHandler struct {
	BaseHandler
	dispatchService *dispatch.DispatchService
	noteService     *dispatch.DeliveryNoteService
}

// NewDispatchHandler creates a new DispatchHandler
func NewDispatchHandler(dispatchService *dispatch.DispatchService, noteService *dispatch.DeliveryNoteService) *DispatchHandler {
	return &DispatchHandler{dispatchService: dispatchService, noteService: noteService}
}

// List godoc
// @ID           listDispatches
// @Summary      List dispatches
// @Tags         dispatches
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search dispatch number or destination"
// @Param        status query string false "planned, in_transit, delivered or cancelled"
// @Param        container_id query string false "Container ID" format(uuid)
// @Param        driver_id query string false "Driver ID" format(uuid)
// @Param        vehicle_id query string false "Vehicle ID" format(uuid)
// @Success      200 {object} APIResponse[[]dispatch.DispatchResponse]
// @Router       /dispatches [get]
func (h *DispatchHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.dispatchService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createDispatch
// @Summary      Schedule a dispatch
// @Description  The container must be picked up, the driver and vehicle available
// @Tags         dispatches
// @Accept       json
// @Produce      json
// @Param        request body dispatch.CreateDispatchRequest true "Dispatch"
// @Success      201 {object} APIResponse[dispatch.DispatchResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /dispatches [post]
func (h *DispatchHandler) Create(c *gin.Context) {
	var req dispatch.CreateDispatchRequest
	if !h.bind(c, &req) {
		return
	}
	d, err := h.dispatchService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, d)
}

// Get godoc
// @ID           getDispatch
// @Summary      Get a dispatch
// @Tags         dispatches
// @Produce      json
// @Param        id path string true "Dispatch ID" format(uuid)
// @Success      200 {object} APIResponse[dispatch.DispatchResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /dispatches/{id} [get]
func (h *DispatchHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*dispatch.DispatchResponse, error) {
		return h.dispatchService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateDispatch
// @Summary      Update a planned dispatch
// @Tags         dispatches
// @Accept       json
// @Produce      json
// @Param        id path string true "Dispatch ID" format(uuid)
// @Param        request body dispatch.UpdateDispatchRequest true "Changes"
// @Success      200 {object} APIResponse[dispatch.DispatchResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /dispatches/{id} [put]
func (h *DispatchHandler) Update(c *gin.Context) {
	var req dispatch.UpdateDispatchRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*dispatch.DispatchResponse, error) {
		return h.dispatchService.Update(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteDispatch
// @Summary      Delete a planned or cancelled dispatch
// @Tags         dispatches
// @Param        id path string true "Dispatch ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /dispatches/{id} [delete]
func (h *DispatchHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.dispatchService.Delete(ctx, tenantID(c), id)
	})
}

// Start godoc
// @ID           startDispatch
// @Summary      Start a dispatch
// @Description  Marks the container dispatched and puts the driver and vehicle on duty
// @Tags         dispatches
// @Produce      json
// @Param        id path string true "Dispatch ID" format(uuid)
// @Success      200 {object} APIResponse[dispatch.DispatchResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /dispatches/{id}/start [post]
func (h *DispatchHandler) Start(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*dispatch.DispatchResponse, error) {
		return h.dispatchService.Start(ctx, tenantID(c), id, userID(c))
	})
}

// Complete godoc
// @ID           completeDispatch
// @Summary      Mark a dispatch delivered
// @Tags         dispatches
// @Produce      json
// @Param        id path string true "Dispatch ID" format(uuid)
// @Success      200 {object} APIResponse[dispatch.DispatchResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /dispatches/{id}/complete [post]
func (h *DispatchHandler) Complete(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*dispatch.DispatchResponse, error) {
		return h.dispatchService.Complete(ctx, tenantID(c), id)
	})
}

// Cancel godoc
// @ID           cancelDispatch
// @Summary      Cancel a dispatch
// @Tags         dispatches
// @Produce      json
// @Param        id path string true "Dispatch ID" format(uuid)
// @Success      200 {object} APIResponse[dispatch.DispatchResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /dispatches/{id}/cancel [post]
func (h *DispatchHandler) Cancel(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*dispatch.DispatchResponse, error) {
		return h.dispatchService.Cancel(ctx, tenantID(c), id)
	})
}

// DeliveryNote godoc
// @ID           generateDeliveryNote
// @Summary      Generate the delivery note of a dispatch
// @Description  Returns a presigned PDF link, or the HTML note when PDF rendering is off.
// @Description  Clients accepting text/html receive the HTML note as the body.
// @Tags         dispatches
// @Produce      json,html
// @Param        id path string true "Dispatch ID" format(uuid)
// @Success      200 {object} APIResponse[dispatch.DeliveryNoteResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /dispatches/{id}/delivery-note [post]
func (h *DispatchHandler) DeliveryNote(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	note, err := h.noteService.Generate(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if note.Format == dispatch.FormatHTML && acceptsHTML(c) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(note.HTML))
		return
	}
	h.Success(c, note)
}

func acceptsHTML(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
