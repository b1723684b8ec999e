package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/freight"
	"github.com/tms/backend/internal/interfaces/http/dto"
)

// BookingHandler handles container booking endpoints
type BookingHandler struct {
	BaseHandler
	bookingService *freight.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *freight.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// List godoc
// @ID           listContainerBookings
// @Summary      List bookings
// @Tags         container-bookings
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search booking number, customer or vessel"
// @Param        status query string false "draft, confirmed, in_progress, completed or cancelled"
// @Param        direction query string false "import or export"
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Success      200 {object} APIResponse[[]freight.BookingResponse]
// @Router       /container-bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.bookingService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createContainerBooking
// @Summary      Create a booking
// @Description  Bookings start as drafts numbered IMP-YYYYMMDD-NNNN or EXP-YYYYMMDD-NNNN
// @Tags         container-bookings
// @Accept       json
// @Produce      json
// @Param        request body freight.CreateBookingRequest true "Booking"
// @Success      201 {object} APIResponse[freight.BookingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req freight.CreateBookingRequest
	if !h.bind(c, &req) {
		return
	}
	b, err := h.bookingService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// Get godoc
// @ID           getContainerBooking
// @Summary      Get a booking
// @Tags         container-bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} APIResponse[freight.BookingResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /container-bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.BookingResponse, error) {
		return h.bookingService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateContainerBooking
// @Summary      Update a booking
// @Description  Closed bookings cannot change
// @Tags         container-bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Param        request body freight.UpdateBookingRequest true "Changes"
// @Success      200 {object} APIResponse[freight.BookingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-bookings/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	var req freight.UpdateBookingRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.BookingResponse, error) {
		return h.bookingService.Update(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteContainerBooking
// @Summary      Delete a booking
// @Description  Only bookings without containers can be deleted
// @Tags         container-bookings
// @Param        id path string true "Booking ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /container-bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.bookingService.Delete(ctx, tenantID(c), id)
	})
}

// Confirm godoc
// @ID           confirmContainerBooking
// @Summary      Confirm a draft booking
// @Tags         container-bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} APIResponse[freight.BookingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.BookingResponse, error) {
		return h.bookingService.Confirm(ctx, tenantID(c), id)
	})
}

// Cancel godoc
// @ID           cancelContainerBooking
// @Summary      Cancel a booking
// @Description  A booking with containers past their first status cannot be cancelled
// @Tags         container-bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} APIResponse[freight.BookingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.BookingResponse, error) {
		return h.bookingService.Cancel(ctx, tenantID(c), id)
	})
}

// Complete godoc
// @ID           completeContainerBooking
// @Summary      Complete a confirmed booking
// @Tags         container-bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} APIResponse[freight.BookingResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /container-bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.BookingResponse, error) {
		return h.bookingService.Complete(ctx, tenantID(c), id)
	})
}

// UploadAttachment godoc
// @ID           uploadContainerBookingAttachment
// @Summary      Attach a document to a booking
// @Tags         container-bookings
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Param        file formData file true "Document"
// @Success      201 {object} APIResponse[freight.AttachmentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /container-bookings/{id}/attachments [post]
func (h *BookingHandler) UploadAttachment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	if header.Size > freight.MaxAttachmentSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeBodyTooLarge, "attachment exceeds maximum allowed size")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "file could not be read")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	att, err := h.bookingService.UploadAttachment(c.Request.Context(), tenantID(c), id,
		header.Filename, contentType, header.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, att)
}

// ListAttachments godoc
// @ID           listContainerBookingAttachments
// @Summary      List booking attachments
// @Description  Each attachment carries a fresh presigned download URL
// @Tags         container-bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} APIResponse[[]freight.AttachmentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /container-bookings/{id}/attachments [get]
func (h *BookingHandler) ListAttachments(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	atts, err := h.bookingService.ListAttachments(c.Request.Context(), tenantID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if atts == nil {
		atts = []freight.AttachmentResponse{}
	}
	h.Success(c, atts)
}
