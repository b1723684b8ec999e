package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/interfaces/http/dto"
	"github.com/tms/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// uuidFilters are list query parameters passed to repositories as IDs
var uuidFilters = []string{
	"booking_id", "container_id", "warehouse_id", "product_line_id",
	"put_away_stock_id", "allocation_id", "driver_id", "vehicle_id", "role_id",
}

// textFilters are list query parameters passed through verbatim
var textFilters = []string{"status", "direction", "size", "sku", "location_code"}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error body with an explicit status
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// HandleError maps err to a status and error body. Domain errors keep their
// code and message; anything else is logged and reported as a bare 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		resp := dto.NewErrorResponseWithRequestID(de.Code, de.Message, middleware.GetRequestID(c))
		for _, d := range de.Details {
			resp.Details = append(resp.Details, dto.ValidationDetail{Message: d})
		}
		c.JSON(dto.GetHTTPStatus(de.Code), resp)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Request failed",
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
	)
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
}

// bind decodes the JSON body into req, writing the 400 on failure
func (h *BaseHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// parseID reads a UUID path parameter
func (h *BaseHandler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "invalid "+param+": must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// listFilter builds a repository filter from the paging and filter query parameters
func (h *BaseHandler) listFilter(c *gin.Context) (shared.Filter, bool) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return shared.Filter{}, false
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   strings.TrimSpace(req.Search),
		Filters:  make(map[string]interface{}),
	}
	for _, key := range textFilters {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			filter.Filters[key] = v
		}
	}
	for _, key := range uuidFilters {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidID, "invalid "+key+": must be a UUID")
			return shared.Filter{}, false
		}
		filter.Filters[key] = id
	}
	if raw := c.Query("available_only"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "invalid available_only: must be a boolean")
			return shared.Filter{}, false
		}
		filter.Filters["available_only"] = on
	}
	return filter.Normalize(), true
}

// tenantID returns the tenant resolved by the tenant middleware
func tenantID(c *gin.Context) uuid.UUID {
	return middleware.GetTenantID(c)
}

// userID returns the user of the current session
func userID(c *gin.Context) uuid.UUID {
	return middleware.GetUserID(c)
}

// respondPage writes a paged list response
func respondPage[T any](c *gin.Context, page *query.Page[T]) {
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// action runs fn against the :id path parameter and writes its result with 200
func action[T any](h *BaseHandler, c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*T, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// remove runs fn against the :id path parameter and answers 204
func remove(h *BaseHandler, c *gin.Context, fn func(ctx context.Context, id uuid.UUID) error) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
