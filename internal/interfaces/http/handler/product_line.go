package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/freight"
)

// ProductLineHandler handles product line endpoints
type ProductLineHandler struct {
	BaseHandler
	productLineService *freight.ProductLineService
}

// NewProductLineHandler creates a new ProductLineHandler
func NewProductLineHandler(productLineService *freight.ProductLineService) *ProductLineHandler {
	return &ProductLineHandler{productLineService: productLineService}
}

// List godoc
// @ID           listProductLines
// @Summary      List product lines
// @Tags         product-lines
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        container_id query string false "Container ID" format(uuid)
// @Param        sku query string false "SKU"
// @Success      200 {object} APIResponse[[]freight.ProductLineResponse]
// @Router       /product-lines [get]
func (h *ProductLineHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.productLineService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createProductLine
// @Summary      Add a product line to a container
// @Tags         product-lines
// @Accept       json
// @Produce      json
// @Param        request body freight.CreateProductLineRequest true "Product line"
// @Success      201 {object} APIResponse[freight.ProductLineResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /product-lines [post]
func (h *ProductLineHandler) Create(c *gin.Context) {
	var req freight.CreateProductLineRequest
	if !h.bind(c, &req) {
		return
	}
	pl, err := h.productLineService.Create(c.Request.Context(), tenantID(c), userID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pl)
}

// Get godoc
// @ID           getProductLine
// @Summary      Get a product line
// @Tags         product-lines
// @Produce      json
// @Param        id path string true "Product line ID" format(uuid)
// @Success      200 {object} APIResponse[freight.ProductLineResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /product-lines/{id} [get]
func (h *ProductLineHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.ProductLineResponse, error) {
		return h.productLineService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateProductLine
// @Summary      Update a product line
// @Description  received_quantity is accepted once the container is received
// @Tags         product-lines
// @Accept       json
// @Produce      json
// @Param        id path string true "Product line ID" format(uuid)
// @Param        request body freight.UpdateProductLineRequest true "Changes"
// @Success      200 {object} APIResponse[freight.ProductLineResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /product-lines/{id} [put]
func (h *ProductLineHandler) Update(c *gin.Context) {
	var req freight.UpdateProductLineRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*freight.ProductLineResponse, error) {
		return h.productLineService.Update(ctx, tenantID(c), id, req)
	})
}

// Delete godoc
// @ID           deleteProductLine
// @Summary      Delete a product line
// @Tags         product-lines
// @Param        id path string true "Product line ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /product-lines/{id} [delete]
func (h *ProductLineHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.productLineService.Delete(ctx, tenantID(c), id)
	})
}
