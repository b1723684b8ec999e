package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/identity"
)

// RoleHandler manages the roles of the current tenant
type RoleHandler struct {
	BaseHandler
	roleService *identity.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *identity.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// List godoc
// @ID           listTenantRoles
// @Summary      List roles
// @Tags         tenant-roles
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search name"
// @Success      200 {object} APIResponse[[]identity.RoleDTO]
// @Router       /tenant-roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.roleService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createTenantRole
// @Summary      Create a role
// @Tags         tenant-roles
// @Accept       json
// @Produce      json
// @Param        request body CreateRoleRequest true "Role"
// @Success      201 {object} APIResponse[identity.RoleDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /tenant-roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if !h.bind(c, &req) {
		return
	}
	role, err := h.roleService.Create(c.Request.Context(), identity.CreateRoleInput{
		TenantID:    tenantID(c),
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, role)
}

// Get godoc
// @ID           getTenantRole
// @Summary      Get a role
// @Tags         tenant-roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} APIResponse[identity.RoleDTO]
// @Failure      404 {object} ErrorResponse
// @Router       /tenant-roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*identity.RoleDTO, error) {
		return h.roleService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateTenantRole
// @Summary      Update a role
// @Description  System roles keep their name
// @Tags         tenant-roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body UpdateRoleRequest true "Changes"
// @Success      200 {object} APIResponse[identity.RoleDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /tenant-roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if !h.bind(c, &req) {
		return
	}
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*identity.RoleDTO, error) {
		return h.roleService.Update(ctx, identity.UpdateRoleInput{
			TenantID:    tenantID(c),
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Permissions: req.Permissions,
		})
	})
}

// Delete godoc
// @ID           deleteTenantRole
// @Summary      Delete a role
// @Description  System roles and roles still assigned to users cannot be deleted
// @Tags         tenant-roles
// @Param        id path string true "Role ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Router       /tenant-roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.roleService.Delete(ctx, tenantID(c), id)
	})
}
