package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/identity"
)

// UserHandler manages the users of the current tenant
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @ID           listTenantUsers
// @Summary      List users
// @Tags         tenant-users
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        search query string false "Search email or name"
// @Param        status query string false "pending, active or suspended"
// @Param        role_id query string false "Role ID" format(uuid)
// @Success      200 {object} APIResponse[[]identity.UserDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /tenant-users [get]
func (h *UserHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.userService.List(c.Request.Context(), tenantID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createTenantUser
// @Summary      Create a user
// @Tags         tenant-users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User"
// @Success      201 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /tenant-users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), identity.CreateUserInput{
		TenantID:  tenantID(c),
		ActorID:   userID(c),
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleID:    req.RoleID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Get godoc
// @ID           getTenantUser
// @Summary      Get a user
// @Tags         tenant-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Router       /tenant-users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error) {
		return h.userService.GetByID(ctx, tenantID(c), id)
	})
}

// Update godoc
// @ID           updateTenantUser
// @Summary      Update a user
// @Tags         tenant-users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body UpdateUserRequest true "Changes"
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /tenant-users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), identity.UpdateUserInput{
		TenantID:  tenantID(c),
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleID:    req.RoleID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete godoc
// @ID           deleteTenantUser
// @Summary      Delete a user
// @Description  Users cannot delete themselves
// @Tags         tenant-users
// @Param        id path string true "User ID" format(uuid)
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /tenant-users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	remove(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) error {
		return h.userService.Delete(ctx, tenantID(c), id, userID(c))
	})
}

// Approve godoc
// @ID           approveTenantUser
// @Summary      Approve a pending user
// @Tags         tenant-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /tenant-users/{id}/approve [post]
func (h *UserHandler) Approve(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error) {
		return h.userService.Approve(ctx, tenantID(c), id, userID(c))
	})
}

// Suspend godoc
// @ID           suspendTenantUser
// @Summary      Suspend a user
// @Description  Suspension revokes the user's open sessions
// @Tags         tenant-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /tenant-users/{id}/suspend [post]
func (h *UserHandler) Suspend(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error) {
		return h.userService.Suspend(ctx, tenantID(c), id, userID(c))
	})
}

// Reactivate godoc
// @ID           reactivateTenantUser
// @Summary      Reactivate a suspended user
// @Tags         tenant-users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /tenant-users/{id}/reactivate [post]
func (h *UserHandler) Reactivate(c *gin.Context) {
	action(&h.BaseHandler, c, func(ctx context.Context, id uuid.UUID) (*identity.UserDTO, error) {
		return h.userService.Reactivate(ctx, tenantID(c), id)
	})
}
