package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/application/identity"
)

// TenantHandler handles onboarding and the current tenant's profile
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Onboard godoc
// @ID           onboardTenant
// @Summary      Onboard a tenant
// @Description  Create a tenant with its default roles and an administrator account
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body OnboardTenantRequest true "Tenant and administrator"
// @Success      201 {object} APIResponse[identity.OnboardResult]
// @Failure      400 {object} ErrorResponse
// @Router       /tenants/onboard [post]
func (h *TenantHandler) Onboard(c *gin.Context) {
	var req OnboardTenantRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.tenantService.Onboard(c.Request.Context(), identity.OnboardInput{
		Name:           req.Name,
		Subdomain:      req.Subdomain,
		ContactPhone:   req.ContactPhone,
		AdminEmail:     req.AdminEmail,
		AdminPassword:  req.AdminPassword,
		AdminFirstName: req.AdminFirstName,
		AdminLastName:  req.AdminLastName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// GetCurrent godoc
// @ID           getCurrentTenant
// @Summary      Current tenant
// @Tags         tenants
// @Produce      json
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /tenants/current [get]
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenant, err := h.tenantService.GetCurrent(c.Request.Context(), tenantID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// UpdateCurrent godoc
// @ID           updateCurrentTenant
// @Summary      Update the current tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body UpdateTenantRequest true "Tenant profile"
// @Success      200 {object} APIResponse[identity.TenantDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /tenants/current [put]
func (h *TenantHandler) UpdateCurrent(c *gin.Context) {
	var req UpdateTenantRequest
	if !h.bind(c, &req) {
		return
	}

	tenant, err := h.tenantService.UpdateCurrent(c.Request.Context(), identity.UpdateTenantInput{
		TenantID:     tenantID(c),
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}
