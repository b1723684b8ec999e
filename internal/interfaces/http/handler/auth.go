package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tms/backend/internal/application/identity"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles session endpoints. The session token travels in an
// HttpOnly cookie and is also returned in the login body for API clients.
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookie config.CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultSessionCookie
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login godoc
// @ID           login
// @Summary      Sign in
// @Description  Authenticate a tenant user with email and password and set the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Tenant-Subdomain header string true "Tenant subdomain"
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		TenantID: tenantID(c),
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, time.Until(result.ExpiresAt))
	h.Success(c, result)
}

// Register godoc
// @ID           register
// @Summary      Register an account
// @Description  Create a pending user in the current tenant; an administrator must approve it
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Tenant-Subdomain header string true "Tenant subdomain"
// @Param        request body RegisterRequest true "Registration"
// @Success      201 {object} APIResponse[identity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), identity.RegisterInput{
		TenantID:  tenantID(c),
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Logout godoc
// @ID           logout
// @Summary      Sign out
// @Description  Revoke the current session and clear the cookie
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetSessionClaims(c)
	if claims == nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		TokenJTI: claims.ID,
		TTL:      claims.GetRemainingTTL(),
	}); err != nil {
		h.HandleError(c, err)
		return
	}

	h.setSessionCookie(c, "", -1)
	h.NoContent(c)
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Current user
// @Description  Return the signed-in user, their role and effective permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.CurrentUserResult]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.authService.Me(c.Request.Context(), tenantID(c), userID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Passwords"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		TenantID:        tenantID(c),
		UserID:          userID(c),
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// setSessionCookie writes the session cookie; a negative ttl deletes it
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := -1
	if ttl >= 0 {
		maxAge = int(ttl.Seconds())
	}
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, token, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
