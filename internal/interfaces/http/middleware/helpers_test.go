package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/identity"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	bySubdomain map[string]*identity.Tenant
	err         error
	calls       []string
}

func (r *stubResolver) ResolveBySubdomain(_ context.Context, sub string) (*identity.Tenant, error) {
	r.calls = append(r.calls, "sub:"+sub)
	if r.err != nil {
		return nil, r.err
	}
	if t, ok := r.bySubdomain[sub]; ok {
		return t, nil
	}
	return nil, shared.NotFound("Tenant")
}

func (r *stubResolver) ResolveByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	r.calls = append(r.calls, "id:"+id.String())
	for _, t := range r.bySubdomain {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, shared.NotFound("Tenant")
}

type stubValidator struct {
	claims map[string]*auth.Claims
	err    error
}

func (v *stubValidator) ValidateSession(_ context.Context, token string) (*auth.Claims, error) {
	if v.err != nil {
		return nil, v.err
	}
	if c, ok := v.claims[token]; ok {
		return c, nil
	}
	return nil, shared.NewDomainError("SESSION_INVALID", "Session is invalid or expired")
}

func newTenant(t *testing.T, name, sub string) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant(name, sub)
	require.NoError(t, err)
	return tenant
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Message)
	return resp
}

// withClaims stands in for SessionMiddleware in permission tests
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(SessionClaimsKey, claims)
		}
		c.Next()
	}
}
