// Package apitest runs the assembled HTTP stack for handler and router tests.
// It lives apart from testutil because it wires every application service.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/bootstrap"
	"github.com/tms/backend/internal/infrastructure/auth"
	"github.com/tms/backend/internal/infrastructure/cache"
	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/printing"
	"github.com/tms/backend/internal/infrastructure/storage"
	"github.com/tms/backend/internal/interfaces/http/middleware"
	"github.com/tms/backend/internal/interfaces/http/router"
	"github.com/tms/backend/tests/testutil"
)

// TestServer runs the full HTTP stack over an in-memory database, in-memory
// storage and HTML delivery notes
type TestServer struct {
	*testutil.Fixture
	Engine   *gin.Engine
	Services *bootstrap.Services
	Storage  *storage.MemoryObjectStorage
}

// NewTestServer builds the engine the way the server binary does
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.SetupValidator())

	f := testutil.NewFixture(t)
	store := storage.NewMemoryObjectStorage("http://files.test")
	blacklist := auth.NewInMemoryTokenBlacklist()
	services := bootstrap.NewServices(bootstrap.Infrastructure{
		DB:          f.DB,
		Bus:         f.Bus,
		JWT:         auth.NewJWTService(config.JWTConfig{Secret: "test-secret-with-enough-length-0123", Expiration: time.Hour, Issuer: "tms-test"}),
		Blacklist:   blacklist,
		TenantCache: cache.NewInMemoryTenantCache(f.Logger),
		Storage:     store,
		HTML:        printing.NewTemplateEngine(),
		Logger:      f.Logger,
	}, bootstrap.Settings{
		SessionTTL:        time.Hour,
		TenantCacheTTL:    time.Minute,
		ReservedSubdomain: []string{"www", "api", "admin"},
		CompanyName:       "TMS Test",
	})

	handlers := services.Handlers(bootstrap.HandlerOptions{
		Cookie:  config.CookieConfig{Name: middleware.DefaultSessionCookie, Path: "/", SameSite: "lax"},
		AppName: "tms-test",
		Version: "test",
	})
	engine := router.NewEngine(router.EngineConfig{
		Logger:           f.Logger,
		Security:         middleware.DefaultSecurityConfig(),
		CORS:             middleware.DefaultCORSConfig(),
		MaxBodySize:      25 << 20,
		TenantResolver:   services.Tenant,
		SessionValidator: services.Auth,
		CookieName:       middleware.DefaultSessionCookie,
	}, handlers)

	return &TestServer{Fixture: f, Engine: engine, Services: services, Storage: store}
}

// Request is one API call made by a test
type Request struct {
	Method    string
	Path      string
	Body      any
	Subdomain string
	Cookie    *http.Cookie
	Headers   map[string]string
}

// Do sends the request through the engine
func (s *TestServer) Do(r Request) *httptest.ResponseRecorder {
	s.T.Helper()
	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		require.NoError(s.T, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Subdomain != "" {
		req.Header.Set(middleware.TenantSubdomainHeader, r.Subdomain)
	}
	if r.Cookie != nil {
		req.AddCookie(r.Cookie)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)
	return w
}

// Session is a signed-in tenant administrator
type Session struct {
	Subdomain string
	Cookie    *http.Cookie
	Data      map[string]any
}

// OnboardAndLogin onboards a tenant under subdomain and signs its admin in
func (s *TestServer) OnboardAndLogin(subdomain string) *Session {
	s.T.Helper()
	email := "admin@" + subdomain + ".test"
	w := s.Do(Request{Method: http.MethodPost, Path: "/api/tenants/onboard", Body: map[string]any{
		"name":             "Tenant " + subdomain,
		"subdomain":        subdomain,
		"admin_email":      email,
		"admin_password":   "s3cure-pass",
		"admin_first_name": "Rita",
	}})
	require.Equal(s.T, http.StatusCreated, w.Code, w.Body.String())

	return s.Login(subdomain, email, "s3cure-pass")
}

// Login signs a user in and returns the session cookie
func (s *TestServer) Login(subdomain, email, password string) *Session {
	s.T.Helper()
	w := s.Do(Request{Method: http.MethodPost, Path: "/api/auth/login", Subdomain: subdomain,
		Body: map[string]any{"email": email, "password": password}})
	require.Equal(s.T, http.StatusOK, w.Code, w.Body.String())

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.DefaultSessionCookie {
			cookie = c
		}
	}
	require.NotNil(s.T, cookie, "login sets the session cookie")
	return &Session{Subdomain: subdomain, Cookie: cookie, Data: DecodeData(s.T, w)}
}

// As sends the request as the session's user
func (s *TestServer) As(sess *Session, r Request) *httptest.ResponseRecorder {
	s.T.Helper()
	r.Subdomain = sess.Subdomain
	r.Cookie = sess.Cookie
	return s.Do(r)
}

// DecodeData returns the data object of a success envelope
func DecodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.True(t, resp.Success)
	return resp.Data
}

// DecodeList returns the data array and meta of a paged success envelope
func DecodeList(t *testing.T, w *httptest.ResponseRecorder) ([]map[string]any, map[string]any) {
	t.Helper()
	var resp struct {
		Data []map[string]any `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data, resp.Meta
}

// DecodeError returns the message and code of an error body
func DecodeError(t *testing.T, w *httptest.ResponseRecorder) (message, code string) {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotEmpty(t, resp.Message, "error bodies always carry a message")
	return resp.Message, resp.Code
}
