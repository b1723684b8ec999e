package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err    error
	gotCtx context.Context
}

func (p *stubPinger) Ping(ctx context.Context) error {
	p.gotCtx = ctx
	return p.err
}

func TestSystemHandler_Health(t *testing.T) {
	decode := func(t *testing.T, body []byte) HealthResponse {
		t.Helper()
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		return resp
	}

	t.Run("database up", func(t *testing.T) {
		db := &stubPinger{}
		h := NewSystemHandler("tms", "test", db)
		c, w := newContext("/health")

		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, HealthResponse{Status: "ok", Database: "up"}, decode(t, w.Body.Bytes()))
		assert.Equal(t, c.Request.Context(), db.gotCtx)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler("tms", "test", &stubPinger{err: errors.New("connection refused")})
		c, w := newContext("/health")

		h.Health(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, HealthResponse{Status: "degraded", Database: "down"}, decode(t, w.Body.Bytes()))
	})

	t.Run("no database", func(t *testing.T) {
		h := NewSystemHandler("tms", "test", nil)
		c, w := newContext("/health")

		h.Health(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "unknown", decode(t, w.Body.Bytes()).Database)
	})
}
