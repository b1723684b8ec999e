package telemetry_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/infrastructure/telemetry"
)

func TestPrometheusCollector_Handler(t *testing.T) {
	c := telemetry.NewPrometheusCollector("tms")
	c.ObserveTransition("export", "allocated", "picked_up")
	c.ObserveDispatchEvent("DispatchDelivered")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `tms_container_transitions_total{direction="export",from="allocated",to="picked_up"} 1`)
	assert.Contains(t, string(body), `tms_dispatch_events_total{event="DispatchDelivered"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestPrometheusCollector_SeparateRegistries(t *testing.T) {
	a := telemetry.NewPrometheusCollector("tms")
	b := telemetry.NewPrometheusCollector("tms")
	assert.NotSame(t, a.Registry(), b.Registry())
}
