package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return mp, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestHTTPMetrics_DisabledOrUnconfigured(t *testing.T) {
	for _, cfg := range []HTTPMetricsConfig{{Enabled: false}, {Enabled: true}} {
		router := gin.New()
		router.Use(HTTPMetrics(cfg))
		router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestHTTPMetricsWithMeter_RecordsPerRoute(t *testing.T) {
	mp, reader := setupTestMeter(t)
	tenantID := uuid.New()

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, tenantID)
		c.Next()
	}, HTTPMetricsWithMeter(mp.Meter("http.server")))
	router.POST("/api/put-away-stock", func(c *gin.Context) { c.String(http.StatusCreated, "created") })
	router.GET("/api/put-away-stock/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/put-away-stock", strings.NewReader(`{"quantity":5}`)))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/put-away-stock/"+uuid.NewString(), nil))

	m := findMetric(t, reader, "http_server_request_total")
	require.NotNil(t, m)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value("http.route")
		tenant, _ := dp.Attributes.Value("tenant_id")
		assert.Equal(t, tenantID.String(), tenant.AsString())
		counts[route.AsString()] += dp.Value
	}
	assert.Equal(t, int64(2), counts["/api/put-away-stock"])
	assert.Equal(t, int64(1), counts["/api/put-away-stock/:id"])

	assert.NotNil(t, findMetric(t, reader, "http_server_request_duration_seconds"))

	sizes := findMetric(t, reader, "http_server_body_size_bytes")
	require.NotNil(t, sizes)
	directions := map[string]uint64{}
	for _, dp := range sizes.Data.(metricdata.Histogram[float64]).DataPoints {
		dir, _ := dp.Attributes.Value("direction")
		directions[dir.AsString()] += dp.Count
	}
	assert.Equal(t, uint64(2), directions["request"])
	assert.Equal(t, uint64(2), directions["response"], "the empty 404 body is not recorded")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(201))
	assert.Equal(t, "3xx", StatusClass(304))
	assert.Equal(t, "4xx", StatusClass(404))
	assert.Equal(t, "5xx", StatusClass(503))
	assert.Equal(t, "other", StatusClass(101))
	assert.Equal(t, "other", StatusClass(0))
}
