package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetricsConfig holds configuration for HTTP metrics middleware
type HTTPMetricsConfig struct {
	MeterProvider *telemetry.MeterProvider
	Enabled       bool
}

const (
	attrStatusClass = attribute.Key("http.status_class")
	attrDirection   = attribute.Key("direction")
)

// payload buckets in bytes; attachment uploads land in the top ones
var bodySizeBuckets = []float64{256, 4 << 10, 64 << 10, 1 << 20, 5 << 20, 10 << 20}

type httpInstruments struct {
	requests *telemetry.Counter
	latency  *telemetry.Histogram
	bodySize *telemetry.Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var m httpInstruments
	var err error
	if m.requests, err = telemetry.NewCounter(meter, "http_server_request_total", "HTTP requests by route and status", "{request}"); err != nil {
		return nil, err
	}
	if m.latency, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency by route and status class",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.bodySize, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_body_size_bytes",
		Description: "Request and response body sizes by route",
		Unit:        "By",
		Boundaries:  bodySizeBuckets,
	}); err != nil {
		return nil, err
	}
	if m.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Requests being served"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	return &m, nil
}

func passThrough(c *gin.Context) { c.Next() }

// HTTPMetrics records request counts, latency and body sizes per gin route
// pattern, so /api/container-details/:id is a single series. It is a
// pass-through when metrics are not exported.
func HTTPMetrics(cfg HTTPMetricsConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.MeterProvider == nil || !cfg.MeterProvider.IsEnabled() {
		return passThrough
	}
	return HTTPMetricsWithMeter(cfg.MeterProvider.Meter("http.server"))
}

// HTTPMetricsWithMeter is HTTPMetrics on an existing meter
func HTTPMetricsWithMeter(meter metric.Meter) gin.HandlerFunc {
	m, err := newHTTPInstruments(meter)
	if err != nil {
		return passThrough
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		m.inFlight.Add(ctx, 1)

		c.Next()

		m.inFlight.Add(ctx, -1)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		base := []attribute.KeyValue{
			telemetry.AttrHTTPMethod.String(c.Request.Method),
			telemetry.AttrHTTPRoute.String(route),
		}

		counted := withAttrs(base, telemetry.AttrHTTPStatusCode.Int(status))
		if id := GetTenantID(c); id != uuid.Nil {
			counted = append(counted, telemetry.AttrTenantID.String(id.String()))
		}
		m.requests.Inc(ctx, counted...)
		m.latency.RecordDuration(ctx, time.Since(start), withAttrs(base, attrStatusClass.String(StatusClass(status)))...)
		if n := c.Request.ContentLength; n > 0 {
			m.bodySize.Record(ctx, float64(n), withAttrs(base, attrDirection.String("request"))...)
		}
		if n := c.Writer.Size(); n > 0 {
			m.bodySize.Record(ctx, float64(n), withAttrs(base, attrDirection.String("response"))...)
		}
	}
}

func withAttrs(base []attribute.KeyValue, extra ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(base)+len(extra)+1)
	return append(append(out, base...), extra...)
}

// StatusClass groups a status code as 2xx, 3xx, 4xx or 5xx
func StatusClass(status int) string {
	if status < 200 || status > 599 {
		return "other"
	}
	return string(rune('0'+status/100)) + "xx"
}
