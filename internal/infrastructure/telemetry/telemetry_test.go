package telemetry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordSpans installs a recording tracer provider for the test
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	prev := otel.GetTracerProvider()
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Exec("CREATE TABLE containers (id INTEGER PRIMARY KEY, number TEXT)").Error)
	return db
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func TestProviders_Disabled(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{}, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, Config{}, log)
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, Config{}, log)
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(ctx))

	core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "tms", LoggerProvider: lp})
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestConfig_Sampler(t *testing.T) {
	assert.Equal(t, "AlwaysOnSampler", Config{SamplingRatio: 1}.sampler().Description())
	assert.Equal(t, "AlwaysOffSampler", Config{SamplingRatio: 0}.sampler().Description())
	assert.True(t, strings.HasPrefix(Config{SamplingRatio: 0.25}.sampler().Description(), "ParentBased{root:TraceIDRatioBased{0.25}"))
}

func TestZapOTELCore_MinLevel(t *testing.T) {
	lp := &LoggerProvider{provider: sdklog.NewLoggerProvider(), logger: zap.NewNop()}
	core := NewZapOTELCore(ZapBridgeConfig{ServiceName: "tms", LoggerProvider: lp, Level: zapcore.WarnLevel})

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.IsType(t, &minLevelCore{}, core.With([]zapcore.Field{zap.String("tenant_id", "t1")}))
}

func TestServiceSpans(t *testing.T) {
	rec := recordSpans(t)

	ctx, span := StartServiceSpan(context.Background(), "container", "change_status")
	assert.NotEmpty(t, TraceID(ctx))
	SetAttributes(span,
		SpanAttrContainerNumber, "MSCU1234565",
		"lines", 3,
		42, "non-string key dropped",
		"dangling",
	)
	AddEvent(span, "container_dispatched", "container_id", "c-1")
	RecordError(span, errors.New("invalid transition"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, "container.change_status", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Contains(t, s.Attributes(), attribute.String(SpanAttrContainerNumber, "MSCU1234565"))
	assert.Contains(t, s.Attributes(), attribute.Int("lines", 3))
	assert.Len(t, s.Attributes(), 2)
	require.Len(t, s.Events(), 2) // the recorded error is an event too
	assert.Equal(t, "container_dispatched", s.Events()[0].Name)

	assert.Empty(t, TraceID(context.Background()))
}

func TestSetOK(t *testing.T) {
	rec := recordSpans(t)
	_, span := StartServiceSpan(context.Background(), "dispatch", "start")
	SetOK(span)
	span.End()
	assert.Equal(t, codes.Ok, rec.Ended()[0].Status().Code)
}

func TestInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	require.True(t, mp.IsEnabled())
	meter := mp.Meter("test")
	ctx := context.Background()

	counter, err := NewCounter(meter, "transitions_total", "transitions", "{transition}")
	require.NoError(t, err)
	counter.Inc(ctx, AttrTenantID.String("t1"))
	counter.Add(ctx, 2, AttrTenantID.String("t1"))

	hist, err := NewHistogram(meter, HistogramOpts{Name: "latency_seconds", Unit: "s", Boundaries: HTTPDurationBuckets})
	require.NoError(t, err)
	hist.RecordDuration(ctx, 30*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	m, ok := findMetric(rm, "transitions_total")
	require.True(t, ok)
	sum := m.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	m, ok = findMetric(rm, "latency_seconds")
	require.True(t, ok)
	h := m.Data.(metricdata.Histogram[float64])
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
}

func TestRegisterDBMetrics(t *testing.T) {
	db := openSQLite(t)

	disabled, err := RegisterDBMetrics(db, &MeterProvider{logger: zap.NewNop()}, DefaultDBMetricsConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, disabled)

	reader := sdkmetric.NewManualReader()
	cfg := DefaultDBMetricsConfig()
	cfg.SlowQueryThreshold = time.Nanosecond
	m, err := RegisterDBMetrics(db, NewMeterProviderWithReader(reader, zap.NewNop()), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, m)
	defer m.Stop()

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Table("containers").Create(map[string]any{"number": "MSCU1234565"}).Error)
	var count int64
	require.NoError(t, db.WithContext(ctx).Table("containers").Count(&count).Error)
	m.collectPoolStats(ctx)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	queries, ok := findMetric(rm, "db_query_total")
	require.True(t, ok)
	ops := map[string]int64{}
	for _, dp := range queries.Data.(metricdata.Sum[int64]).DataPoints {
		op, _ := dp.Attributes.Value(AttrDBOperation)
		ops[op.AsString()] += dp.Value
	}
	assert.Equal(t, int64(1), ops["INSERT"])
	assert.Equal(t, int64(1), ops["SELECT"])

	slow, ok := findMetric(rm, "db_slow_query_total")
	require.True(t, ok)
	tables := map[string]bool{}
	for _, dp := range slow.Data.(metricdata.Sum[int64]).DataPoints {
		table, _ := dp.Attributes.Value(AttrDBTable)
		tables[table.AsString()] = true
	}
	assert.True(t, tables["containers"])

	_, ok = findMetric(rm, "db_pool_connections_max")
	assert.True(t, ok)

	m.Stop()
	m.Stop()
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled registers nothing", func(t *testing.T) {
		db := openSQLite(t)
		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))
		assert.Nil(t, db.Callback().Query().Get("tms_trace:after_query"))
	})

	t.Run("enabled records query spans", func(t *testing.T) {
		rec := recordSpans(t)
		db := openSQLite(t)
		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop()))
		assert.NotNil(t, db.Callback().Query().Get("tms_trace:after_query"))

		var count int64
		require.NoError(t, db.WithContext(context.Background()).Table("containers").Count(&count).Error)
		assert.NotEmpty(t, rec.Ended())
	})
}

func TestSQLOperation(t *testing.T) {
	db := &gorm.DB{Statement: &gorm.Statement{}}
	db.Statement.SQL.WriteString("  update containers set number = ?")

	assert.Equal(t, "INSERT", sqlOperation("create", db))
	assert.Equal(t, "UPDATE", sqlOperation("raw", db))

	db.Statement.SQL.Reset()
	db.Statement.SQL.WriteString("VACUUM")
	assert.Equal(t, "OTHER", sqlOperation("row", db))
}

func TestLabelPairs(t *testing.T) {
	long := strings.Repeat("x", 200)
	pairs := labelPairs(map[string]string{
		ProfilingLabelRoute:    "/api/dispatches/:id/start",
		ProfilingLabelMethod:   "POST",
		"request_id":           "abc",
		"booking_id":           "b-1",
		ProfilingLabelTenantID: "",
		"region":               long,
	})

	assert.Equal(t, []string{
		"method", "POST",
		"region", long[:maxLabelValueLength],
		"route", "/api/dispatches/:id/start",
	}, pairs)

	ran := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestProfiler(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())

	_, err = NewProfiler(ProfilerConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err)
}
