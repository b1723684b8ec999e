package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var gormOperations = []string{"create", "query", "update", "delete", "row", "raw"}

// registerAround installs before and after callbacks around every gorm
// operation under the given prefix. after receives the operation name.
func registerAround(db *gorm.DB, prefix string, before func(*gorm.DB), after func(op string) func(*gorm.DB)) error {
	cb := db.Callback()
	for _, op := range gormOperations {
		gormName := "gorm:" + op
		beforeName, afterName := prefix+":before_"+op, prefix+":after_"+op
		var err error
		switch op {
		case "create":
			p := cb.Create()
			if err = p.Before(gormName).Register(beforeName, before); err == nil {
				err = p.After(gormName).Register(afterName, after(op))
			}
		case "query":
			p := cb.Query()
			if err = p.Before(gormName).Register(beforeName, before); err == nil {
				err = p.After(gormName).Register(afterName, after(op))
			}
		case "update":
			p := cb.Update()
			if err = p.Before(gormName).Register(beforeName, before); err == nil {
				err = p.After(gormName).Register(afterName, after(op))
			}
		case "delete":
			p := cb.Delete()
			if err = p.Before(gormName).Register(beforeName, before); err == nil {
				err = p.After(gormName).Register(afterName, after(op))
			}
		case "row":
			p := cb.Row()
			if err = p.Before(gormName).Register(beforeName, before); err == nil {
				err = p.After(gormName).Register(afterName, after(op))
			}
		case "raw":
			p := cb.Raw()
			if err = p.Before(gormName).Register(beforeName, before); err == nil {
				err = p.After(gormName).Register(afterName, after(op))
			}
		}
		if err != nil {
			return fmt.Errorf("register %s callbacks: %w", prefix, err)
		}
	}
	return nil
}

func stampStart(key string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		db.InstanceSet(key, time.Now())
	}
}

func elapsedSince(db *gorm.DB, key string) (time.Duration, bool) {
	v, ok := db.InstanceGet(key)
	if !ok {
		return 0, false
	}
	start, ok := v.(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// sqlOperation names the SQL verb of a statement for row and raw callbacks
func sqlOperation(op string, db *gorm.DB) string {
	switch op {
	case "create":
		return "INSERT"
	case "query":
		return "SELECT"
	case "update":
		return "UPDATE"
	case "delete":
		return "DELETE"
	}
	stmt := strings.ToUpper(strings.TrimSpace(db.Statement.SQL.String()))
	for _, verb := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(stmt, verb) {
			return verb
		}
	}
	return "OTHER"
}

// DBTracingConfig configures query spans
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL keeps bound variables in db.statement; development only
	LogFullSQL         bool
	SlowQueryThreshold time.Duration
	DBSystem           string
}

const traceStartKey = "tms:trace_start"

// RegisterDBTracing installs the otelgorm plugin plus callbacks that tag
// spans with the table, affected rows and a slow_query flag
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}

	annotate := func(string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			if db.Statement.Context == nil {
				return
			}
			span := trace.SpanFromContext(db.Statement.Context)
			if !span.IsRecording() {
				return
			}
			span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
			if db.Statement.Table != "" {
				span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
			}
			if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
				RecordError(span, db.Error)
			}
			if d, ok := elapsedSince(db, traceStartKey); ok && d > cfg.SlowQueryThreshold {
				span.SetAttributes(
					attribute.Bool("db.slow_query", true),
					attribute.Int64("db.query_duration_ms", d.Milliseconds()),
				)
			}
		}
	}
	// registered ahead of otelgorm so the span is still open when annotated
	if err := registerAround(db, "tms_trace", stampStart(traceStartKey), annotate); err != nil {
		return err
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return fmt.Errorf("register otelgorm: %w", err)
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return nil
}

// DBMetricsConfig configures query and pool metrics
type DBMetricsConfig struct {
	Enabled            bool
	SlowQueryThreshold time.Duration
	PoolStatsInterval  time.Duration
}

// DefaultDBMetricsConfig enables metrics with a 200ms slow threshold and a 15s pool poll
func DefaultDBMetricsConfig() DBMetricsConfig {
	return DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: 200 * time.Millisecond,
		PoolStatsInterval:  15 * time.Second,
	}
}

const metricsStartKey = "tms:metrics_start"

// DBMetrics records query counts, latencies, slow queries and pool usage
type DBMetrics struct {
	queries     *Counter
	duration    *Histogram
	slowQueries *Counter
	poolConns   *Gauge
	poolMax     *Gauge

	cfg    DBMetricsConfig
	sqlDB  *sql.DB
	logger *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// RegisterDBMetrics installs query metric callbacks on db. It returns nil
// when metrics are disabled or the meter provider does not export.
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if !cfg.Enabled || mp == nil || !mp.IsEnabled() {
		return nil, nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	m, err := NewDBMetrics(mp.Meter("db.client"), sqlDB, cfg, logger)
	if err != nil {
		return nil, err
	}
	record := func(op string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			d, _ := elapsedSince(db, metricsStartKey)
			ctx := db.Statement.Context
			if ctx == nil {
				ctx = context.Background()
			}
			m.RecordQuery(ctx, sqlOperation(op, db), db.Statement.Table, d)
		}
	}
	if err := registerAround(db, "tms_metrics", stampStart(metricsStartKey), record); err != nil {
		return nil, err
	}
	return m, nil
}

// NewDBMetrics creates the instruments. sqlDB may be nil when pool stats
// are not collected.
func NewDBMetrics(meter metric.Meter, sqlDB *sql.DB, cfg DBMetricsConfig, logger *zap.Logger) (*DBMetrics, error) {
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.PoolStatsInterval <= 0 {
		cfg.PoolStatsInterval = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &DBMetrics{cfg: cfg, sqlDB: sqlDB, logger: logger, stop: make(chan struct{})}

	var err error
	if m.queries, err = NewCounter(meter, "db_query_total", "Database queries by operation", "{query}"); err != nil {
		return nil, err
	}
	if m.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueries, err = NewCounter(meter, "db_slow_query_total", "Queries slower than the threshold by table", "{query}"); err != nil {
		return nil, err
	}
	if m.poolConns, err = NewGauge(meter, "db_pool_connections", "Pool connections by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolMax, err = NewGauge(meter, "db_pool_connections_max", "Pool connection limit", "{connection}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordQuery records one statement
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, d time.Duration) {
	if operation == "" {
		operation = "OTHER"
	}
	m.queries.Inc(ctx, AttrDBOperation.String(operation))
	m.duration.RecordDuration(ctx, d, AttrDBOperation.String(operation))
	if d > m.cfg.SlowQueryThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueries.Inc(ctx, AttrDBTable.String(table))
	}
}

// StartPoolStatsCollection polls the pool until ctx ends or Stop is called
func (m *DBMetrics) StartPoolStatsCollection(ctx context.Context) {
	if m.sqlDB == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.cfg.PoolStatsInterval)
		defer ticker.Stop()
		for {
			m.collectPoolStats(ctx)
			select {
			case <-ticker.C:
			case <-m.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) collectPoolStats(ctx context.Context) {
	stats := m.sqlDB.Stats()
	m.poolMax.Record(ctx, int64(stats.MaxOpenConnections))
	m.poolConns.Record(ctx, int64(stats.Idle), AttrDBPoolState.String("idle"))
	m.poolConns.Record(ctx, int64(stats.InUse), AttrDBPoolState.String("in_use"))
	m.poolConns.Record(ctx, int64(stats.OpenConnections), AttrDBPoolState.String("open"))
}

// Stop ends pool collection; safe to call more than once
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
		m.wg.Wait()
	})
}
