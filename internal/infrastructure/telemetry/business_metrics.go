// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/domain/dispatch"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics tracks container flow, dispatch activity and stock levels.
// It subscribes to domain events, so counters only move after a commit.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	containerTransitionsTotal *Counter
	dispatchEventsTotal       *Counter

	// Gauge metrics (point-in-time values)
	availableStock   *FloatGauge
	activeDispatches *Gauge

	// Optional scrape endpoint mirror
	prometheus *PrometheusCollector

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	operationsProvider OperationsMetricsProvider
}

// OperationsMetricsProvider provides per-tenant operational data for periodic
// gauge collection without the telemetry layer depending on repositories.
type OperationsMetricsProvider interface {
	// GetAvailableStock returns put-away quantity not yet allocated for a tenant
	GetAvailableStock(ctx context.Context, tenantID uuid.UUID) (float64, error)

	// GetActiveDispatchCount returns planned and in-transit dispatches for a tenant
	GetActiveDispatchCount(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter              metric.Meter
	Logger             *zap.Logger
	CollectInterval    time.Duration // Default: 5 minutes
	OperationsProvider OperationsMetricsProvider
	Prometheus         *PrometheusCollector
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:              cfg.Meter,
		logger:             logger,
		prometheus:         cfg.Prometheus,
		stopChan:           make(chan struct{}),
		operationsProvider: cfg.OperationsProvider,
	}

	var err error

	bm.containerTransitionsTotal, err = NewCounter(
		cfg.Meter,
		"tms_container_transitions_total",
		"Total number of container status transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	bm.dispatchEventsTotal, err = NewCounter(
		cfg.Meter,
		"tms_dispatch_events_total",
		"Total number of dispatch lifecycle events",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	bm.availableStock, err = NewFloatGauge(
		cfg.Meter,
		"tms_stock_available_quantity",
		"Put-away quantity not yet allocated",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.activeDispatches, err = NewGauge(
		cfg.Meter,
		"tms_dispatch_active_count",
		"Number of planned or in-transit dispatches",
		"{dispatches}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Container and Dispatch Counters
// =============================================================================

// RecordContainerTransition records a container moving between two statuses.
func (bm *BusinessMetrics) RecordContainerTransition(ctx context.Context, tenantID uuid.UUID, direction, from, to string) {
	bm.containerTransitionsTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrDirection.String(direction),
		AttrFromStatus.String(from),
		AttrToStatus.String(to),
	)
	if bm.prometheus != nil {
		bm.prometheus.ObserveTransition(direction, from, to)
	}
}

// RecordDispatchEvent records a dispatch lifecycle event such as DispatchStarted.
func (bm *BusinessMetrics) RecordDispatchEvent(ctx context.Context, tenantID uuid.UUID, eventType string) {
	bm.dispatchEventsTotal.Inc(ctx,
		AttrTenantID.String(tenantID.String()),
		AttrEventType.String(eventType),
	)
	if bm.prometheus != nil {
		bm.prometheus.ObserveDispatchEvent(eventType)
	}
}

// EventTypes implements shared.EventHandler.
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		freight.EventTypeContainerStatusChanged,
		dispatch.EventTypeDispatchPlanned,
		dispatch.EventTypeDispatchStarted,
		dispatch.EventTypeDispatchDelivered,
		dispatch.EventTypeDispatchCancelled,
	}
}

// Handle implements shared.EventHandler. Unknown events are ignored.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *freight.ContainerStatusChangedEvent:
		bm.RecordContainerTransition(ctx, e.TenantID(), string(e.Direction), string(e.From), string(e.To))
	case *dispatch.DispatchEvent:
		bm.RecordDispatchEvent(ctx, e.TenantID(), e.EventType())
	}
	return nil
}

// =============================================================================
// Operational Gauges
// =============================================================================

// RecordAvailableStock records the tenant's unallocated put-away quantity.
func (bm *BusinessMetrics) RecordAvailableStock(ctx context.Context, tenantID uuid.UUID, quantity float64) {
	bm.availableStock.Record(ctx, quantity, AttrTenantID.String(tenantID.String()))
}

// RecordActiveDispatches records the tenant's planned and in-transit dispatch count.
func (bm *BusinessMetrics) RecordActiveDispatches(ctx context.Context, tenantID uuid.UUID, count int64) {
	bm.activeDispatches.Record(ctx, count, AttrTenantID.String(tenantID.String()))
}

// =============================================================================
// Periodic Collection
// =============================================================================

// TenantProvider provides tenant IDs for periodic metrics collection.
type TenantProvider interface {
	GetActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, tenantProvider, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, tenantProvider TenantProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collectOperationsMetrics(ctx, tenantProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectOperationsMetrics(ctx, tenantProvider)
		}
	}
}

func (bm *BusinessMetrics) collectOperationsMetrics(ctx context.Context, tenantProvider TenantProvider) {
	if bm.operationsProvider == nil {
		bm.logger.Debug("No operations provider configured, skipping gauge collection")
		return
	}

	tenantIDs, err := tenantProvider.GetActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get tenant IDs for metrics collection", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		bm.collectTenantMetrics(ctx, tenantID)
	}
}

func (bm *BusinessMetrics) collectTenantMetrics(ctx context.Context, tenantID uuid.UUID) {
	available, err := bm.operationsProvider.GetAvailableStock(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get available stock for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordAvailableStock(ctx, tenantID, available)
	}

	active, err := bm.operationsProvider.GetActiveDispatchCount(ctx, tenantID)
	if err != nil {
		bm.logger.Warn("Failed to get active dispatches for tenant",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordActiveDispatches(ctx, tenantID, active)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// Business metrics attribute keys not already defined in metrics.go
var (
	AttrDirection  = attribute.Key("direction")
	AttrFromStatus = attribute.Key("from_status")
	AttrToStatus   = attribute.Key("to_status")
	AttrEventType  = attribute.Key("event_type")
)

var _ shared.EventHandler = (*BusinessMetrics)(nil)
