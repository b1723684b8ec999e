package telemetry

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig configures continuous profiling to Pyroscope
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	// ProfileTypes defaults to DefaultProfileTypes
	ProfileTypes []pyroscope.ProfileType
}

// DefaultProfileTypes are CPU, heap and goroutine profiles
var DefaultProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// Profiler is a started Pyroscope session, or a no-op when disabled
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	once     sync.Once
}

// NewProfiler starts profiling when enabled
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		return p, nil
	}
	if cfg.ServerAddress == "" || cfg.ApplicationName == "" {
		return nil, fmt.Errorf("profiler needs a server address and an application name")
	}

	types := cfg.ProfileTypes
	if len(types) == 0 {
		types = DefaultProfileTypes
	}
	tags := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		tags["hostname"] = host
	}

	prof, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            logger.Named("pyroscope").Sugar(),
		Tags:              tags,
		ProfileTypes:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	p.profiler = prof
	logger.Info("Profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.Int("profile_types", len(types)),
	)
	return p, nil
}

// IsEnabled reports whether profiles are being sent
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

// Stop flushes and stops profiling; later calls are no-ops
func (p *Profiler) Stop() error {
	var err error
	p.once.Do(func() {
		if p.profiler != nil {
			err = p.profiler.Stop()
		}
	})
	return err
}

// Profiling label keys set per request
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelTenantID   = "tenant_id"
)

// maxLabelValueLength bounds label values
const maxLabelValueLength = 128

// unboundedLabels would explode profile series and are never attached
var unboundedLabels = map[string]bool{
	"user_id":         true,
	"request_id":      true,
	"trace_id":        true,
	"span_id":         true,
	"container_id":    true,
	"booking_id":      true,
	"dispatch_number": true,
}

// WithProfilingLabels runs fn with labels attached to its samples
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// labelPairs flattens labels into sorted key, value pairs, dropping empty
// and unbounded keys and truncating long values
func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || v == "" || unboundedLabels[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		pairs = append(pairs, strings.ToLower(k), v)
	}
	return pairs
}
