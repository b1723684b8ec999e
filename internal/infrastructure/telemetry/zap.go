package telemetry

import (
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap/zapcore"
)

// ZapBridgeConfig configures the zap core that forwards entries to OTLP
type ZapBridgeConfig struct {
	ServiceName    string
	LoggerProvider *LoggerProvider
	// Level is the lowest level forwarded; console output keeps its own level
	Level zapcore.Level
}

// NewZapOTELCore returns a core to tee next to the console core. It is a
// no-op core while log export is disabled.
func NewZapOTELCore(cfg ZapBridgeConfig) zapcore.Core {
	if !cfg.LoggerProvider.IsEnabled() {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(cfg.ServiceName, otelzap.WithLoggerProvider(cfg.LoggerProvider.provider))
	return &minLevelCore{Core: core, min: cfg.Level}
}

type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}
