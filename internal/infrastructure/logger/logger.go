// Package logger builds the process zap logger and carries request-scoped
// identifiers through context so every layer logs them the same way.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the level, encoding and destination of the process logger
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr or a file path
	TimeFormat string
}

const defaultTimeFormat = time.RFC3339Nano

// New builds the logger. The returned level controls the local output only;
// extra cores such as the OTLP bridge keep their own thresholds.
func New(cfg *Config, extra ...zapcore.Core) (*zap.Logger, zap.AtomicLevel) {
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	cores := append([]zapcore.Core{zapcore.NewCore(encoder(cfg), sink(cfg.Output), level)}, extra...)
	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return log, level
}

// ParseLevel maps a config level name to a zap level. Unknown names are info.
func ParseLevel(name string) zapcore.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// SetLevel switches a running logger to the named level
func SetLevel(level zap.AtomicLevel, name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return fmt.Errorf("unknown log level %q: %w", name, err)
	}
	level.SetLevel(l)
	return nil
}

func encoder(cfg *Config) zapcore.Encoder {
	layout := cfg.TimeFormat
	if layout == "" {
		layout = defaultTimeFormat
	}
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "time"
	ec.EncodeTime = zapcore.TimeEncoderOfLayout(layout)
	ec.EncodeDuration = zapcore.MillisDurationEncoder
	if strings.EqualFold(cfg.Format, "console") {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

// sink falls back to stderr when the file cannot be opened
func sink(output string) zapcore.WriteSyncer {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.Lock(os.Stdout)
	case "stderr":
		return zapcore.Lock(os.Stderr)
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: open %s: %v, writing to stderr\n", output, err)
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.Lock(f)
}
