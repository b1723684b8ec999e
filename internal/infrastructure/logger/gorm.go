package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the latency above which statements log at warn
const DefaultSlowQuery = 200 * time.Millisecond

// GormLogger sends gorm's statement log through zap, tagged with the
// request identifiers of the statement context. Missing rows are not errors.
type GormLogger struct {
	base  *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger names the logger "gorm" and uses DefaultSlowQuery
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel) *GormLogger {
	return &GormLogger{base: base.Named("gorm"), level: level, slow: DefaultSlowQuery}
}

// WithSlowThreshold returns a copy with another slow query threshold; zero disables it
func (l *GormLogger) WithSlowThreshold(d time.Duration) *GormLogger {
	c := *l
	c.slow = d
	return &c
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, args)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, args)
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, args)
}

func (l *GormLogger) printf(ctx context.Context, need gormlogger.LogLevel, lvl zapcore.Level, msg string, args []any) {
	if l.level < need {
		return
	}
	l.base.With(contextFields(ctx)...).Log(lvl, fmt.Sprintf(msg, args...))
}

// Trace logs failed statements at error, slow ones at warn and the rest at
// debug when the level is Info
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	slow := l.slow > 0 && elapsed > l.slow

	var lvl zapcore.Level
	var msg string
	switch {
	case failed && l.level >= gormlogger.Error:
		lvl, msg = zapcore.ErrorLevel, "SQL failed"
	case slow && l.level >= gormlogger.Warn:
		lvl, msg = zapcore.WarnLevel, "Slow SQL"
	case l.level >= gormlogger.Info:
		lvl, msg = zapcore.DebugLevel, "SQL"
	default:
		return
	}

	sql, rows := fc()
	fields := append(contextFields(ctx),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
	if failed {
		fields = append(fields, zap.Error(err))
	}
	if slow {
		fields = append(fields, zap.Duration("threshold", l.slow))
	}
	l.base.Log(lvl, msg, fields...)
}

// GormLevel maps the application log level to gorm's. Debug shows every
// statement; unknown names keep warnings only.
func GormLevel(name string) gormlogger.LogLevel {
	switch strings.ToLower(name) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug", "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
