package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	fieldsKey
)

// RequestFields are the identifiers stamped on every log line of a request
type RequestFields struct {
	RequestID string
	TenantID  string
	UserID    string
}

// WithContext stores the base logger for the request
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// WithRequestID records the request ID on ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	f := Fields(ctx)
	f.RequestID = id
	return context.WithValue(ctx, fieldsKey, f)
}

// WithTenantID records the resolved tenant on ctx
func WithTenantID(ctx context.Context, id string) context.Context {
	f := Fields(ctx)
	f.TenantID = id
	return context.WithValue(ctx, fieldsKey, f)
}

// WithUserID records the authenticated user on ctx
func WithUserID(ctx context.Context, id string) context.Context {
	f := Fields(ctx)
	f.UserID = id
	return context.WithValue(ctx, fieldsKey, f)
}

// Fields returns the identifiers recorded on ctx
func Fields(ctx context.Context) RequestFields {
	f, _ := ctx.Value(fieldsKey).(RequestFields)
	return f
}

// TenantID returns the tenant recorded on ctx, or ""
func TenantID(ctx context.Context) string {
	return Fields(ctx).TenantID
}

// UserID returns the user recorded on ctx, or ""
func UserID(ctx context.Context) string {
	return Fields(ctx).UserID
}

// FromContext returns the request logger with the recorded identifiers and
// the active trace attached. Without a stored logger it returns a no-op.
func FromContext(ctx context.Context) *zap.Logger {
	return FromContextOr(ctx, zap.NewNop())
}

// FromContextOr is FromContext with fallback used when ctx carries no
// logger; the identifiers are still attached
func FromContextOr(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	log, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || log == nil {
		log = fallback
	}
	if fields := contextFields(ctx); len(fields) > 0 {
		return log.With(fields...)
	}
	return log
}

func contextFields(ctx context.Context) []zap.Field {
	f := Fields(ctx)
	var fields []zap.Field
	if f.RequestID != "" {
		fields = append(fields, zap.String("request_id", f.RequestID))
	}
	if f.TenantID != "" {
		fields = append(fields, zap.String("tenant_id", f.TenantID))
	}
	if f.UserID != "" {
		fields = append(fields, zap.String("user_id", f.UserID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return fields
}
