package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer of application service spans
const TracerName = "tms-backend"

// Span attribute keys of the container and dispatch flows
const (
	SpanAttrBookingNumber   = "booking_number"
	SpanAttrContainerNumber = "container_number"
	SpanAttrContainerStatus = "container_status"
	SpanAttrDirection       = "direction"
	SpanAttrSKU             = "sku"
	SpanAttrQuantity        = "quantity"
	SpanAttrDispatchNumber  = "dispatch_number"
	SpanAttrDriverID        = "driver_id"
	SpanAttrVehicleID       = "vehicle_id"
)

// StartServiceSpan starts an internal span named "<service>.<method>", e.g.
// "container.change_status". The caller ends it.
func StartServiceSpan(ctx context.Context, service, method string) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method, trace.WithSpanKind(trace.SpanKindInternal))
}

// SetAttributes sets alternating key, value pairs on span. Non-string keys
// and a trailing key without value are dropped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(pairs(keyValues)...)
}

// AddEvent records a named event with alternating key, value pairs
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(pairs(keyValues)...))
}

// RecordError records err and marks the span failed
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span successful
func SetOK(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// TraceID returns the trace ID of the span in ctx, or ""
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func pairs(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
