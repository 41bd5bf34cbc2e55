package activity

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo returns the active span's ids, or empty strings when the
// context carries no valid span.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}

	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry stamped with the current trace and time.
func NewEntry(ctx context.Context, cartID string, op Operation, stage Stage, outcome Outcome, detail string) *Entry {
	ti := ExtractTraceInfo(ctx)

	return &Entry{
		CartID:     cartID,
		Operation:  op,
		Stage:      stage,
		Outcome:    outcome,
		Detail:     detail,
		TraceID:    ti.TraceID,
		SpanID:     ti.SpanID,
		RecordedAt: time.Now().UTC(),
	}
}
