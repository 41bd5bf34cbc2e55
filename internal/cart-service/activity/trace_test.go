package activity

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestNewEntryWithoutSpan(t *testing.T) {
	e := NewEntry(context.Background(), "CART-1", OpAddItem, StageValidate, OutcomeRejected, "limit")

	if e.TraceID != "" || e.SpanID != "" {
		t.Fatalf("expected empty trace info, got %q/%q", e.TraceID, e.SpanID)
	}
	if e.CartID != "CART-1" || e.Operation != OpAddItem || e.Stage != StageValidate || e.Outcome != OutcomeRejected {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.RecordedAt.IsZero() {
		t.Fatalf("recorded at not set")
	}
}

func TestNewEntryWithSpan(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	e := NewEntry(ctx, "CART-1", OpClearCart, StagePersist, OutcomeCompleted, "")

	if e.TraceID != "4bf92f3577b34da6a3ce929d0e0e4736" || e.SpanID != "00f067aa0ba902b7" {
		t.Fatalf("trace info: %q/%q", e.TraceID, e.SpanID)
	}
}
