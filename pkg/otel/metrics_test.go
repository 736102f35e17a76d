package otel_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/easyops/tokengate/pkg/otel"
)

func TestInMemoryMetrics_CounterAccumulates(t *testing.T) {
	m := otel.NewInMemoryMetrics()
	ctx := context.Background()

	m.Counter("requests").Add(ctx, 1)
	m.Counter("requests").Add(ctx, 2, otel.NewAttr("path", "/query"))

	if got := m.GetCounterValue("requests"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := m.GetCounterValue("missing"); got != 0 {
		t.Fatalf("expected 0 for unknown counter, got %d", got)
	}
}

func TestInMemoryMetrics_SameInstrumentReturned(t *testing.T) {
	m := otel.NewInMemoryMetrics()

	first := m.Counter("tokens")
	second := m.Counter("tokens")
	if first != second {
		t.Fatal("expected cached instrument for the same name")
	}
}

func TestInMemoryMetrics_HistogramRecordsAllValues(t *testing.T) {
	m := otel.NewInMemoryMetrics()
	ctx := context.Background()

	m.Histogram("duration").Record(ctx, 10.5)
	m.Histogram("duration").Record(ctx, 20.0)

	values := m.GetHistogramValues("duration")
	if len(values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(values))
	}
	if values[0] != 10.5 || values[1] != 20.0 {
		t.Fatalf("expected recorded values in order, got %v", values)
	}
}

func TestInMemoryMetrics_GaugeKeepsLastValue(t *testing.T) {
	m := otel.NewInMemoryMetrics()
	ctx := context.Background()

	m.Gauge("budget.remaining").Set(ctx, 9000)
	m.Gauge("budget.remaining").Set(ctx, 4500)

	if got := m.GetGaugeValue("budget.remaining"); got != 4500 {
		t.Fatalf("expected last value 4500, got %f", got)
	}
}

func TestNoopMetrics_SafeToUse(t *testing.T) {
	m := otel.NewNoopMetrics()
	ctx := context.Background()

	// Must not panic
	m.Counter("c").Add(ctx, 1)
	m.Histogram("h").Record(ctx, 1.0)
	m.Gauge("g").Set(ctx, 1.0)
}

func TestNoopTracer_SpansAreUsable(t *testing.T) {
	tracer := otel.NewNoopTracer()

	ctx, span := tracer.Start(context.Background(), "operation")
	if ctx == nil {
		t.Fatal("expected context from noop tracer")
	}
	if span == nil {
		t.Fatal("expected span from noop tracer")
	}

	// Must not panic
	span.SetAttributes(attribute.String("key", "value"))
	span.RecordError(nil)
	span.SetStatus(otel.StatusOK, "done")
	span.End()
}
