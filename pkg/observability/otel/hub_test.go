package otel

import (
	"context"
	"runtime"
	"testing"

	"github.com/fluxorio/hub/pkg/hub"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

type page struct{ name string }

type banner struct{ last string }

// setTestTracer installs an in-memory exporter as the global tracer and
// restores the uninitialized state when the test ends.
func setTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))

	mu.Lock()
	if initialized {
		mu.Unlock()
		t.Fatal("tracer already initialized")
	}
	globalProvider = tp
	globalTracer = tp.Tracer("test")
	initialized = true
	mu.Unlock()

	t.Cleanup(func() {
		mu.Lock()
		initialized = false
		globalTracer = nil
		globalProvider = nil
		mu.Unlock()
		_ = tp.Shutdown(context.Background())
	})
	return exp
}

func TestSendWithSpan_RecordsProducerSpan(t *testing.T) {
	exp := setTestTracer(t)
	h := hub.New()
	b := &banner{}

	err := hub.SubscribeBound(h, b, "Greeting", func(b *banner, p *page, msg string) {
		b.last = msg
	})
	if err != nil {
		t.Fatalf("SubscribeBound() error = %v", err)
	}

	if err := SendWithSpan(context.Background(), h, &page{name: "home"}, "Greeting", "hi"); err != nil {
		t.Fatalf("SendWithSpan() error = %v", err)
	}
	if b.last != "hi" {
		t.Errorf("delivered = %q, want %q", b.last, "hi")
	}

	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name != "hub.send" {
		t.Errorf("span name = %q, want hub.send", span.Name)
	}
	if span.SpanKind != trace.SpanKindProducer {
		t.Errorf("span kind = %v, want producer", span.SpanKind)
	}
	destination := ""
	for _, kv := range span.Attributes {
		if kv.Key == semconv.MessagingDestinationKey {
			destination = kv.Value.AsString()
		}
	}
	if destination != "Greeting" {
		t.Errorf("messaging.destination = %q, want Greeting", destination)
	}
	runtime.KeepAlive(b)
}

func TestSendWithSpan_UninitializedDelegates(t *testing.T) {
	h := hub.New()
	b := &banner{}

	err := hub.SubscribeBound(h, b, "Greeting", func(b *banner, p *page, msg string) {
		b.last = msg
	})
	if err != nil {
		t.Fatalf("SubscribeBound() error = %v", err)
	}

	// No tracer installed: the wrapper must still deliver.
	if err := SendWithSpan(context.Background(), h, &page{}, "Greeting", "plain"); err != nil {
		t.Fatalf("SendWithSpan() error = %v", err)
	}
	if b.last != "plain" {
		t.Errorf("delivered = %q, want %q", b.last, "plain")
	}
	runtime.KeepAlive(b)
}

func TestWrapHandler_RecordsConsumerSpan(t *testing.T) {
	exp := setTestTracer(t)
	got := ""

	wrapped := WrapHandler("Greeting", func(p *page, msg string) {
		got = msg
	})
	wrapped(&page{name: "home"}, "hi")

	if got != "hi" {
		t.Errorf("handler saw %q, want %q", got, "hi")
	}
	spans := exp.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded spans = %d, want 1", len(spans))
	}
	if spans[0].Name != "hub.deliver" {
		t.Errorf("span name = %q, want hub.deliver", spans[0].Name)
	}
	if spans[0].SpanKind != trace.SpanKindConsumer {
		t.Errorf("span kind = %v, want consumer", spans[0].SpanKind)
	}
}
