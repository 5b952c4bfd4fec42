package otel

import (
	"context"

	"github.com/fluxorio/hub/pkg/hub"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// SendWithSpan publishes through h inside a producer span named after the
// message. Handlers run synchronously, so their time is part of the span.
func SendWithSpan[S any, A any](ctx context.Context, h *hub.Hub, sender *S, name string, args A) error {
	if !IsInitialized() {
		return hub.Send(h, sender, name, args)
	}

	_, span := StartSpan(ctx, "hub.send",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKey.String("hub"),
			semconv.MessagingDestinationKey.String(name),
			semconv.MessagingOperationKey.String("send"),
		),
	)
	defer span.End()

	err := hub.Send(h, sender, name, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "OK")
	}
	return err
}

// SendEventWithSpan is SendWithSpan for no-argument topics.
func SendEventWithSpan[S any](ctx context.Context, h *hub.Hub, sender *S, name string) error {
	if !IsInitialized() {
		return hub.SendEvent(h, sender, name)
	}

	_, span := StartSpan(ctx, "hub.send",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKey.String("hub"),
			semconv.MessagingDestinationKey.String(name),
			semconv.MessagingOperationKey.String("send"),
		),
	)
	defer span.End()

	err := hub.SendEvent(h, sender, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "OK")
	}
	return err
}

// WrapHandler wraps a subscription handler with a consumer span per delivery.
func WrapHandler[S any, A any](name string, handler func(*S, A)) func(*S, A) {
	return func(sender *S, args A) {
		_, span := StartSpan(context.Background(), "hub.deliver",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				semconv.MessagingSystemKey.String("hub"),
				semconv.MessagingDestinationKey.String(name),
				semconv.MessagingOperationKey.String("deliver"),
			),
		)
		defer span.End()
		handler(sender, args)
	}
}
