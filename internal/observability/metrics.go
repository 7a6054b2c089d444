package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Suya678/Stream"

var (
	instrumentsOnce sync.Once
	authEvents      metric.Int64Counter
	repoOps         metric.Int64Counter
	emailDeliveries metric.Int64Counter
)

func instruments() {
	instrumentsOnce.Do(func() {
		meter := otel.Meter(meterName)
		var err error
		if authEvents, err = meter.Int64Counter("auth_events_total",
			metric.WithDescription("Authentication flow outcomes")); err != nil {
			otel.Handle(err)
		}
		if repoOps, err = meter.Int64Counter("repository_operations_total",
			metric.WithDescription("Store operations by entity and outcome")); err != nil {
			otel.Handle(err)
		}
		if emailDeliveries, err = meter.Int64Counter("verification_emails_total",
			metric.WithDescription("Verification email delivery outcomes")); err != nil {
			otel.Handle(err)
		}
	})
}

func RecordAuthEvent(ctx context.Context, flow, outcome string) {
	instruments()
	if authEvents == nil {
		return
	}
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("flow", flow),
		attribute.String("outcome", outcome),
	))
}

func RecordRepositoryOperation(ctx context.Context, entity, op, outcome string) {
	instruments()
	if repoOps == nil {
		return
	}
	repoOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func RecordEmailDelivery(ctx context.Context, notifier, outcome string) {
	instruments()
	if emailDeliveries == nil {
		return
	}
	emailDeliveries.Add(ctx, 1, metric.WithAttributes(
		attribute.String("notifier", notifier),
		attribute.String("outcome", outcome),
	))
}
