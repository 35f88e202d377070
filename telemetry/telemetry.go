// Package telemetry is the hub's optional OpenTelemetry wiring: one span
// per fan-out, one child span per sink send, and two counters
// (notifyguard.events.total, notifyguard.sink.failures). Disabled by
// default; the hub checks once at construction, not per call.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kart-io/notifyguard"

// Provider is the hub's telemetry handle. The zero value is not usable;
// construct with New.
type Provider struct {
	enabled       bool
	tracer        trace.Tracer
	meter         metric.Meter
	traceProvider *sdktrace.TracerProvider

	eventsTotal  metric.Int64Counter
	sinkFailures metric.Int64Counter
}

// Config controls telemetry construction. OTLPEndpoint defaults to
// "http://localhost:4318" when empty.
type Config struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
}

// New builds a Provider. When cfg.Enabled is false, it returns a working
// no-op provider backed by otel's global (no-op by default) tracer and
// meter, so callers never need to nil-check.
func New(cfg Config) (*Provider, error) {
	p := &Provider{enabled: cfg.Enabled}

	if !cfg.Enabled {
		p.tracer = otel.Tracer(instrumentationName)
		p.meter = otel.Meter(instrumentationName)
		return p, nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "notifyguard"
	}
	endpoint := cfg.OTLPEndpoint
	if endpoint == "" {
		endpoint = "http://localhost:4318"
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(attribute.String("service.name", serviceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	exporter, err := otlptrace.New(context.Background(),
		otlptracehttp.NewClient(otlptracehttp.WithEndpoint(endpoint)),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build exporter: %w", err)
	}

	p.traceProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(p.traceProvider)

	p.tracer = p.traceProvider.Tracer(instrumentationName)
	p.meter = otel.Meter(instrumentationName)

	p.eventsTotal, err = p.meter.Int64Counter("notifyguard.events.total",
		metric.WithDescription("events dispatched through the hub"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build events counter: %w", err)
	}
	p.sinkFailures, err = p.meter.Int64Counter("notifyguard.sink.failures",
		metric.WithDescription("per-sink send failures"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: build failures counter: %w", err)
	}

	return p, nil
}

// StartFanOut opens the span covering one event's full sink fan-out.
func (p *Provider) StartFanOut(ctx context.Context, kind string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "notifyguard.fanout",
		trace.WithAttributes(attribute.String("notifyguard.event.kind", kind)),
		trace.WithSpanKind(trace.SpanKindInternal))
}

// StartSinkSend opens a child span covering a single sink's send.
func (p *Provider) StartSinkSend(ctx context.Context, sinkName string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "notifyguard.sink.send",
		trace.WithAttributes(attribute.String("notifyguard.sink.name", sinkName)),
		trace.WithSpanKind(trace.SpanKindClient))
}

// RecordEventTotal increments the dispatched-events counter.
func (p *Provider) RecordEventTotal(ctx context.Context, kind string) {
	if p.eventsTotal != nil {
		p.eventsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

// RecordSinkFailure increments the per-sink failure counter.
func (p *Provider) RecordSinkFailure(ctx context.Context, sinkName string) {
	if p.sinkFailures != nil {
		p.sinkFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("sink", sinkName)))
	}
}

// SetSpanError records err on span and marks it failed. Safe to call with
// a no-op span.
func (p *Provider) SetSpanError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanOK marks span successful.
func (p *Provider) SetSpanOK(span trace.Span) {
	if span != nil {
		span.SetStatus(codes.Ok, "")
	}
}

// Shutdown flushes and releases the underlying trace provider, if any.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.traceProvider != nil {
		return p.traceProvider.Shutdown(ctx)
	}
	return nil
}
