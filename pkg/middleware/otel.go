package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for hybrids runtimes.
const defaultTracerName = "hybrids"

// OTelConfig configures the OpenTelemetry observer.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "hybrids").
	TracerName string

	// TracerProvider supplies the tracer. Default: otel.GetTracerProvider().
	TracerProvider trace.TracerProvider

	// TraceResolutions emits a span per parent resolution. Disabled by
	// default because connects of large trees produce many spans.
	TraceResolutions bool

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry observer.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithTraceResolutions enables a span per parent resolution.
func WithTraceResolutions(enabled bool) OTelOption {
	return func(c *OTelConfig) {
		c.TraceResolutions = enabled
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracing is a hybrid.Observer that emits OpenTelemetry spans.
type Tracing struct {
	config OTelConfig
	tracer trace.Tracer
}

// OpenTelemetry creates an observer that traces every flush.
//
// The tracer comes from the global provider unless WithTracerProvider is
// given. Configure it in main() before creating runtimes:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) *Tracing {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	return &Tracing{
		config: config,
		tracer: config.TracerProvider.Tracer(config.TracerName),
	}
}

// FlushStarted implements hybrid.Observer.
func (t *Tracing) FlushStarted(size int) func(failed int) {
	attrs := append([]attribute.KeyValue{
		attribute.Int("hybrids.batch_size", size),
	}, t.config.Attributes...)

	_, span := t.tracer.Start(context.Background(), "hybrids.flush",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)

	return func(failed int) {
		span.SetAttributes(attribute.Int("hybrids.failed", failed))
		if failed > 0 {
			span.SetStatus(codes.Error, "recompute failed")
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}
}

// Resolved implements hybrid.Observer.
func (t *Tracing) Resolved(tag string, found bool) {
	if !t.config.TraceResolutions {
		return
	}
	attrs := append([]attribute.KeyValue{
		attribute.String("hybrids.tag", tag),
		attribute.Bool("hybrids.found", found),
	}, t.config.Attributes...)

	_, span := t.tracer.Start(context.Background(), "hybrids.resolve",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	span.End()
}
