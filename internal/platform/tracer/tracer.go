// Package tracer wraps OpenTelemetry so session services can open spans
// around verifier calls without depending on otel APIs throughout the
// codebase.
package tracer

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer opens spans on the global tracer provider.
type Tracer struct {
	tracer trace.Tracer
}

// Option configures the Tracer.
type Option func(*Tracer)

// WithTracer injects a pre-configured OpenTelemetry tracer, useful for tests.
func WithTracer(t trace.Tracer) Option {
	return func(tr *Tracer) {
		tr.tracer = t
	}
}

// New creates a tracer under the given instrumentation name.
func New(name string, opts ...Option) *Tracer {
	t := &Tracer{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(name)
	}
	return t
}

// Start opens a span. The returned end function records the given error and
// closes the span; call it exactly once.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
