package llm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/abhisek/eduquiz/internal/llm"

// TracingProvider is a decorator that opens a span around every Generate
// call. With no tracer provider installed the spans are no-ops.
type TracingProvider struct {
	inner  Provider
	tracer trace.Tracer
}

// WithTracing wraps a Provider using the global tracer provider.
func WithTracing(p Provider) Provider {
	return WithTracerProvider(p, otel.GetTracerProvider())
}

// WithTracerProvider wraps a Provider using an explicit tracer provider.
func WithTracerProvider(p Provider, tp trace.TracerProvider) Provider {
	return &TracingProvider{inner: p, tracer: tp.Tracer(tracerName)}
}

func (t *TracingProvider) Generate(ctx context.Context, req Request) (resp *Response, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("ai.model", t.inner.ModelID()),
		attribute.String("ai.purpose", string(PurposeFrom(ctx))),
		attribute.Int("ai.max_tokens", req.MaxTokens),
	}
	if req.Schema != nil {
		attrs = append(attrs, attribute.String("ai.schema", req.Schema.Name))
	}
	ctx, span := t.tracer.Start(ctx, "llm.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if resp != nil {
			span.SetAttributes(
				attribute.Int("ai.input_tokens", resp.Usage.InputTokens),
				attribute.Int("ai.output_tokens", resp.Usage.OutputTokens),
			)
		}
		span.End()
	}()

	return t.inner.Generate(ctx, req)
}

func (t *TracingProvider) ModelID() string {
	return t.inner.ModelID()
}
