package llm

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("caretaker-ai/internal/llm")

// CallObserver receives one observation per gateway call.
type CallObserver interface {
	ObserveGatewayCall(provider, status string, seconds float64)
}

// InstrumentedGateway records a span and a metric for every call and
// normalizes failures to *GatewayError.
type InstrumentedGateway struct {
	inner    Gateway
	provider string
	observer CallObserver
}

func NewInstrumentedGateway(inner Gateway, provider string, observer CallObserver) *InstrumentedGateway {
	if inner == nil {
		panic("llm: instrumented gateway requires an inner gateway")
	}
	return &InstrumentedGateway{inner: inner, provider: provider, observer: observer}
}

// Call implements Gateway.
func (g *InstrumentedGateway) Call(ctx context.Context, messages []Message, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "llm.gateway.call")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", g.provider),
		attribute.Int("llm.messages", len(messages)),
	)

	start := time.Now()
	res, err := g.inner.Call(ctx, messages, opts)
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "gateway call failed")
		err = wrapProviderError(g.provider, err)
	}
	if g.observer != nil {
		g.observer.ObserveGatewayCall(g.provider, status, time.Since(start).Seconds())
	}
	return res, err
}
