package llm

import (
	"context"

	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// FallbackGateway tries a secondary provider when the primary fails.
// Context cancellation is never retried.
type FallbackGateway struct {
	primary  Gateway
	fallback Gateway
	logger   *logging.Logger
}

// NewFallbackGateway wraps primary. A nil fallback makes it a passthrough.
func NewFallbackGateway(primary, fallback Gateway, logger *logging.Logger) *FallbackGateway {
	if primary == nil {
		panic("llm: primary gateway cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackGateway{primary: primary, fallback: fallback, logger: logger}
}

// Call implements Gateway.
func (g *FallbackGateway) Call(ctx context.Context, messages []Message, opts Options) (Result, error) {
	res, err := g.primary.Call(ctx, messages, opts)
	if err == nil {
		return res, nil
	}
	if g.fallback == nil || ctx.Err() != nil {
		return Result{}, err
	}

	g.logger.Warn("primary model gateway failed, attempting fallback", "error", err.Error())
	res, fallbackErr := g.fallback.Call(ctx, messages, opts)
	if fallbackErr != nil {
		g.logger.Error("fallback model gateway also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return Result{}, fallbackErr
	}
	g.logger.Info("fallback model gateway succeeded after primary failure")
	return res, nil
}
