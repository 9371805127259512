package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/wolfman30/caretaker-ai/internal/config"
	"github.com/wolfman30/caretaker-ai/internal/llm"
	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

// AWSConfigLoader builds the SDK config used by the Bedrock provider.
type AWSConfigLoader func(ctx context.Context, cfg *appconfig.Config) (aws.Config, error)

func defaultAWSLoader(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
}

// Gateway is the wired model gateway plus whatever must be closed on exit.
type Gateway struct {
	llm.Gateway
	closers []func() error
}

func (g *Gateway) Close() {
	for _, c := range g.closers {
		_ = c()
	}
}

// BuildGateway selects the configured provider, instruments it and, when a
// different fallback provider is configured, chains the two. Configuration
// errors are returned so the binary can refuse to start.
func BuildGateway(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, observer llm.CallObserver, loadAWS AWSConfigLoader) (*Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if loadAWS == nil {
		loadAWS = defaultAWSLoader
	}

	out := &Gateway{}
	primary, err := buildProvider(ctx, cfg, cfg.ModelProvider, logger, observer, loadAWS, out)
	if err != nil {
		return nil, err
	}
	out.Gateway = primary

	fallback := strings.ToLower(strings.TrimSpace(cfg.ModelFallbackProvider))
	if fallback != "" && fallback != cfg.ModelProvider {
		secondary, err := buildProvider(ctx, cfg, fallback, logger, observer, loadAWS, out)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("bootstrap: fallback provider: %w", err)
		}
		out.Gateway = llm.NewFallbackGateway(primary, secondary, logger)
		logger.Info("model gateway fallback enabled", "primary", cfg.ModelProvider, "fallback", fallback)
	}
	return out, nil
}

func buildProvider(ctx context.Context, cfg *appconfig.Config, provider string, logger *logging.Logger, observer llm.CallObserver, loadAWS AWSConfigLoader, out *Gateway) (llm.Gateway, error) {
	var gw llm.Gateway
	switch provider {
	case llm.ProviderHTTP, "":
		httpGW, err := llm.NewHTTPGateway(llm.HTTPConfig{
			Endpoint:   cfg.AIEndpoint,
			APIKey:     cfg.AIAPIKey,
			APIVersion: cfg.AIAPIVersion,
			Model:      cfg.AIModel,
			Timeout:    cfg.AITimeout,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		provider = llm.ProviderHTTP
		gw = httpGW
	case llm.ProviderBedrock:
		awsCfg, err := loadAWS(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load aws config: %w", err)
		}
		bedrockGW, err := llm.NewBedrockGateway(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID)
		if err != nil {
			return nil, err
		}
		gw = bedrockGW
	case llm.ProviderGemini:
		geminiGW, err := llm.NewGeminiGateway(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, geminiGW.Close)
		gw = geminiGW
	default:
		return nil, fmt.Errorf("bootstrap: unknown model provider %q", provider)
	}
	logger.Info("model gateway configured", "provider", provider)
	return llm.NewInstrumentedGateway(gw, provider, observer), nil
}
