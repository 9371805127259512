package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/caretaker-ai/pkg/logging"
)

const (
	ProviderHTTP = "http"

	defaultModel     = "gpt-4.1-mini"
	defaultUserAgent = "caretaker-ai-gateway/0.1"
	maxResponseBytes = 4 << 20
	maxErrorBody     = 512
)

// HTTPConfig controls the OpenAI-compatible chat-completions gateway.
type HTTPConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
	UserAgent  string
}

// HTTPGateway posts chat requests to a chat-completions endpoint with bearer
// authorization.
type HTTPGateway struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logging.Logger
	userAgent  string
}

// NewHTTPGateway validates cfg and returns a gateway. Missing endpoint or key
// is reported as a *ConfigError.
func NewHTTPGateway(cfg HTTPConfig) (*HTTPGateway, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, &ConfigError{Setting: "AI_ENDPOINT", Err: ErrMissingEndpoint}
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &ConfigError{Setting: "AI_API_KEY", Err: ErrMissingAPIKey}
	}
	full, err := withAPIVersion(endpoint, strings.TrimSpace(cfg.APIVersion))
	if err != nil {
		return nil, &ConfigError{Setting: "AI_ENDPOINT", Err: err}
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPGateway{
		endpoint:   full,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		httpClient: httpClient,
		logger:     logger,
		userAgent:  userAgent,
	}, nil
}

// withAPIVersion appends api-version unless the endpoint already carries one.
func withAPIVersion(endpoint, version string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	if version == "" {
		return u.String(), nil
	}
	q := u.Query()
	if q.Get("api-version") == "" {
		q.Set("api-version", version)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// Call implements Gateway.
func (g *HTTPGateway) Call(ctx context.Context, messages []Message, opts Options) (Result, error) {
	if g == nil || g.endpoint == "" || g.apiKey == "" {
		return Result{}, &GatewayError{Provider: ProviderHTTP, Err: &ConfigError{Setting: "AI_ENDPOINT/AI_API_KEY", Err: ErrMissingEndpoint}}
	}
	maxTokens, temperature, topP := opts.Resolve()
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	})
	if err != nil {
		return Result{}, &GatewayError{Provider: ProviderHTTP, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, &GatewayError{Provider: ProviderHTTP, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", g.userAgent)

	start := time.Now()
	resp, err := g.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, &GatewayError{Provider: ProviderHTTP, Err: ctx.Err()}
		}
		return Result{}, &GatewayError{Provider: ProviderHTTP, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, &GatewayError{Provider: ProviderHTTP, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, &GatewayError{Provider: ProviderHTTP, StatusCode: resp.StatusCode, Body: truncateBody(data)}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Result{}, &GatewayError{Provider: ProviderHTTP, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	out := Result{Usage: parsed.Usage}
	if len(parsed.Choices) > 0 {
		choice := parsed.Choices[0]
		if choice.Message != nil && choice.Message.Content != nil {
			out.Content = *choice.Message.Content
		}
		out.FinishReason = choice.FinishReason
	}
	g.logger.Debug("chat completion finished",
		"provider", ProviderHTTP,
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func truncateBody(data []byte) string {
	body := strings.TrimSpace(string(data))
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return body
}
