package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	ProviderGemini = "gemini"

	defaultGeminiModel = "gemini-1.5-flash"
)

// GeminiGateway calls Google's Gemini API.
type GeminiGateway struct {
	client  *genai.Client
	modelID string
}

// NewGeminiGateway creates a Gemini-backed gateway.
func NewGeminiGateway(ctx context.Context, apiKey, modelID string) (*GeminiGateway, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ConfigError{Setting: "GEMINI_API_KEY", Err: ErrMissingAPIKey}
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("llm: create gemini client: %w", err)
	}
	return &GeminiGateway{client: client, modelID: modelID}, nil
}

// Call implements Gateway. The final non-system message is sent; earlier ones
// become chat history.
func (g *GeminiGateway) Call(ctx context.Context, messages []Message, opts Options) (Result, error) {
	model := g.client.GenerativeModel(g.modelID)
	maxTokens, temperature, topP := opts.Resolve()
	model.SetTemperature(float32(temperature))
	model.SetTopP(float32(topP))
	model.SetMaxOutputTokens(int32(maxTokens))

	var system []string
	var turns []Message
	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		if msg.Role == RoleSystem {
			system = append(system, msg.Content)
			continue
		}
		turns = append(turns, msg)
	}
	if len(system) > 0 {
		model.SystemInstruction = genai.NewUserContent(genai.Text(strings.Join(system, "\n\n")))
	}
	if len(turns) == 0 {
		return Result{}, &GatewayError{Provider: ProviderGemini, Err: errors.New("at least one user message is required")}
	}

	cs := model.StartChat()
	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(turns[len(turns)-1].Content))
	if err != nil {
		return Result{}, &GatewayError{Provider: ProviderGemini, Err: err}
	}
	if len(resp.Candidates) == 0 {
		return Result{}, &GatewayError{Provider: ProviderGemini, Err: errors.New("no candidates returned")}
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	reason := candidate.FinishReason.String()
	res := Result{Content: text.String(), FinishReason: &reason}
	if resp.UsageMetadata != nil {
		res.Usage = &Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return res, nil
}

// Close releases resources held by the Gemini client.
func (g *GeminiGateway) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
