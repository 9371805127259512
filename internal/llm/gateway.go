// Package llm is the boundary to hosted language models. Every provider
// implements Gateway; callers above this package never see provider types.
package llm

import (
	"context"
	"strings"
)

// Role tags a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a chat request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

const (
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
)

// Options are the generation parameters of a call. Nil pointers and a zero
// MaxTokens select the defaults.
type Options struct {
	MaxTokens   int
	Temperature *float64
	TopP        *float64
}

// Float64 returns a pointer to v, for Options fields.
func Float64(v float64) *float64 { return &v }

// Resolve returns the effective parameters with defaults applied.
func (o Options) Resolve() (maxTokens int, temperature, topP float64) {
	maxTokens = o.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temperature = DefaultTemperature
	if o.Temperature != nil {
		temperature = *o.Temperature
	}
	topP = DefaultTopP
	if o.TopP != nil {
		topP = *o.TopP
	}
	return maxTokens, temperature, topP
}

// Usage holds token counters reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the outcome of a successful call. FinishReason and Usage are nil
// when the provider omitted them.
type Result struct {
	Content      string  `json:"content"`
	FinishReason *string `json:"finish_reason"`
	Usage        *Usage  `json:"usage,omitempty"`
}

// Gateway sends an ordered message list to a hosted model.
type Gateway interface {
	Call(ctx context.Context, messages []Message, opts Options) (Result, error)
}

// SimpleChat sends one system and one user message and returns the text.
func SimpleChat(ctx context.Context, gw Gateway, system, user string, opts Options) (string, error) {
	res, err := gw.Call(ctx, []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}, opts)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

const pingSystemPrompt = "You are a helpful assistant. Respond briefly."

// PingResult reports a connectivity check.
type PingResult struct {
	OK       bool   `json:"ok"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Ping issues a tiny request to confirm the gateway is reachable.
func Ping(ctx context.Context, gw Gateway) PingResult {
	out, err := SimpleChat(ctx, gw, pingSystemPrompt, "Say 'Connection successful!' and nothing else.", Options{MaxTokens: 20})
	if err != nil {
		return PingResult{OK: false, Error: err.Error()}
	}
	return PingResult{OK: true, Response: strings.TrimSpace(out)}
}
