// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm sends single-turn prompts to a hosted language model and
// returns the completion text. OpenRouter, Anthropic and Gemini backends
// implement Completer.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/zerosearch/pkg/types"
)

// Provider names accepted by New.
const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderGemini     = "gemini"
)

// Default models per provider, used when LLMConfig.Model is empty.
const (
	DefaultOpenRouterModel = "tngtech/deepseek-r1t2-chimera:free"
	DefaultAnthropicModel  = "claude-sonnet-4-5"
	DefaultGeminiModel     = "gemini-2.5-flash"
)

// defaultMaxTokens applies when LLMConfig.MaxTokens is unset and the
// provider requires a bound.
const defaultMaxTokens = 8192

var (
	// ErrUnknownProvider is returned by New for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown llm provider")

	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("llm API key is not set")

	// ErrEmptyCompletion is returned when the model answers with no text.
	ErrEmptyCompletion = errors.New("model returned no completion")
)

// Completer sends one user prompt and returns the model's answer.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// New returns the completer selected by cfg.Provider. An empty name selects
// OpenRouter. client is used by the HTTP backends; nil builds one with
// cfg.Timeout.
func New(ctx context.Context, cfg types.LLMConfig, client *http.Client) (Completer, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenRouter
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: configure the %s key", ErrMissingAPIKey, provider)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	switch provider {
	case ProviderOpenRouter:
		return &OpenRouterClient{APIKey: cfg.APIKey, Model: modelOr(cfg.Model, DefaultOpenRouterModel), Client: client}, nil
	case ProviderAnthropic:
		return &AnthropicClient{APIKey: cfg.APIKey, Model: modelOr(cfg.Model, DefaultAnthropicModel), MaxTokens: maxTokens, Client: client}, nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.APIKey, modelOr(cfg.Model, DefaultGeminiModel), maxTokens)
	default:
		return nil, fmt.Errorf("%w %q: use %s, %s or %s", ErrUnknownProvider, cfg.Provider, ProviderOpenRouter, ProviderAnthropic, ProviderGemini)
	}
}

func modelOr(model, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}
