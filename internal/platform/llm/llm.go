// Package llm holds the chat-completion clients behind the assistant.
// Every provider takes a system prompt and one user message and returns
// the model's text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var (
	ErrMissingKey      = errors.New("api key is required")
	ErrEmptyCompletion = errors.New("empty completion")
)

// Provider is one LLM backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
	// MaxTokens bounds the completion length where the API requires it.
	MaxTokens int
	// Retries is the number of extra attempts on 429 and 5xx responses.
	Retries   int
	RetryWait time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.RetryWait <= 0 {
		c.RetryWait = 500 * time.Millisecond
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c
}

// NewProvider builds the client named by cfg.Provider. An empty name means
// OpenAI.
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAI(cfg)
	case ProviderAnthropic:
		return NewAnthropic(cfg)
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// StatusError is a non-2xx answer from a provider API.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 300 {
		body = body[:300] + "..."
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Code, body)
}
