package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	model  string
	tokens int32
}

func NewGemini(ctx context.Context, cfg Config) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingKey)
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	cfg = cfg.withDefaults()

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	timeout := cfg.Timeout
	cc.HTTPOptions.Timeout = &timeout
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL + "/"
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: cfg.Model, tokens: int32(cfg.MaxTokens)}, nil
}

func (c *GeminiClient) Name() string { return ProviderGemini }

func (c *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	temp := float32(0.2)
	conf := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: c.tokens,
	}
	if system != "" {
		conf.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(user, genai.RoleUser)}, conf)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyCompletion)
	}
	return text, nil
}
