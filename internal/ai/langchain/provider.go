package langchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/shotflow/internal/ai"
	"github.com/shotflow/pkg/models"
)

// Kind identifies the backing LLM service for a configured provider.
type Kind string

const (
	KindOpenAI Kind = "openai"
	KindGemini Kind = "gemini"
	KindClaude Kind = "claude"
	KindOllama Kind = "ollama"
)

// Options configures one completion backend instance.
type Options struct {
	Name        string  `json:"name"` // registry identifier, e.g. "openai"
	Kind        Kind    `json:"kind"` // which backing service to construct
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url,omitempty"`
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// Provider implements ai.Provider on top of a langchaingo model.
type Provider struct {
	name        string
	llm         llms.Model
	temperature float64
	maxTokens   int
}

// New constructs a provider for the configured backend. A missing credential
// is reported as ai.ErrProviderUnavailable so the caller gets the single
// well-defined "not configured" failure path instead of a per-call surprise.
func New(ctx context.Context, opts Options) (*Provider, error) {
	if opts.Name == "" {
		opts.Name = string(opts.Kind)
	}

	log.Debug().
		Str("provider", opts.Name).
		Str("kind", string(opts.Kind)).
		Str("model", opts.Model).
		Msg("Creating completion provider")

	var model llms.Model
	var err error

	switch opts.Kind {
	case KindOpenAI:
		model, err = newOpenAIModel(opts)
	case KindGemini:
		model, err = newGeminiModel(ctx, opts)
	case KindClaude:
		model, err = newAnthropicModel(opts)
	case KindOllama:
		model, err = newOllamaModel(opts)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ai.ErrProviderUnavailable, opts.Kind)
	}
	if err != nil {
		return nil, err
	}

	return &Provider{
		name:        opts.Name,
		llm:         model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}, nil
}

func (p *Provider) Name() string {
	return p.name
}

// Complete issues one blocking call to the backend and normalizes the
// response. No retry, no provider fallback: the interactive UI resends.
func (p *Provider) Complete(ctx context.Context, instructions string, history []models.Message) (*models.CompletionResult, error) {
	content := make([]llms.MessageContent, 0, len(history)+1)
	if instructions != "" {
		content = append(content, llms.TextParts(schema.ChatMessageTypeSystem, instructions))
	}
	for _, msg := range history {
		content = append(content, llms.TextParts(chatMessageType(msg.Role), msg.Content))
	}

	var callOpts []llms.CallOption
	if p.temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(p.temperature))
	}
	if p.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(p.maxTokens))
	}

	resp, err := p.llm.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		log.Error().Err(err).
			Str("provider", p.name).
			Int("history_len", len(history)).
			Msg("Completion call failed")
		return nil, fmt.Errorf("%w: %v", ai.ErrUpstream, err)
	}

	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned", ai.ErrInvalidResponse)
	}
	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Content) == "" {
		return nil, fmt.Errorf("%w: empty message content", ai.ErrInvalidResponse)
	}

	result := &models.CompletionResult{
		Message:  choice.Content,
		Usage:    usageFromGenerationInfo(choice.GenerationInfo),
		Provider: p.name,
	}

	log.Debug().
		Str("provider", p.name).
		Int("prompt_tokens", result.Usage.PromptTokens).
		Int("completion_tokens", result.Usage.CompletionTokens).
		Msg("Completion call succeeded")

	return result, nil
}

func chatMessageType(role models.MessageRole) schema.ChatMessageType {
	switch role {
	case models.RoleAssistant:
		return schema.ChatMessageTypeAI
	case models.RoleSystem:
		return schema.ChatMessageTypeSystem
	default:
		return schema.ChatMessageTypeHuman
	}
}

// usageFromGenerationInfo extracts whatever token counts the backend
// reported. Key names differ per backend (OpenAI reports CompletionTokens,
// Anthropic reports OutputTokens, Gemini may report nothing); every field is
// best-effort and partial results are fine.
func usageFromGenerationInfo(info map[string]any) models.TokenUsage {
	usage := models.TokenUsage{
		PromptTokens:     intFromInfo(info, "PromptTokens", "InputTokens", "input_tokens"),
		CompletionTokens: intFromInfo(info, "CompletionTokens", "OutputTokens", "output_tokens"),
		TotalTokens:      intFromInfo(info, "TotalTokens", "total_tokens"),
	}
	if usage.TotalTokens == 0 && (usage.PromptTokens > 0 || usage.CompletionTokens > 0) {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage
}

func intFromInfo(info map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := info[key].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

func newOpenAIModel(opts Options) (llms.Model, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key missing", ai.ErrProviderUnavailable)
	}
	o := []openai.Option{
		openai.WithToken(opts.APIKey),
	}
	if opts.Model != "" {
		o = append(o, openai.WithModel(opts.Model))
	}
	if opts.BaseURL != "" {
		o = append(o, openai.WithBaseURL(opts.BaseURL))
	}
	return openai.New(o...)
}

func newGeminiModel(ctx context.Context, opts Options) (llms.Model, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key missing", ai.ErrProviderUnavailable)
	}
	o := []googleai.Option{
		googleai.WithAPIKey(opts.APIKey),
	}
	if opts.Model != "" {
		o = append(o, googleai.WithDefaultModel(opts.Model))
	}
	model, err := googleai.New(ctx, o...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini model: %w", err)
	}
	return model, nil
}

func newAnthropicModel(opts Options) (llms.Model, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: claude api key missing", ai.ErrProviderUnavailable)
	}
	o := []anthropic.Option{
		anthropic.WithToken(opts.APIKey),
	}
	if opts.Model != "" {
		o = append(o, anthropic.WithModel(opts.Model))
	}
	return anthropic.New(o...)
}

func newOllamaModel(opts Options) (llms.Model, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:11434"
	}
	o := []ollama.Option{
		ollama.WithServerURL(opts.BaseURL),
	}
	if opts.Model != "" {
		o = append(o, ollama.WithModel(opts.Model))
	}
	return ollama.New(o...)
}
