package langchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/schema"

	"github.com/shotflow/internal/ai"
	"github.com/shotflow/pkg/models"
)

func TestUsageFromGenerationInfo(t *testing.T) {
	// OpenAI-style keys
	usage := usageFromGenerationInfo(map[string]any{
		"PromptTokens":     120,
		"CompletionTokens": 45,
		"TotalTokens":      165,
	})
	assert.Equal(t, 120, usage.PromptTokens)
	assert.Equal(t, 45, usage.CompletionTokens)
	assert.Equal(t, 165, usage.TotalTokens)

	// Anthropic-style keys, no total reported
	usage = usageFromGenerationInfo(map[string]any{
		"InputTokens":  100,
		"OutputTokens": 50,
	})
	assert.Equal(t, 100, usage.PromptTokens)
	assert.Equal(t, 50, usage.CompletionTokens)
	assert.Equal(t, 150, usage.TotalTokens, "total derived when parts are known")

	// Backend reporting nothing is fine; usage is best-effort
	usage = usageFromGenerationInfo(nil)
	assert.Zero(t, usage.PromptTokens)
	assert.Zero(t, usage.CompletionTokens)
	assert.Zero(t, usage.TotalTokens)

	// Some backends hand back float64
	usage = usageFromGenerationInfo(map[string]any{"TotalTokens": float64(42)})
	assert.Equal(t, 42, usage.TotalTokens)
}

func TestChatMessageType(t *testing.T) {
	assert.Equal(t, schema.ChatMessageTypeHuman, chatMessageType(models.RoleUser))
	assert.Equal(t, schema.ChatMessageTypeAI, chatMessageType(models.RoleAssistant))
	assert.Equal(t, schema.ChatMessageTypeSystem, chatMessageType(models.RoleSystem))
}

func TestNew_MissingCredentialIsProviderUnavailable(t *testing.T) {
	for _, kind := range []Kind{KindOpenAI, KindGemini, KindClaude} {
		_, err := New(context.Background(), Options{Kind: kind})
		assert.ErrorIs(t, err, ai.ErrProviderUnavailable, "kind %s", kind)
	}
}

func TestNew_UnsupportedKind(t *testing.T) {
	_, err := New(context.Background(), Options{Kind: Kind("watson")})
	assert.ErrorIs(t, err, ai.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "watson")
}
