package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotflow/internal/ai"
	"github.com/shotflow/pkg/models"
)

type fakeProvider struct {
	name         string
	err          error
	instructions string
	history      []models.Message
	calls        int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, instructions string, history []models.Message) (*models.CompletionResult, error) {
	f.calls++
	f.instructions = instructions
	f.history = history
	if f.err != nil {
		return nil, f.err
	}
	return &models.CompletionResult{
		Message:  "Here's a starting point.",
		Usage:    models.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		Provider: f.name,
	}, nil
}

func newChatTestServer(provider *fakeProvider) *Server {
	registry := ai.NewRegistry("fake")
	if provider != nil {
		registry.Register(provider)
	}
	return &Server{
		echo:     echo.New(),
		registry: registry,
	}
}

func doChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	require.NoError(t, s.handleChat(c))
	return rec
}

func TestHandleChat_MissingToolType(t *testing.T) {
	s := newChatTestServer(&fakeProvider{name: "fake"})

	rec := doChat(t, s, `{"history":[{"role":"user","content":"hello"}]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tool_type is required")
}

func TestHandleChat_UnknownToolType(t *testing.T) {
	provider := &fakeProvider{name: "fake"}
	s := newChatTestServer(provider)

	rec := doChat(t, s, `{"history":[],"tool_type":"storyboard"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "storyboard")
	assert.Zero(t, provider.calls, "no completion call on invalid input")
}

func TestHandleChat_ProviderUnavailable(t *testing.T) {
	s := newChatTestServer(nil) // nothing registered

	rec := doChat(t, s, `{"history":[],"tool_type":"brief"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not configured")
}

func TestHandleChat_UpstreamErrorPassesThrough(t *testing.T) {
	provider := &fakeProvider{
		name: "fake",
		err:  fmt.Errorf("%w: rate limited by backend", ai.ErrUpstream),
	}
	s := newChatTestServer(provider)

	rec := doChat(t, s, `{"history":[],"tool_type":"brief"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limited by backend")
	assert.Equal(t, 1, provider.calls, "exactly one attempt, no retry")
}

func TestHandleChat_EarlyStageBrief(t *testing.T) {
	provider := &fakeProvider{name: "fake"}
	s := newChatTestServer(provider)

	rec := doChat(t, s, `{
		"history":[{"role":"user","content":"I'm not sure where to start"}],
		"tool_type":"brief"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	// Composed instructions: charter + practical tone + orientation + brief
	// guidance, and no project context block
	assert.Contains(t, provider.instructions, "senior production coordinator")
	assert.Contains(t, provider.instructions, "Tone: practical")
	assert.Contains(t, provider.instructions, "at most two questions")
	assert.Contains(t, provider.instructions, "creative brief")
	assert.NotContains(t, provider.instructions, "Current project context")

	var resp models.CompletionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Here's a starting point.", resp.Message)
	assert.Equal(t, "fake", resp.Provider)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestHandleChat_ResolvedBudgetWithContext(t *testing.T) {
	provider := &fakeProvider{name: "fake"}
	s := newChatTestServer(provider)

	rec := doChat(t, s, `{
		"history":[{"role":"user","content":"Draft the budget for the two-day shoot"}],
		"tool_type":"budget",
		"project_context":{"documentType":"budget","total":5000}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, provider.instructions, "Never invent rates")
	assert.Contains(t, provider.instructions, `"total": 5000`)
	assert.NotContains(t, provider.instructions, "at most two questions")

	require.Len(t, provider.history, 1)
	assert.Equal(t, models.RoleUser, provider.history[0].Role)
}

func TestHandleChat_ProviderSelection(t *testing.T) {
	primary := &fakeProvider{name: "fake"}
	s := newChatTestServer(primary)
	secondary := &fakeProvider{name: "gemini"}
	s.registry.Register(secondary)

	rec := doChat(t, s, `{"history":[],"tool_type":"brief","provider":"gemini"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, secondary.calls)
	assert.Zero(t, primary.calls)

	var resp models.CompletionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "gemini", resp.Provider)
}
