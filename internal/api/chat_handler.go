package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/shotflow/internal/ai"
	"github.com/shotflow/internal/chat"
	"github.com/shotflow/pkg/models"
)

// ChatRequest is the inbound shape of the assistant endpoint.
type ChatRequest struct {
	History        []models.Message    `json:"history"`
	ToolType       string              `json:"tool_type"`
	ProjectContext chat.ProjectContext `json:"project_context,omitempty"`
	Tone           string              `json:"tone,omitempty"`
	Provider       string              `json:"provider,omitempty"`
}

// handleChat runs one request through the chat core: classify the latest
// user message, compose the instruction block, issue one completion call,
// forward the normalized result verbatim. No retry; the UI resends.
func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if req.ToolType == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "tool_type is required",
		})
	}

	tool, err := chat.ParseToolType(req.ToolType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	earlyStage := chat.DetectEarlyStage(req.History)

	instructions, err := chat.Compose(tool, chat.ToneMode(req.Tone), earlyStage, req.ProjectContext)
	if err != nil {
		// Tool type was validated above; any failure here is a context
		// serialization problem, which is the caller's payload
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	provider, err := s.registry.Resolve(req.Provider)
	if err != nil {
		log.Error().Err(err).Str("provider", req.Provider).Msg("No completion provider available")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "AI assistant is not configured",
		})
	}

	result, err := provider.Complete(c.Request().Context(), instructions, req.History)
	if err != nil {
		if errors.Is(err, ai.ErrProviderUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "AI assistant is not configured",
			})
		}
		// Upstream and invalid-response failures surface verbatim; the UI
		// shows the text and lets the user resend
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, result)
}
