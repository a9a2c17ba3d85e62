package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/shotflow/internal/api/auth"
	"github.com/shotflow/internal/billing"
)

func (s *Server) listPlans(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"plans": billing.Plans()})
}

type createSubscriptionRequest struct {
	PlanKey string `json:"plan_key"`
}

func (s *Server) createSubscription(c echo.Context) error {
	var req createSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.PlanKey == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "plan_key is required"})
	}

	sub, err := s.billing.CreateSubscription(c.Request().Context(), auth.UserID(c), req.PlanKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, sub)
}

func (s *Server) getSubscription(c echo.Context) error {
	sub, err := s.billing.GetForUser(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if sub == nil {
		return c.JSON(http.StatusOK, map[string]any{"subscription": nil})
	}
	return c.JSON(http.StatusOK, map[string]any{"subscription": sub})
}

// handlePaymentWebhook verifies the provider signature and applies the
// event. Processing failures still return 200 so the provider doesn't
// retry; the failure is logged for manual review.
func (s *Server) handlePaymentWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot read body"})
	}

	signature := c.Request().Header.Get("X-Razorpay-Signature")
	if !s.webhooks.VerifySignature(body, signature) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid webhook signature"})
	}

	if err := s.webhooks.Process(c.Request().Context(), body); err != nil {
		log.Error().Err(err).Msg("Webhook processing failed")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
