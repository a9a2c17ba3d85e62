package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// WebhookEvent is the provider's webhook envelope, narrowed to the fields
// the subscription flow needs.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Subscription struct {
			Entity struct {
				ID         string `json:"id"`
				Status     string `json:"status"`
				CurrentEnd int64  `json:"current_end"`
			} `json:"entity"`
		} `json:"subscription"`
	} `json:"payload"`
}

// WebhookProcessor verifies and applies provider webhook deliveries.
type WebhookProcessor struct {
	service *Service
	secret  string
}

func NewWebhookProcessor(service *Service, secret string) *WebhookProcessor {
	return &WebhookProcessor{service: service, secret: secret}
}

// VerifySignature checks the HMAC-SHA256 signature the provider sends with
// every delivery. In test mode with no secret configured, verification is
// skipped.
func (p *WebhookProcessor) VerifySignature(body []byte, signature string) bool {
	if p.secret == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) == 1
}

// Process parses and applies one webhook delivery. Unknown event types are
// acknowledged without action so the provider doesn't retry them.
func (p *WebhookProcessor) Process(ctx context.Context, body []byte) error {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("invalid webhook payload: %w", err)
	}

	entity := event.Payload.Subscription.Entity
	var periodEnd *time.Time
	if entity.CurrentEnd > 0 {
		t := time.Unix(entity.CurrentEnd, 0).UTC()
		periodEnd = &t
	}

	switch event.Event {
	case "subscription.activated", "subscription.charged":
		return p.service.updateStatus(ctx, entity.ID, "active", periodEnd)
	case "subscription.halted":
		return p.service.updateStatus(ctx, entity.ID, "halted", periodEnd)
	case "subscription.cancelled", "subscription.completed", "subscription.expired":
		return p.service.updateStatus(ctx, entity.ID, "cancelled", periodEnd)
	default:
		log.Debug().Str("event", event.Event).Msg("Ignoring unhandled webhook event")
		return nil
	}
}
