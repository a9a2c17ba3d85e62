package billing

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const paymentBaseURL = "https://api.razorpay.com/v1"

// Credentials holds the payment provider keys for one mode. They come from
// the application config at startup; nothing reads them from the
// environment at call time.
type Credentials struct {
	Mode      string // "test" or "live"
	KeyID     string
	KeySecret string
}

// Subscription is our record of a provider subscription for a user.
type Subscription struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	PlanKey          string     `json:"plan_key" db:"plan_key"`
	ProviderSubID    string     `json:"provider_subscription_id" db:"provider_subscription_id"`
	Status           string     `json:"status" db:"status"` // created, active, cancelled, halted
	CheckoutURL      string     `json:"checkout_url,omitempty" db:"checkout_url"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty" db:"current_period_end"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// providerSubscription is the provider's wire shape for a subscription.
type providerSubscription struct {
	ID         string            `json:"id,omitempty"`
	PlanID     string            `json:"plan_id"`
	Status     string            `json:"status,omitempty"`
	TotalCount int               `json:"total_count,omitempty"`
	CurrentEnd int64             `json:"current_end,omitempty"`
	ShortURL   string            `json:"short_url,omitempty"`
	Notes      map[string]string `json:"notes,omitempty"`
}

// Service creates subscriptions against the payment provider and records
// them locally. Webhooks keep the local status current afterwards.
type Service struct {
	db    *sql.DB
	creds Credentials
}

func NewService(db *sql.DB, creds Credentials) *Service {
	return &Service{db: db, creds: creds}
}

// CreateSubscription creates a provider subscription for the plan and stores
// our record of it. Returns the record including the provider checkout URL.
func (s *Service) CreateSubscription(ctx context.Context, userID, planKey string) (*Subscription, error) {
	plan, err := PlanByKey(planKey)
	if err != nil {
		return nil, err
	}
	providerPlanID, err := plan.ProviderPlanID(s.creds.Mode)
	if err != nil {
		return nil, err
	}

	totalCount := 120 // monthly cycles; provider requires a finite count
	if plan.Period == "yearly" {
		totalCount = 10
	}

	created, err := s.createProviderSubscription(ctx, providerSubscription{
		PlanID:     providerPlanID,
		TotalCount: totalCount,
		Notes:      map[string]string{"user_id": userID, "plan_key": planKey},
	})
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		UserID:        userID,
		PlanKey:       planKey,
		ProviderSubID: created.ID,
		Status:        "created",
		CheckoutURL:   created.ShortURL,
	}
	err = s.db.QueryRowContext(ctx, `
        INSERT INTO subscriptions (user_id, plan_key, provider_subscription_id, status, checkout_url)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `, sub.UserID, sub.PlanKey, sub.ProviderSubID, sub.Status, sub.CheckoutURL).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}

	log.Info().
		Str("user_id", userID).
		Str("plan", planKey).
		Str("provider_subscription_id", created.ID).
		Msg("Subscription created")

	return sub, nil
}

// GetForUser returns the most recent subscription for a user, or nil.
func (s *Service) GetForUser(ctx context.Context, userID string) (*Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, plan_key, provider_subscription_id, status, coalesce(checkout_url,''), current_period_end, created_at, updated_at
        FROM subscriptions WHERE user_id=$1
        ORDER BY created_at DESC LIMIT 1
    `, userID)
	var sub Subscription
	err := row.Scan(&sub.ID, &sub.UserID, &sub.PlanKey, &sub.ProviderSubID, &sub.Status, &sub.CheckoutURL, &sub.CurrentPeriodEnd, &sub.CreatedAt, &sub.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// updateStatus sets the local status for a provider subscription id.
func (s *Service) updateStatus(ctx context.Context, providerSubID, status string, periodEnd *time.Time) error {
	_, err := s.db.ExecContext(ctx, `
        UPDATE subscriptions
        SET status=$1, current_period_end=coalesce($2, current_period_end), updated_at=now()
        WHERE provider_subscription_id=$3
    `, status, periodEnd, providerSubID)
	return err
}

func (s *Service) createProviderSubscription(ctx context.Context, sub providerSubscription) (*providerSubscription, error) {
	jsonData, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("error marshaling subscription: %w", err)
	}

	url := fmt.Sprintf("%s/subscriptions", paymentBaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.SetBasicAuth(s.creds.KeyID, s.creds.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment API returned %d: %s", resp.StatusCode, string(body))
	}

	var created providerSubscription
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	return &created, nil
}
