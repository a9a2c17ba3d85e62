package billing

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCatalog(t *testing.T) {
	plans := Plans()
	require.NotEmpty(t, plans)

	seen := map[string]bool{}
	for _, p := range plans {
		assert.False(t, seen[p.Key], "duplicate plan key %s", p.Key)
		seen[p.Key] = true
		assert.NotEmpty(t, p.TestPlanID)
		assert.NotEmpty(t, p.LivePlanID)
		assert.Contains(t, []string{"monthly", "yearly"}, p.Period)
		assert.Greater(t, p.AmountPaise, int64(0))
	}
}

func TestPlanByKey(t *testing.T) {
	p, err := PlanByKey("solo_monthly")
	require.NoError(t, err)
	assert.Equal(t, "monthly", p.Period)

	_, err = PlanByKey("enterprise")
	assert.Error(t, err)
}

func TestProviderPlanID(t *testing.T) {
	p, err := PlanByKey("studio_yearly")
	require.NoError(t, err)

	id, err := p.ProviderPlanID("test")
	require.NoError(t, err)
	assert.Equal(t, p.TestPlanID, id)

	id, err = p.ProviderPlanID("live")
	require.NoError(t, err)
	assert.Equal(t, p.LivePlanID, id)

	_, err = p.ProviderPlanID("staging")
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	secret := "whsec_test"
	body := []byte(`{"event":"subscription.activated"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	p := NewWebhookProcessor(nil, secret)
	assert.True(t, p.VerifySignature(body, valid))
	assert.False(t, p.VerifySignature(body, "deadbeef"))
	assert.False(t, p.VerifySignature([]byte(`tampered`), valid))

	// No secret configured means test mode: verification is skipped
	open := NewWebhookProcessor(nil, "")
	assert.True(t, open.VerifySignature(body, "anything"))
}

func TestProcess_UnknownEventAcknowledged(t *testing.T) {
	p := NewWebhookProcessor(nil, "")

	err := p.Process(context.Background(), []byte(`{"event":"payment.captured"}`))
	assert.NoError(t, err, "unhandled events are acknowledged without action")

	err = p.Process(context.Background(), []byte(`not json`))
	assert.Error(t, err)
}
