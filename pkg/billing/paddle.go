package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"

	"github.com/quicknotehq/entitlementkit/pkg/notify"
)

// PaddleConfig holds configuration for the Paddle-backed signal provider.
type PaddleConfig struct {
	WebhookSecret string `env:"PADDLE_WEBHOOK_SECRET,required"`
}

// PaddleProvider derives the premium signal from Paddle subscription
// webhooks. The provider keeps the last known signal locally, so
// IsPremiumUser never touches the network; HandleWebhook is expected to be
// fed by the host's webhook endpoint (or a relay on the device).
type PaddleProvider struct {
	verifier *paddle.WebhookVerifier

	premium  bool
	mu       sync.RWMutex
	notifier *notify.Notifier[bool]
}

// NewPaddleProvider creates a provider that verifies webhooks with the given
// secret. The initial signal seeds the provider until the first webhook
// arrives, typically from a persisted entitlement cache.
func NewPaddleProvider(cfg PaddleConfig, initialPremium bool) (*PaddleProvider, error) {
	if cfg.WebhookSecret == "" {
		return nil, ErrMissingWebhookSecret
	}

	return &PaddleProvider{
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
		premium:  initialPremium,
		notifier: notify.New[bool](),
	}, nil
}

func (p *PaddleProvider) IsPremiumUser(_ context.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.premium
}

func (p *PaddleProvider) OnChange(handler func(premium bool)) (unsubscribe func()) {
	return p.notifier.Subscribe(handler)
}

// paddleEvent is the envelope shared by all Paddle webhook payloads.
type paddleEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		Status string `json:"status"`
	} `json:"data"`
}

// HandleWebhook verifies and applies a Paddle webhook. Events that do not
// concern subscription state are verified and then ignored.
func (p *PaddleProvider) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Paddle-Signature", signature)

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return errors.Join(ErrWebhookVerificationFailed, err)
	}
	if !valid {
		return ErrWebhookVerificationFailed
	}

	var event paddleEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return errors.Join(ErrInvalidWebhookPayload, err)
	}

	if !strings.HasPrefix(event.EventType, "subscription.") {
		return nil
	}

	premium, known := premiumFromSubscriptionStatus(event.EventType, event.Data.Status)
	if !known {
		return nil
	}

	p.apply(premium)
	return nil
}

// premiumFromSubscriptionStatus maps a Paddle subscription lifecycle event to
// the engine's boolean signal. Unknown combinations leave the signal alone.
func premiumFromSubscriptionStatus(eventType, status string) (premium, known bool) {
	switch eventType {
	case "subscription.created", "subscription.activated", "subscription.resumed":
		return true, true
	case "subscription.canceled", "subscription.paused":
		return false, true
	case "subscription.updated":
		switch status {
		case "active", "trialing":
			return true, true
		case "canceled", "paused", "past_due":
			return false, true
		}
	}
	return false, false
}

func (p *PaddleProvider) apply(premium bool) {
	p.mu.Lock()
	changed := p.premium != premium
	p.premium = premium
	p.mu.Unlock()

	if changed {
		p.notifier.Notify(premium)
	}
}
