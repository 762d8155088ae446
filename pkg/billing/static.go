package billing

import (
	"context"
	"sync"

	"github.com/quicknotehq/entitlementkit/pkg/notify"
)

// StaticProvider is a host-driven Provider: the embedding application pushes
// the premium signal in via SetPremium whenever its own billing integration
// learns something new. It is also the provider used throughout the tests.
type StaticProvider struct {
	premium  bool
	mu       sync.RWMutex
	notifier *notify.Notifier[bool]
}

// NewStaticProvider creates a provider with the given initial signal.
func NewStaticProvider(premium bool) *StaticProvider {
	return &StaticProvider{
		premium:  premium,
		notifier: notify.New[bool](),
	}
}

func (p *StaticProvider) IsPremiumUser(_ context.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.premium
}

// SetPremium updates the signal and notifies subscribers when it changed.
func (p *StaticProvider) SetPremium(premium bool) {
	p.mu.Lock()
	changed := p.premium != premium
	p.premium = premium
	p.mu.Unlock()

	if changed {
		p.notifier.Notify(premium)
	}
}

func (p *StaticProvider) OnChange(handler func(premium bool)) (unsubscribe func()) {
	return p.notifier.Subscribe(handler)
}
