package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/quicknotehq/entitlementkit/pkg/billing"
	"github.com/quicknotehq/entitlementkit/pkg/catalog"
	"github.com/quicknotehq/entitlementkit/pkg/kv"
	"github.com/quicknotehq/entitlementkit/pkg/notify"
)

// Keys under which the engine persists its state. The engine owns these keys
// exclusively; no other component may write them.
const (
	featureKeyPrefix = "entitlement:feature:"
	overrideKey      = "entitlement:debug_override"
)

// Refreshed is the payload delivered to observers after every Refresh.
type Refreshed struct {
	Premium bool
}

// Engine is the feature-access decision point. It combines the billing
// signal, an optional developer override, and a persisted per-feature cache
// into a single boolean answer per feature.
//
// The cache is a convenience, never a source of truth: after Refresh
// completes, every cached entry equals the current premium signal, and a
// missing or unreadable entry simply falls through to the live signal.
type Engine struct {
	catalog  *catalog.Catalog
	billing  billing.Provider
	store    kv.Store
	log      *slog.Logger
	notifier *notify.Notifier[Refreshed]

	debugBuild bool

	mu       sync.RWMutex
	cache    map[catalog.Feature]bool
	override bool

	unsubscribe func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for degraded-persistence warnings.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithDebugBuild marks the engine as running in a debug build, enabling the
// developer override. Release builds never honor the override, even if a
// stale flag survives in the store.
func WithDebugBuild() Option {
	return func(e *Engine) { e.debugBuild = true }
}

// New creates an engine, loads the persisted cache and override flag, and
// subscribes to billing change notifications. Persistence read failures are
// logged and treated as cache misses; they never fail construction.
func New(ctx context.Context, cat *catalog.Catalog, provider billing.Provider, store kv.Store, opts ...Option) (*Engine, error) {
	if cat == nil || provider == nil || store == nil {
		return nil, ErrMissingDependency
	}

	e := &Engine{
		catalog:  cat,
		billing:  provider,
		store:    store,
		log:      slog.Default(),
		notifier: notify.New[Refreshed](),
		cache:    make(map[catalog.Feature]bool),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.loadState(ctx)

	// Billing change notifications may arrive at any time; a refresh only
	// touches the entitlement cache, so interleaving with trial transitions
	// is safe.
	e.unsubscribe = provider.OnChange(func(bool) {
		e.Refresh(context.Background())
	})

	return e, nil
}

func (e *Engine) loadState(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, f := range catalog.Features() {
		v, err := e.store.GetBool(ctx, featureKeyPrefix+string(f))
		switch {
		case err == nil:
			e.cache[f] = v
		case errors.Is(err, kv.ErrKeyNotFound):
			// first run, nothing cached yet
		default:
			e.log.WarnContext(ctx, "entitlement cache entry unreadable, treating as miss",
				"feature", string(f), "error", err)
		}
	}

	if e.debugBuild {
		v, err := e.store.GetBool(ctx, overrideKey)
		if err == nil {
			e.override = v
		} else if !errors.Is(err, kv.ErrKeyNotFound) {
			e.log.WarnContext(ctx, "developer override flag unreadable, leaving disabled", "error", err)
		}
	}
}

// HasFeature reports whether the user may use the feature right now.
// Decision order: active developer override, then the cached entitlement,
// then the live billing signal. Never blocks on network I/O.
func (e *Engine) HasFeature(ctx context.Context, f catalog.Feature) bool {
	e.mu.RLock()
	override := e.debugBuild && e.override
	cached, hasCached := e.cache[f]
	e.mu.RUnlock()

	if override {
		return true
	}
	if hasCached {
		return cached
	}
	return e.billing.IsPremiumUser(ctx)
}

// Refresh recomputes every feature's cached entitlement from the billing
// signal and the developer override, persists the cache, and notifies
// observers. Called at startup and on every billing change notification.
func (e *Engine) Refresh(ctx context.Context) {
	premium := e.billing.IsPremiumUser(ctx)

	e.mu.Lock()
	if e.debugBuild && e.override {
		premium = true
	}
	for _, f := range catalog.Features() {
		e.cache[f] = premium
	}
	e.mu.Unlock()

	// In-memory state is already committed; persistence is best effort.
	for _, f := range catalog.Features() {
		if err := e.store.SetBool(ctx, featureKeyPrefix+string(f), premium); err != nil {
			e.log.WarnContext(ctx, "failed to persist entitlement cache entry",
				"feature", string(f), "error", err)
		}
	}

	e.notifier.Notify(Refreshed{Premium: premium})
}

// SetDeveloperOverride enables or disables the debug override and refreshes
// the cache. In release builds this is a deliberate silent no-op so a
// shipped binary can never be talked into premium access.
func (e *Engine) SetDeveloperOverride(ctx context.Context, enabled bool) {
	if !e.debugBuild {
		return
	}

	e.mu.Lock()
	e.override = enabled
	e.mu.Unlock()

	if err := e.store.SetBool(ctx, overrideKey, enabled); err != nil {
		e.log.WarnContext(ctx, "failed to persist developer override flag", "error", err)
	}

	e.Refresh(ctx)
}

// DeveloperOverrideActive reports whether the override currently applies.
func (e *Engine) DeveloperOverrideActive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.debugBuild && e.override
}

// OnRefresh registers an observer called after every completed Refresh.
// The returned function removes the registration.
func (e *Engine) OnRefresh(handler func(Refreshed)) (unsubscribe func()) {
	return e.notifier.Subscribe(handler)
}

// Catalog returns the feature catalog the engine was built with.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Snapshot returns a copy of the current cached entitlements for UI display.
func (e *Engine) Snapshot() map[catalog.Feature]bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[catalog.Feature]bool, len(e.cache))
	for f, v := range e.cache {
		out[f] = v
	}
	return out
}

// Close detaches the engine from billing change notifications.
func (e *Engine) Close() error {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	return nil
}
