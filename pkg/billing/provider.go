package billing

import "context"

// Provider is the engine's view of the upstream billing source of truth.
// The engine only ever consumes a boolean "is this user on a paid tier"
// signal plus change notifications; it never writes back.
//
// IsPremiumUser must answer from locally held state — decision paths in the
// entitlement engine are not allowed to block on network I/O.
type Provider interface {
	// IsPremiumUser reports whether the user currently holds a paid tier.
	IsPremiumUser(ctx context.Context) bool

	// OnChange registers a handler invoked whenever the premium signal
	// changes. The returned function removes the registration.
	OnChange(handler func(premium bool)) (unsubscribe func())
}
