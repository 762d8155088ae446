package trial

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/quicknotehq/entitlementkit/pkg/catalog"
)

// Record is one trial's bookkeeping. At most one record occupies the
// "current" slot (state active or extended) at any time; terminal records
// move to the append-only history and are never mutated again.
//
// Invariant: ExpiresAt is never before StartedAt.
type Record struct {
	ID            uuid.UUID      `json:"id"`
	Tier          catalog.Tier   `json:"tier"`
	Type          OfferType      `json:"offer_type"`
	StartedAt     time.Time      `json:"started_at"`
	ExpiresAt     time.Time      `json:"expires_at"`
	DurationDays  int            `json:"duration_days"`  // as granted by the offer
	ExtensionDays int            `json:"extension_days"` // cumulative, added by Extend
	State         State          `json:"state"`
	PromoCode     string         `json:"promo_code,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// TotalDurationDays is the original grant plus all extensions.
func (r Record) TotalDurationDays() int {
	return r.DurationDays + r.ExtensionDays
}

// DaysRemainingAt returns whole days left before expiry, rounding partial
// days up so "ends tomorrow morning" still reads as one day. Never negative.
func (r Record) DaysRemainingAt(now time.Time) int {
	remaining := r.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// ProgressAt returns how far through the trial window now is, clamped to
// [0,100]. Zero-length windows count as fully elapsed.
func (r Record) ProgressAt(now time.Time) float64 {
	total := r.ExpiresAt.Sub(r.StartedAt)
	if total <= 0 {
		return 100
	}
	progress := float64(now.Sub(r.StartedAt)) / float64(total) * 100
	return math.Min(100, math.Max(0, progress))
}

// IsExpiredAt reports whether the trial window has passed, regardless of
// whether the expired transition has been observed yet.
func (r Record) IsExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// IsActiveAt reports whether the trial currently grants access.
func (r Record) IsActiveAt(now time.Time) bool {
	return (r.State == StateActive || r.State == StateExtended) && !r.IsExpiredAt(now)
}

// IsAboutToExpireAt reports whether the trial ends within two days but has
// not ended yet. Drives the UI's expiry warning.
func (r Record) IsAboutToExpireAt(now time.Time) bool {
	d := r.DaysRemainingAt(now)
	return d > 0 && d <= 2
}

// clone returns a deep copy so callers can never mutate service state.
func (r Record) clone() Record {
	out := r
	if r.Metadata != nil {
		out.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
