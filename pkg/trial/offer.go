package trial

import (
	"time"

	"github.com/quicknotehq/entitlementkit/pkg/catalog"
)

// Offer describes a trial the user may start. Offers are pure values: once
// one is consumed by Start it becomes a Record and the offer itself is gone.
type Offer struct {
	Tier         catalog.Tier   `json:"tier"`
	Type         OfferType      `json:"type"`
	DurationDays int            `json:"duration_days"`
	PromoCode    string         `json:"promo_code,omitempty"`
	ValidUntil   *time.Time     `json:"valid_until,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ExpiredAt reports whether the offer's validity window has closed.
// Offers without a deadline never expire.
func (o Offer) ExpiredAt(now time.Time) bool {
	return o.ValidUntil != nil && now.After(*o.ValidUntil)
}

// validate checks the fields Start depends on.
func (o Offer) validate() error {
	if !o.Tier.Valid() || !o.Type.Valid() || o.DurationDays <= 0 {
		return ErrInvalidOffer
	}
	return nil
}
