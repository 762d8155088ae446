package trial

import (
	"context"

	"github.com/quicknotehq/entitlementkit/pkg/catalog"
)

// AvailableOffers computes which trial offers may currently be surfaced:
//
//   - a standard offer for every tier whose standard trial is still eligible,
//   - a promotional offer once enough paywall exposures went unconverted and
//     the promoted tier's standard trial is still on the table,
//   - a win-back offer once a previous trial was allowed to expire and at
//     least one conversion attempt was recorded.
//
// Offers whose validity window has already closed are never returned.
func (s *Service) AvailableOffers(ctx context.Context) []Offer {
	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	now := s.now()
	if c := s.expireCheckLocked(ctx, now); c != nil {
		pending = append(pending, *c)
	}

	var offers []Offer

	for _, tier := range catalog.Tiers() {
		days, ok := s.trials.StandardDays[tier]
		if !ok || !s.eligibility[tier] {
			continue
		}
		offers = append(offers, Offer{
			Tier:         tier,
			Type:         OfferStandard,
			DurationDays: days,
		})
	}

	if promo := s.trials.Promotional; promo.DurationDays > 0 &&
		s.attempts >= int64(promo.MinAttempts) && s.eligibility[promo.Tier] {
		validUntil := now.AddDate(0, 0, promo.ValidityDays)
		offers = append(offers, Offer{
			Tier:         promo.Tier,
			Type:         OfferPromotional,
			DurationDays: promo.DurationDays,
			PromoCode:    promo.PromoCode,
			ValidUntil:   &validUntil,
		})
	}

	if wb := s.trials.Winback; wb.DurationDays > 0 &&
		s.attempts >= int64(wb.MinAttempts) && s.hasExpiredHistoryLocked() {
		validUntil := now.AddDate(0, 0, wb.ValidityDays)
		offers = append(offers, Offer{
			Tier:         wb.Tier,
			Type:         OfferWinback,
			DurationDays: wb.DurationDays,
			PromoCode:    wb.PromoCode,
			ValidUntil:   &validUntil,
		})
	}

	// Validity windows are computed above from now, but offers built from a
	// stale catalog deadline must still be filtered out.
	valid := offers[:0]
	for _, o := range offers {
		if !o.ExpiredAt(now) {
			valid = append(valid, o)
		}
	}
	return valid
}

func (s *Service) hasExpiredHistoryLocked() bool {
	for _, rec := range s.history {
		if rec.State == StateExpired {
			return true
		}
	}
	return false
}
