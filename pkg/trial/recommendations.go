package trial

import (
	"context"
	"fmt"
)

// Recommendations produces human-readable nudges for the UI from the
// current trial state and the attempt counter: an expiry warning, a
// progress milestone, and a discount hint once two paywall exposures went
// unconverted. Pure read, no side effects beyond the usual lazy expire.
func (s *Service) Recommendations(ctx context.Context) []string {
	rec := s.Current(ctx)

	s.mu.Lock()
	attempts := s.attempts
	promo := s.trials.Promotional
	s.mu.Unlock()

	now := s.now()
	var out []string

	if rec != nil && rec.IsActiveAt(now) {
		if rec.IsAboutToExpireAt(now) {
			out = append(out, fmt.Sprintf(
				"Your %s trial ends in %d day(s). Subscribe now to keep your premium features.",
				rec.Tier, rec.DaysRemainingAt(now)))
		}
		if p := rec.ProgressAt(now); p >= 50 && !rec.IsAboutToExpireAt(now) {
			out = append(out, fmt.Sprintf(
				"You're %.0f%% through your %s trial. Enjoying it so far?",
				p, rec.Tier))
		}
	}

	if attempts >= int64(promo.MinAttempts) && promo.PromoCode != "" {
		out = append(out, fmt.Sprintf(
			"Still deciding? Use code %s for a %d-day extended trial.",
			promo.PromoCode, promo.DurationDays))
	}

	return out
}
