package trial

import (
	"context"

	"github.com/quicknotehq/entitlementkit/pkg/analytics"
)

// RecordAttempt registers one "saw the paywall, did not buy" exposure and
// returns the new attempt number. The counter is monotonic and persisted;
// a persistence failure degrades to "not durably saved this session" and
// never blocks the caller.
func (s *Service) RecordAttempt(ctx context.Context, attemptContext string) int64 {
	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	now := s.now()
	if c := s.expireCheckLocked(ctx, now); c != nil {
		pending = append(pending, *c)
	}

	s.attempts++
	attempt := s.attempts

	if err := s.store.SetInt(ctx, attemptsKey, attempt); err != nil {
		s.log.WarnContext(ctx, "failed to persist conversion-attempt counter",
			"attempt", attempt, "error", err)
	}

	hasActiveTrial := s.current != nil && s.current.IsActiveAt(now)

	s.sink.Track(ctx, EventConversionAttempted, analytics.Params{
		"context":          attemptContext,
		"attempt_number":   attempt,
		"has_active_trial": hasActiveTrial,
	})

	pending = append(pending, Change{Op: OpAttemptRecorded})
	return attempt
}

// Attempts returns the number of recorded conversion attempts.
func (s *Service) Attempts() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}
