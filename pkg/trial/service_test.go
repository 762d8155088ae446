package trial_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicknotehq/entitlementkit/pkg/analytics"
	"github.com/quicknotehq/entitlementkit/pkg/catalog"
	"github.com/quicknotehq/entitlementkit/pkg/kv"
	"github.com/quicknotehq/entitlementkit/pkg/trial"
)

// fakeClock lets tests advance simulated time.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) AdvanceDays(days float64) {
	c.t = c.t.Add(time.Duration(days * 24 * float64(time.Hour)))
}

func newService(t *testing.T, store kv.Store, opts ...trial.Option) (*trial.Service, *analytics.Memory, *fakeClock) {
	t.Helper()

	sink := analytics.NewMemory()
	clock := newFakeClock()

	opts = append([]trial.Option{trial.WithClock(clock.Now)}, opts...)
	svc, err := trial.NewService(t.Context(), store, sink, opts...)
	require.NoError(t, err)

	return svc, sink, clock
}

func standardPremiumOffer() trial.Offer {
	return trial.Offer{Tier: catalog.TierPremium, Type: trial.OfferStandard, DurationDays: 7}
}

func TestStart(t *testing.T) {
	t.Parallel()

	t.Run("starts a standard trial", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		rec, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		assert.Equal(t, catalog.TierPremium, rec.Tier)
		assert.Equal(t, trial.StateActive, rec.State)
		assert.Equal(t, clock.Now(), rec.StartedAt)
		assert.Equal(t, clock.Now().AddDate(0, 0, 7), rec.ExpiresAt)
		assert.Equal(t, 7, rec.DurationDays)
		assert.False(t, svc.Eligible(t.Context(), catalog.TierPremium))
		assert.True(t, svc.IsActive(t.Context()))
		assert.Equal(t, 7, svc.DaysRemaining(t.Context()))

		events := sink.ByName(trial.EventTrialStarted)
		require.Len(t, events, 1)
		assert.Equal(t, "premium", events[0].Params["tier"])
		assert.Equal(t, "standard", events[0].Params["trial_type"])
		assert.Equal(t, 7, events[0].Params["duration_days"])
		_, hasPromo := events[0].Params["promo_code"]
		assert.False(t, hasPromo)
	})

	t.Run("includes promo code in event", func(t *testing.T) {
		t.Parallel()

		svc, sink, _ := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), trial.Offer{
			Tier:         catalog.TierPremium,
			Type:         trial.OfferPromotional,
			DurationDays: 14,
			PromoCode:    "TRYEXTENDED",
		})
		require.NoError(t, err)

		events := sink.ByName(trial.EventTrialStarted)
		require.Len(t, events, 1)
		assert.Equal(t, "TRYEXTENDED", events[0].Params["promo_code"])
	})

	t.Run("rejects when a trial is already active", func(t *testing.T) {
		t.Parallel()

		svc, sink, _ := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		_, err = svc.Start(t.Context(), trial.Offer{Tier: catalog.TierPro, Type: trial.OfferStandard, DurationDays: 14})
		assert.ErrorIs(t, err, trial.ErrTrialAlreadyActive)

		// No mutation, no event: pro eligibility is untouched and only the
		// first start was tracked.
		assert.True(t, svc.Eligible(t.Context(), catalog.TierPro))
		assert.Len(t, sink.ByName(trial.EventTrialStarted), 1)
	})

	t.Run("rejects consumed eligibility", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)
		require.NoError(t, svc.Cancel(t.Context(), "changed my mind"))

		_, err = svc.Start(t.Context(), standardPremiumOffer())
		assert.ErrorIs(t, err, trial.ErrNotEligible)
	})

	t.Run("rejects expired offer", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		deadline := clock.Now().Add(-time.Hour)
		_, err := svc.Start(t.Context(), trial.Offer{
			Tier:         catalog.TierPremium,
			Type:         trial.OfferPromotional,
			DurationDays: 14,
			ValidUntil:   &deadline,
		})
		assert.ErrorIs(t, err, trial.ErrOfferExpired)
		assert.True(t, svc.Eligible(t.Context(), catalog.TierPremium))
		assert.Empty(t, sink.Events())
	})

	t.Run("rejects invalid offer", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), trial.Offer{Tier: catalog.TierPremium, Type: trial.OfferStandard})
		assert.ErrorIs(t, err, trial.ErrInvalidOffer)

		_, err = svc.Start(t.Context(), trial.Offer{Tier: "bogus", Type: trial.OfferStandard, DurationDays: 7})
		assert.ErrorIs(t, err, trial.ErrInvalidOffer)
	})

	t.Run("consumed eligibility survives restart", func(t *testing.T) {
		t.Parallel()

		store := kv.NewMemoryStore()
		svc, _, _ := newService(t, store)

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		reloaded, _, _ := newService(t, store)
		assert.False(t, reloaded.Eligible(t.Context(), catalog.TierPremium))
		assert.True(t, reloaded.Eligible(t.Context(), catalog.TierPro))

		current := reloaded.Current(t.Context())
		require.NotNil(t, current)
		assert.Equal(t, catalog.TierPremium, current.Tier)
		assert.Equal(t, trial.StateActive, current.State)
	})
}

func TestExtend(t *testing.T) {
	t.Parallel()

	t.Run("pushes expiry out and marks extended", func(t *testing.T) {
		t.Parallel()

		svc, sink, _ := newService(t, kv.NewMemoryStore())

		rec, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		require.NoError(t, svc.Extend(t.Context(), 3, "support goodwill"))

		current := svc.Current(t.Context())
		require.NotNil(t, current)
		assert.Equal(t, trial.StateExtended, current.State)
		assert.Equal(t, rec.ExpiresAt.AddDate(0, 0, 3), current.ExpiresAt)
		assert.Equal(t, 3, current.ExtensionDays)
		assert.Equal(t, 10, current.TotalDurationDays())
		assert.Equal(t, 10, svc.DaysRemaining(t.Context()))

		require.NoError(t, svc.Extend(t.Context(), 2, "promo"))
		assert.Equal(t, 5, svc.Current(t.Context()).ExtensionDays)

		events := sink.ByName(trial.EventTrialExtended)
		require.Len(t, events, 2)
		assert.Equal(t, "premium", events[0].Params["tier"])
		assert.Equal(t, 3, events[0].Params["additional_days"])
		assert.Equal(t, "support goodwill", events[0].Params["reason"])
	})

	t.Run("rejects without an active trial", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())
		assert.ErrorIs(t, svc.Extend(t.Context(), 3, "x"), trial.ErrNoActiveTrial)
	})

	t.Run("rejects non-positive days", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())
		assert.ErrorIs(t, svc.Extend(t.Context(), 0, "x"), trial.ErrInvalidExtension)
		assert.ErrorIs(t, svc.Extend(t.Context(), -1, "x"), trial.ErrInvalidExtension)
	})

	t.Run("rejects once the trial has lapsed", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		clock.AdvanceDays(8)

		assert.ErrorIs(t, svc.Extend(t.Context(), 3, "too late"), trial.ErrNoActiveTrial)
		// The lapse was observed along the way.
		assert.Len(t, sink.ByName(trial.EventTrialExpired), 1)
	})
}

func TestExpireCheck(t *testing.T) {
	t.Parallel()

	t.Run("expires exactly once on first read past expiry", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		clock.AdvanceDays(8)

		assert.Nil(t, svc.Current(t.Context()))
		assert.False(t, svc.IsActive(t.Context()))
		assert.Equal(t, 0, svc.DaysRemaining(t.Context()))

		history := svc.History(t.Context())
		require.Len(t, history, 1)
		assert.Equal(t, trial.StateExpired, history[0].State)

		// Idempotent: repeated reads add no events and no history entries.
		_ = svc.Current(t.Context())
		_ = svc.History(t.Context())
		events := sink.ByName(trial.EventTrialExpired)
		require.Len(t, events, 1)
		assert.Equal(t, "premium", events[0].Params["tier"])
		assert.Equal(t, "standard", events[0].Params["trial_type"])
		assert.Equal(t, 7, events[0].Params["duration_days"])
		assert.Len(t, svc.History(t.Context()), 1)
	})

	t.Run("not due is a no-op", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		clock.AdvanceDays(6)
		require.NotNil(t, svc.Current(t.Context()))
		assert.Empty(t, sink.ByName(trial.EventTrialExpired))
	})

	t.Run("extension defers expiry and counts toward duration", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)
		require.NoError(t, svc.Extend(t.Context(), 3, "goodwill"))

		clock.AdvanceDays(8)
		assert.True(t, svc.IsActive(t.Context()))

		clock.AdvanceDays(3)
		assert.Nil(t, svc.Current(t.Context()))

		events := sink.ByName(trial.EventTrialExpired)
		require.Len(t, events, 1)
		assert.Equal(t, 10, events[0].Params["duration_days"])
	})

	t.Run("expired slot survives restart as history", func(t *testing.T) {
		t.Parallel()

		store := kv.NewMemoryStore()
		svc, _, clock := newService(t, store)

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)
		clock.AdvanceDays(8)
		require.Nil(t, svc.Current(t.Context()))

		reloaded, _, _ := newService(t, store)
		assert.Nil(t, reloaded.Current(t.Context()))
		require.Len(t, reloaded.History(t.Context()), 1)
		assert.Equal(t, trial.StateExpired, reloaded.History(t.Context())[0].State)
	})
}

func TestConvert(t *testing.T) {
	t.Parallel()

	t.Run("moves the trial to history as converted", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		clock.AdvanceDays(3)
		require.NoError(t, svc.Convert(t.Context(), catalog.TierPro))

		assert.Nil(t, svc.Current(t.Context()))
		history := svc.History(t.Context())
		require.Len(t, history, 1)
		assert.Equal(t, trial.StateConverted, history[0].State)

		events := sink.ByName(trial.EventTrialConverted)
		require.Len(t, events, 1)
		assert.Equal(t, "premium", events[0].Params["trial_tier"])
		assert.Equal(t, "pro", events[0].Params["subscribed_tier"])
		assert.Equal(t, 7, events[0].Params["trial_duration_days"])
		assert.Equal(t, 3, events[0].Params["conversion_day"])
	})

	t.Run("rejects without an active trial", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())
		assert.ErrorIs(t, svc.Convert(t.Context(), catalog.TierPro), trial.ErrNoActiveTrial)
	})

	t.Run("rejects once the trial has lapsed", func(t *testing.T) {
		t.Parallel()

		svc, _, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)
		clock.AdvanceDays(8)

		assert.ErrorIs(t, svc.Convert(t.Context(), catalog.TierPro), trial.ErrNoActiveTrial)
	})
}

func TestCancel(t *testing.T) {
	t.Parallel()

	t.Run("moves the trial to history as cancelled", func(t *testing.T) {
		t.Parallel()

		svc, sink, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		clock.AdvanceDays(2)
		require.NoError(t, svc.Cancel(t.Context(), "not for me"))

		assert.Nil(t, svc.Current(t.Context()))
		history := svc.History(t.Context())
		require.Len(t, history, 1)
		assert.Equal(t, trial.StateCancelled, history[0].State)

		events := sink.ByName(trial.EventTrialCancelled)
		require.Len(t, events, 1)
		assert.Equal(t, "premium", events[0].Params["tier"])
		assert.Equal(t, "not for me", events[0].Params["reason"])
		assert.Equal(t, 2, events[0].Params["days_used"])
	})

	t.Run("rejects without an active trial", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())
		assert.ErrorIs(t, svc.Cancel(t.Context(), "x"), trial.ErrNoActiveTrial)
	})
}

func TestOnChange(t *testing.T) {
	t.Parallel()

	t.Run("delivers every mutation in order", func(t *testing.T) {
		t.Parallel()

		svc, _, clock := newService(t, kv.NewMemoryStore())

		var ops []trial.Op
		stop := svc.OnChange(func(c trial.Change) { ops = append(ops, c.Op) })
		defer stop()

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)
		require.NoError(t, svc.Extend(t.Context(), 1, "x"))
		svc.RecordAttempt(t.Context(), "paywall")
		clock.AdvanceDays(9)
		_ = svc.Current(t.Context())

		// Every successful mutation notified before its call returned.
		assert.Equal(t, []trial.Op{trial.OpStarted, trial.OpExtended, trial.OpAttemptRecorded, trial.OpExpired}, ops)
	})

	t.Run("observer may read state back from the handler", func(t *testing.T) {
		t.Parallel()

		svc, _, clock := newService(t, kv.NewMemoryStore())

		// The whole point of subscribing is re-reading the service after a
		// mutation, so the handler must see the new state without blocking.
		var seenAttempts []int64
		var sawStarted bool
		stop := svc.OnChange(func(c trial.Change) {
			seenAttempts = append(seenAttempts, svc.Attempts())
			if c.Op == trial.OpStarted {
				rec := svc.Current(t.Context())
				sawStarted = rec != nil && rec.State == trial.StateActive
			}
		})
		defer stop()

		svc.RecordAttempt(t.Context(), "paywall")
		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		assert.Equal(t, []int64{1, 1}, seenAttempts)
		assert.True(t, sawStarted)

		// Lazy expiry observed through a read accessor must not block the
		// handler's own reads either.
		var historyLen int
		stopExpiry := svc.OnChange(func(c trial.Change) {
			if c.Op == trial.OpExpired {
				historyLen = len(svc.History(t.Context()))
			}
		})
		defer stopExpiry()

		clock.AdvanceDays(9)
		require.Nil(t, svc.Current(t.Context()))
		assert.Equal(t, 1, historyLen)
	})
}

func TestCorruptedStateDiscarded(t *testing.T) {
	t.Parallel()

	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(t.Context(), "trial:current", "{not json"))
	require.NoError(t, store.Set(t.Context(), "trial:history", "also not json"))

	svc, _, _ := newService(t, store)

	assert.Nil(t, svc.Current(t.Context()))
	assert.Empty(t, svc.History(t.Context()))

	// The engine still works after discarding the corrupt records.
	_, err := svc.Start(t.Context(), standardPremiumOffer())
	assert.NoError(t, err)
}
