package trial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quicknotehq/entitlementkit/pkg/analytics"
	"github.com/quicknotehq/entitlementkit/pkg/kv"
	"github.com/quicknotehq/entitlementkit/pkg/trial"
)

func TestRecordAttempt(t *testing.T) {
	t.Parallel()

	t.Run("increments by one per call", func(t *testing.T) {
		t.Parallel()

		svc, sink, _ := newService(t, kv.NewMemoryStore())

		assert.EqualValues(t, 1, svc.RecordAttempt(t.Context(), "paywall"))
		assert.EqualValues(t, 2, svc.RecordAttempt(t.Context(), "settings_upsell"))
		assert.EqualValues(t, 2, svc.Attempts())

		events := sink.ByName(trial.EventConversionAttempted)
		require.Len(t, events, 2)
		assert.Equal(t, "paywall", events[0].Params["context"])
		assert.EqualValues(t, 1, events[0].Params["attempt_number"])
		assert.Equal(t, false, events[0].Params["has_active_trial"])
		assert.EqualValues(t, 2, events[1].Params["attempt_number"])
	})

	t.Run("reports an active trial in the event", func(t *testing.T) {
		t.Parallel()

		svc, sink, _ := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		svc.RecordAttempt(t.Context(), "paywall")

		events := sink.ByName(trial.EventConversionAttempted)
		require.Len(t, events, 1)
		assert.Equal(t, true, events[0].Params["has_active_trial"])
	})

	t.Run("counter survives a restart", func(t *testing.T) {
		t.Parallel()

		store := kv.NewMemoryStore()

		svc, _, _ := newService(t, store)
		svc.RecordAttempt(t.Context(), "paywall")
		svc.RecordAttempt(t.Context(), "paywall")

		reloaded, err := trial.NewService(t.Context(), store, analytics.Noop{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, reloaded.Attempts())
		assert.EqualValues(t, 3, reloaded.RecordAttempt(t.Context(), "paywall"))
	})
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("empty without signals", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())
		assert.Empty(t, svc.Recommendations(t.Context()))
	})

	t.Run("milestone then expiry warning", func(t *testing.T) {
		t.Parallel()

		svc, _, clock := newService(t, kv.NewMemoryStore())

		_, err := svc.Start(t.Context(), standardPremiumOffer())
		require.NoError(t, err)

		clock.AdvanceDays(4)
		recs := svc.Recommendations(t.Context())
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "through your")

		clock.AdvanceDays(2)
		recs = svc.Recommendations(t.Context())
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "ends in")
	})

	t.Run("discount hint mentions the promo code", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t, kv.NewMemoryStore())

		svc.RecordAttempt(t.Context(), "paywall")
		svc.RecordAttempt(t.Context(), "paywall")

		recs := svc.Recommendations(t.Context())
		require.Len(t, recs, 1)
		assert.Contains(t, recs[0], "TRYEXTENDED")
	})
}
