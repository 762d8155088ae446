// Package limits decides remaining allowance and limit-reached status for
// usage-capped features. The service is stateless: the host owns the usage
// counters (how many transcriptions happened this month) and passes the
// current count in with each question.
//
// Premium access, as reported by the entitlement engine, removes all caps:
//
//	svc := limits.NewService(cat, engine)
//	if svc.HasReachedLimit(ctx, catalog.FeatureVoiceTranscription, used, tier) {
//		// show paywall
//	}
package limits
