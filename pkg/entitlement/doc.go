// Package entitlement implements the feature-access decision point of the
// engine. For every gated feature it answers "may this user use it right
// now" by combining three inputs, in priority order: an optional debug-build
// developer override, a persisted per-feature entitlement cache, and the
// live billing signal.
//
// The cache exists so the last computed decision survives a restart until
// the billing signal is re-validated; it is refreshed in full at startup and
// on every billing change notification. Persistence failures degrade to
// cache misses and are never surfaced to decision callers.
//
//	provider := billing.NewStaticProvider(false)
//	engine, err := entitlement.New(ctx, catalog.Default(), provider, kv.NewMemoryStore())
//	if err != nil { ... }
//	defer engine.Close()
//
//	engine.HasFeature(ctx, catalog.FeatureCloudSync) // false until premium
package entitlement
