// Package entitlementkit bundles the feature-gating building blocks for a
// freemium note-taking backend: a tier/feature catalog, a cached entitlement
// engine fed by a billing signal, a trial lifecycle service with offer
// selection, and per-feature usage limits.
//
// Each concern lives in its own package under pkg/ and can be used on its
// own; Kit wires the common arrangement together from a single key-value
// store and analytics sink.
package entitlementkit
