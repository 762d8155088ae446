// Package catalog defines the static tier and feature configuration consumed
// by the entitlement, limits and trial packages: which features exist, how
// each is gated (premium-only or free-quota), and which trial offers are
// available per tier.
//
// The catalog is pure data. Lookups are total — every tier/feature pair
// resolves to a concrete limit, with Unlimited (-1) for paying tiers — and
// nothing here has side effects or error conditions once the catalog is
// constructed.
//
// Basic usage:
//
//	cat := catalog.Default()
//	limit := cat.LimitFor(catalog.TierFree, catalog.FeatureVoiceTranscription) // 10
//	cat.LimitFor(catalog.TierPro, catalog.FeatureVoiceTranscription)           // catalog.Unlimited
//
// Hosts that ship their configuration as a file can use FileSource:
//
//	src := catalog.FileSource{Path: "catalog.yml"}
//	cat, err := src.Load(ctx)
package catalog
