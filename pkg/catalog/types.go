package catalog

// Tier represents a named subscription level gating feature access.
type Tier string

const (
	TierFree       Tier = "free"
	TierPremium    Tier = "premium"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// Tiers lists every known tier. Iteration order is stable so that
// persistence code walking the closed set produces deterministic keys.
func Tiers() []Tier {
	return []Tier{TierFree, TierPremium, TierPro, TierEnterprise}
}

// IsPaid reports whether the tier is a paying tier.
// Free is the only non-paying baseline; no further ordering is assumed.
func (t Tier) IsPaid() bool {
	return t != TierFree && t.Valid()
}

// Valid reports whether the tier is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierFree, TierPremium, TierPro, TierEnterprise:
		return true
	}
	return false
}

// Feature represents an identifiable capability that may be premium-gated
// and/or usage-capped.
type Feature string

const (
	FeatureVoiceTranscription Feature = "voice_transcription"
	FeatureExtendedRecording  Feature = "extended_recording_length"
	FeatureBackgroundRecord   Feature = "background_recording"
	FeatureAdvancedDrawing    Feature = "advanced_drawing_tools"
	FeatureDrawingLayers      Feature = "drawing_layers"
	FeatureExportFormats      Feature = "export_formats"
	FeatureCloudSync          Feature = "cloud_sync"
	FeatureUnlimitedNotes     Feature = "unlimited_notes"
	FeatureAdvancedSearch     Feature = "advanced_search"
	FeatureCustomThemes       Feature = "custom_themes"
)

// Features lists every known feature. Adding a feature here is the single
// compile-visible change point; everything consuming the closed set
// (entitlement cache persistence included) iterates this slice.
func Features() []Feature {
	return []Feature{
		FeatureVoiceTranscription,
		FeatureExtendedRecording,
		FeatureBackgroundRecord,
		FeatureAdvancedDrawing,
		FeatureDrawingLayers,
		FeatureExportFormats,
		FeatureCloudSync,
		FeatureUnlimitedNotes,
		FeatureAdvancedSearch,
		FeatureCustomThemes,
	}
}

// Valid reports whether the feature is one of the known features.
func (f Feature) Valid() bool {
	for _, known := range Features() {
		if f == known {
			return true
		}
	}
	return false
}

// Unlimited indicates no limit for a feature (-1 chosen for SQL compatibility).
const Unlimited int64 = -1
