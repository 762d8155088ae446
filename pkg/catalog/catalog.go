package catalog

// FeatureConfig describes how a single feature is gated.
// PremiumOnly features are hard-gated regardless of usage; features with a
// FreeLimit expose a consumable monthly quota to the free tier.
type FeatureConfig struct {
	PremiumOnly bool  `yaml:"premium_only" json:"premium_only"`
	FreeLimit   int64 `yaml:"free_limit" json:"free_limit"` // Unlimited (-1) when uncapped
}

// Catalog is the static tier/feature lookup table consumed by the limit and
// entitlement services. It is treated as immutable after construction; no
// method mutates it and no method can fail.
type Catalog struct {
	features map[Feature]FeatureConfig
	trials   TrialCatalog
}

// New builds a catalog from explicit feature configs and a trial catalog.
// Features missing from cfg default to premium-only with no free quota.
func New(features map[Feature]FeatureConfig, trials TrialCatalog) *Catalog {
	cfg := make(map[Feature]FeatureConfig, len(features))
	for f, c := range features {
		cfg[f] = c
	}
	return &Catalog{features: cfg, trials: trials}
}

// Default returns the catalog shipped with the application.
func Default() *Catalog {
	return New(map[Feature]FeatureConfig{
		FeatureVoiceTranscription: {FreeLimit: 10},
		FeatureExtendedRecording:  {FreeLimit: 5},
		FeatureBackgroundRecord:   {PremiumOnly: true},
		FeatureAdvancedDrawing:    {PremiumOnly: true},
		FeatureDrawingLayers:      {PremiumOnly: true},
		FeatureExportFormats:      {FreeLimit: 3},
		FeatureCloudSync:          {PremiumOnly: true},
		FeatureUnlimitedNotes:     {PremiumOnly: true},
		FeatureAdvancedSearch:     {PremiumOnly: true},
		FeatureCustomThemes:       {FreeLimit: 2},
	}, DefaultTrialCatalog())
}

// Config returns the gating configuration for a feature.
// Unknown features resolve to premium-only so a stale caller fails closed.
func (c *Catalog) Config(f Feature) FeatureConfig {
	if cfg, ok := c.features[f]; ok {
		return cfg
	}
	return FeatureConfig{PremiumOnly: true}
}

// IsPremiumOnly reports whether the feature is hard-gated behind a paid tier.
func (c *Catalog) IsPremiumOnly(f Feature) bool {
	return c.Config(f).PremiumOnly
}

// LimitFor returns the usage limit for a tier/feature pair.
// The mapping is total: every pair resolves to a concrete limit, with
// Unlimited for any paying tier (premium access removes all caps).
func (c *Catalog) LimitFor(tier Tier, f Feature) int64 {
	if tier.IsPaid() {
		return Unlimited
	}
	cfg := c.Config(f)
	if cfg.PremiumOnly {
		return 0
	}
	if cfg.FreeLimit == Unlimited || cfg.FreeLimit > 0 {
		return cfg.FreeLimit
	}
	return Unlimited
}

// Trials returns the trial-offer configuration.
func (c *Catalog) Trials() TrialCatalog {
	return c.trials
}
