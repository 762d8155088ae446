package catalog

// PromoTrialConfig describes a code-gated trial offer (promotional or
// win-back). Durations and thresholds are catalog data, not engine logic.
type PromoTrialConfig struct {
	Tier         Tier   `yaml:"tier" json:"tier"`
	DurationDays int    `yaml:"duration_days" json:"duration_days"`
	PromoCode    string `yaml:"promo_code" json:"promo_code"`
	ValidityDays int    `yaml:"validity_days" json:"validity_days"` // window from the moment the offer is surfaced
	MinAttempts  int    `yaml:"min_attempts" json:"min_attempts"`   // conversion attempts required before surfacing
}

// TrialCatalog configures which trial offers exist and how long they run.
type TrialCatalog struct {
	// StandardDays maps each tier that carries a standard trial to its
	// duration. Tiers absent from the map have no standard trial.
	StandardDays map[Tier]int     `yaml:"standard_days" json:"standard_days"`
	Promotional  PromoTrialConfig `yaml:"promotional" json:"promotional"`
	Winback      PromoTrialConfig `yaml:"winback" json:"winback"`
}

// DefaultTrialCatalog returns the trial configuration shipped with the
// application: 7-day premium and 14-day pro standard trials, an extended
// promotional offer after two failed paywall exposures, and a win-back offer
// once a trial has been allowed to expire.
func DefaultTrialCatalog() TrialCatalog {
	return TrialCatalog{
		StandardDays: map[Tier]int{
			TierPremium: 7,
			TierPro:     14,
		},
		Promotional: PromoTrialConfig{
			Tier:         TierPremium,
			DurationDays: 14,
			PromoCode:    "TRYEXTENDED",
			ValidityDays: 7,
			MinAttempts:  2,
		},
		Winback: PromoTrialConfig{
			Tier:         TierPremium,
			DurationDays: 10,
			PromoCode:    "COMEBACK",
			ValidityDays: 30,
			MinAttempts:  1,
		},
	}
}
