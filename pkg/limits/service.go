package limits

import (
	"context"

	"github.com/quicknotehq/entitlementkit/pkg/catalog"
)

// FeatureChecker answers whether the user currently has premium access to a
// feature. Satisfied by *entitlement.Engine.
type FeatureChecker interface {
	HasFeature(ctx context.Context, f catalog.Feature) bool
}

// UsageInfo pairs a current usage count with its limit for UI display.
type UsageInfo struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"` // catalog.Unlimited when uncapped
}

// Service enforces per-feature usage quotas against the catalog. It is
// stateless: callers own the usage counters and pass the current count in,
// the service only decides remaining allowance and limit-reached status.
type Service struct {
	catalog      *catalog.Catalog
	entitlements FeatureChecker
}

// NewService creates a limit-enforcement service. The checker may be nil,
// in which case premium access never lifts caps (useful for previewing the
// free-tier experience).
func NewService(cat *catalog.Catalog, entitlements FeatureChecker) *Service {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Service{catalog: cat, entitlements: entitlements}
}

// Remaining returns how much allowance is left for the feature at the given
// tier: catalog.Unlimited when the tier has no cap, otherwise
// max(0, limit - currentUsage).
func (s *Service) Remaining(f catalog.Feature, currentUsage int64, tier catalog.Tier) int64 {
	limit := s.catalog.LimitFor(tier, f)
	if limit == catalog.Unlimited {
		return catalog.Unlimited
	}
	return max(0, limit-currentUsage)
}

// HasReachedLimit reports whether the user has exhausted the feature's quota.
// Premium access (per the entitlement engine) removes all caps, so an
// entitled user never reaches a limit regardless of usage.
func (s *Service) HasReachedLimit(ctx context.Context, f catalog.Feature, currentUsage int64, tier catalog.Tier) bool {
	if s.entitlements != nil && s.entitlements.HasFeature(ctx, f) {
		return false
	}

	limit := s.catalog.LimitFor(tier, f)
	if limit == catalog.Unlimited {
		return false
	}
	return currentUsage >= limit
}

// UsagePercentage returns usage as a percentage (0-100, or -1 for unlimited).
func (s *Service) UsagePercentage(f catalog.Feature, currentUsage int64, tier catalog.Tier) int {
	limit := s.catalog.LimitFor(tier, f)
	if limit == catalog.Unlimited {
		return -1
	}
	if limit == 0 {
		return 100
	}
	return min(int((currentUsage*100)/limit), 100)
}

// Info returns the usage/limit pair for UI dashboards.
func (s *Service) Info(f catalog.Feature, currentUsage int64, tier catalog.Tier) UsageInfo {
	return UsageInfo{
		Current: currentUsage,
		Limit:   s.catalog.LimitFor(tier, f),
	}
}
