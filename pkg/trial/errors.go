package trial

import "errors"

// Precondition rejections. These are expected outcomes, not faults: the UI
// probes speculatively, so a rejected transition causes no mutation, no
// analytics event and no logging.
var (
	// ErrTrialAlreadyActive indicates the current-trial slot is occupied.
	ErrTrialAlreadyActive = errors.New("trial: a trial is already active")

	// ErrNotEligible indicates the tier's standard trial was already consumed.
	ErrNotEligible = errors.New("trial: not eligible for this tier's trial")

	// ErrOfferExpired indicates the offer's validity window has closed.
	ErrOfferExpired = errors.New("trial: offer validity window has expired")

	// ErrNoActiveTrial indicates no trial occupies the current slot.
	ErrNoActiveTrial = errors.New("trial: no active trial")

	// ErrInvalidOffer indicates the offer fails basic validation.
	ErrInvalidOffer = errors.New("trial: invalid offer")

	// ErrInvalidExtension indicates a non-positive extension length.
	ErrInvalidExtension = errors.New("trial: extension days must be positive")

	// ErrMissingDependency indicates NewService was called without a store.
	ErrMissingDependency = errors.New("trial: persistence store is required")
)
