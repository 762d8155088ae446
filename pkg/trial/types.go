package trial

// State represents the lifecycle state of a trial record.
type State string

const (
	// StateActive is the state of a freshly started trial.
	StateActive State = "active"
	// StateExtended marks an active trial whose expiry was pushed out.
	// Extended trials expire, convert and cancel exactly like active ones.
	StateExtended State = "extended"
	// StateExpired is terminal: the trial ran out without a purchase.
	StateExpired State = "expired"
	// StateConverted is terminal: the trial ended in a subscription.
	StateConverted State = "converted"
	// StateCancelled is terminal: the user ended the trial early.
	StateCancelled State = "cancelled"
)

// IsTerminal reports whether the state permits no further transitions.
// Terminal records live in the append-only history and are never mutated.
func (s State) IsTerminal() bool {
	switch s {
	case StateExpired, StateConverted, StateCancelled:
		return true
	}
	return false
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateActive, StateExtended, StateExpired, StateConverted, StateCancelled:
		return true
	}
	return false
}

// OfferType classifies how a trial offer came about.
type OfferType string

const (
	OfferStandard    OfferType = "standard"
	OfferPromotional OfferType = "promotional"
	OfferWinback     OfferType = "winback"
	OfferReferral    OfferType = "referral"
	OfferRetention   OfferType = "retention"
)

// Valid reports whether t is a known offer type.
func (t OfferType) Valid() bool {
	switch t {
	case OfferStandard, OfferPromotional, OfferWinback, OfferReferral, OfferRetention:
		return true
	}
	return false
}
