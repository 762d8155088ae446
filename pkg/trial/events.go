package trial

// Analytics event names emitted by the service. Names and parameter keys are
// part of the downstream analytics contract and must not change.
const (
	EventTrialStarted        = "trial_started"
	EventTrialExtended       = "trial_extended"
	EventTrialExpired        = "trial_expired"
	EventTrialConverted      = "trial_converted"
	EventTrialCancelled      = "trial_cancelled"
	EventConversionAttempted = "conversion_attempted"
)

// Op identifies the mutation reported to notify subscribers.
type Op string

const (
	OpStarted         Op = "started"
	OpExtended        Op = "extended"
	OpExpired         Op = "expired"
	OpConverted       Op = "converted"
	OpCancelled       Op = "cancelled"
	OpAttemptRecorded Op = "attempt_recorded"
)

// Change is the payload delivered to subscribers after every successful
// mutation, before the mutating call returns.
type Change struct {
	Op     Op
	Record *Record // nil for attempt records
}
