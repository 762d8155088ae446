// Package trial manages the lifecycle of time-boxed trial offers: starting,
// extending, converting, cancelling and (lazily) expiring at most one trial
// at a time, plus the bookkeeping around it — per-tier eligibility, an
// append-only trial history, the conversion-attempt counter, offer selection
// and UI recommendations.
//
// State machine:
//
//	none → active → {expired, converted, cancelled}
//	       active → extended → {expired, converted, cancelled}
//
// Extension is a sub-state of active, not a new terminal path. Terminal
// records move into the history and are never mutated again.
//
// Expiration is observed lazily: there is no background timer, the window is
// checked against the clock on every trial-reading operation, and the
// expired transition fires exactly once. This trades timely expiry
// observation for not needing a scheduler — acceptable because trials are
// UI-surfaced, not server-enforced.
//
// Rejected preconditions (starting while a trial is active, extending a
// finished trial, ...) return sentinel errors with no mutation and no
// analytics event; the UI probes speculatively and treats them as "offer not
// currently available".
//
//	svc, err := trial.NewService(ctx, store, sink)
//	if err != nil { ... }
//
//	offers := svc.AvailableOffers(ctx)
//	rec, err := svc.Start(ctx, offers[0])
package trial
