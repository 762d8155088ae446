package analytics

import "context"

// Params carries the event parameters attached to a tracked event.
type Params map[string]any

// Sink receives analytics events describing engine transitions. Tracking is
// fire-and-forget: implementations must never fail a caller's state
// transition, so Track returns nothing and swallows transport errors.
type Sink interface {
	Track(ctx context.Context, event string, params Params)
}

// Noop discards all events.
type Noop struct{}

func (Noop) Track(context.Context, string, Params) {}

// Multi fans every event out to several sinks, e.g. a local log plus a
// remote stream.
type Multi []Sink

func (m Multi) Track(ctx context.Context, event string, params Params) {
	for _, s := range m {
		if s != nil {
			s.Track(ctx, event, params)
		}
	}
}
