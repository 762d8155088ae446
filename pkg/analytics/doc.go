// Package analytics defines the fire-and-forget event sink the engine emits
// transition events into, plus a few ready-made sinks: Noop, an in-memory
// capture for tests, a structured-log mirror, and a Redis Streams producer
// for a downstream pipeline.
//
// Sinks never return errors to callers; a lost analytics event must not
// block or fail an engine state transition.
package analytics
