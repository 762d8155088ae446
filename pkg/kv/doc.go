// Package kv provides the persistence gateway used by the entitlement and
// trial services: a small string-keyed store with typed helpers for the
// flags, counters and JSON records the engine keeps durable.
//
// Three implementations ship with the package:
//
//   - MemoryStore: in-memory, for tests and ephemeral hosts
//   - SQLiteStore: embedded single-file database (pure-Go driver)
//   - RedisStore: shared Redis database with a namespaced keyspace
//
// All stores return ErrKeyNotFound for missing keys so callers can tell an
// absent value apart from an I/O failure; the engine treats the former as a
// cache miss and the latter as a degradation to in-memory-only state.
package kv
