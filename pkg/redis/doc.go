// Package redis provides the connection layer for the platform's
// ephemeral store.
//
// Sessions, login-attempt state, and rate-limit counters all live in
// Redis, because its single-command atomicity (INCR, GETDEL, HSET,
// expiry) is what the core's concurrency invariants are pushed down to.
// This package only dials and health-checks the client; the store
// implementations live next to the components that own them.
package redis
