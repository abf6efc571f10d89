// Package session manages the lifecycle of bearer sessions.
//
// A session is valid while it is used: each successful validation
// slides the idle deadline forward, but never past the absolute expiry
// fixed at creation. Validation classifies a token into one of five
// states (absent, active, idle-expired, absolute-expired, revoked);
// the idle and absolute expirations are terminal and force
// re-authentication.
//
// The last-activity refresh is a single atomic write performed by the
// store, never a read-modify-write in the manager, so concurrent
// validations of the same session cannot race. Production deployments
// back the store with Redis; the in-memory store serves tests and
// single-node development.
package session
