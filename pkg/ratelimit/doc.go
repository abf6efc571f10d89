// Package ratelimit bounds request rate per identity and route class
// with fixed wall-clock-aligned windows.
//
// Each (identity, route class) pair owns a counter keyed by the
// current window's start time; the counter is incremented atomically
// in the shared store, so concurrent requests across service instances
// cannot exceed the limit. The window key changes at rollover, which
// resets the count exactly on the boundary, and stale keys are evicted
// by the store's own expiry. Auth-sensitive route classes carry
// stricter limits than general traffic, enforced at startup.
package ratelimit
