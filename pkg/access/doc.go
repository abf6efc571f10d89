// Package access is the decision pipeline in front of every protected
// operation: rate limit, then session, then effective role, then
// capability. Each stage short-circuits, so a rate-limited caller
// never costs a session lookup and an unauthenticated one never costs
// a role resolution.
//
// Outcomes are distinct and never conflated: a missing or expired
// session is unauthenticated, an insufficient role is forbidden, an
// exhausted bucket is rate-limited, and a store failure is an error —
// never silently converted into a denial or an approval.
package access
