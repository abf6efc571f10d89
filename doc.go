// Package platform is the authentication and authorization core for a
// multi-tenant learning platform: who the caller is, what role they
// hold where in the group hierarchy, and whether that role permits the
// requested action.
//
// The packages compose into one decision pipeline:
//
//   - pkg/hierarchy — the group tree (district → school → class) with
//     materialized paths and atomic re-parenting
//   - pkg/roles — effective-role resolution: memberships inherit
//     downward through the tree, never upward
//   - pkg/capability — the action policy table; roles map to
//     capabilities as data, not code
//   - pkg/session — opaque-token sessions with a sliding idle timeout
//     under a fixed absolute expiry
//   - pkg/fedauth — federated login with PKCE and single-use state
//   - pkg/ratelimit — fixed-window limits with stricter buckets for
//     auth-sensitive routes
//   - pkg/access — the gate that runs rate limit, session, role, and
//     capability checks in order, plus HTTP middleware
//   - pkg/directory — users, identities, groups, and memberships,
//     backed by MongoDB or an in-memory store
//
// Basic Usage:
//
//	limiter, _ := ratelimit.NewLimiter(ratelimit.NewRedisStore(rdb), cfg.Rate)
//	sessions, _ := session.NewManager(session.NewRedisStore(rdb), cfg.Session)
//	resolver := roles.NewResolver(tree, store)
//	caps := capability.NewCompiler(capability.DefaultPolicy())
//
//	gate := access.NewGate(limiter, sessions, resolver, caps)
//
//	r := chi.NewRouter()
//	r.Mount("/auth", access.AuthRoutes(gate, flow, sessions))
//	r.With(access.Require(gate, ratelimit.RouteClassGeneral,
//		capability.ActionCreateAssignment, access.GroupFromHeader("X-Group-ID"))).
//		Post("/assignments", createAssignment)
//
// Every denial has exactly one cause: an exhausted rate bucket is 429,
// a missing or expired session is 401, an insufficient role is 403,
// and a backing-store failure is an error, never a silent denial.
package platform
