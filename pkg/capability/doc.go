// Package capability decides whether an effective role permits an
// action.
//
// The whole policy is one explicit table mapping each action to the
// minimum role it requires and the scope it applies in, so the policy
// is auditable in one place and testable by enumerating the table. The
// compiler is pure: same role, action, and table always produce the
// same decision, and unknown actions deny without error so callers
// cannot probe for the existence of capabilities.
package capability
