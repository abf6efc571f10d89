package capability

import (
	"maps"

	"github.com/lernhub/platform/pkg/roles"
)

// Compiler evaluates the policy table. It holds a private copy of the
// table, so decisions cannot change after construction.
type Compiler struct {
	policy Policy
}

// NewCompiler creates a compiler over the given policy. A nil policy
// denies everything.
func NewCompiler(policy Policy) *Compiler {
	copied := make(Policy, len(policy))
	maps.Copy(copied, policy)
	return &Compiler{policy: copied}
}

// Allows reports whether the effective role permits the action.
// Unknown actions and invalid roles fail closed.
func (c *Compiler) Allows(role roles.Role, action Action) bool {
	if !role.Valid() || role == roles.RoleNone {
		return false
	}

	req, ok := c.policy[action]
	if !ok {
		return false
	}

	return role >= req.Min
}

// ScopeOf returns the scope an action is checked in. Unknown actions
// report ok=false and callers must deny.
func (c *Compiler) ScopeOf(action Action) (Scope, bool) {
	req, ok := c.policy[action]
	if !ok {
		return ScopeGroup, false
	}
	return req.Scope, true
}
