package capability

import "github.com/lernhub/platform/pkg/roles"

// Action identifies a privileged operation.
type Action string

const (
	// Student-level actions.
	ActionUseTool Action = "tools.use"

	// Teacher-level actions.
	ActionCreateTool       Action = "tools.create"
	ActionCreateAssignment Action = "assignments.create"
	ActionViewAnalytics    Action = "analytics.view"

	// Group-admin actions.
	ActionManageMembers  Action = "members.manage"
	ActionManageSettings Action = "settings.manage"
	ActionManageGroups   Action = "groups.manage"

	// Platform-wide actions.
	ActionAdministerPlatform Action = "platform.administer"
)

// Scope determines which group context an action is checked against.
type Scope int

const (
	// ScopeGroup actions are permitted only within the resource's own
	// group subtree; the caller resolves the effective role against
	// the resource's group.
	ScopeGroup Scope = iota
	// ScopePlatform actions are unscoped and reserved for system
	// admins regardless of resource context.
	ScopePlatform
)

// Requirement is one row of the policy table.
type Requirement struct {
	Min   roles.Role
	Scope Scope
}

// Policy maps actions to their requirements. The policy is data, not
// dispatch: nothing outside this table grants an action.
type Policy map[Action]Requirement

// DefaultPolicy returns the platform's built-in action table.
func DefaultPolicy() Policy {
	return Policy{
		ActionUseTool: {Min: roles.RoleStudent, Scope: ScopeGroup},

		ActionCreateTool:       {Min: roles.RoleTeacher, Scope: ScopeGroup},
		ActionCreateAssignment: {Min: roles.RoleTeacher, Scope: ScopeGroup},
		ActionViewAnalytics:    {Min: roles.RoleTeacher, Scope: ScopeGroup},

		ActionManageMembers:  {Min: roles.RoleGroupAdmin, Scope: ScopeGroup},
		ActionManageSettings: {Min: roles.RoleGroupAdmin, Scope: ScopeGroup},
		ActionManageGroups:   {Min: roles.RoleGroupAdmin, Scope: ScopeGroup},

		ActionAdministerPlatform: {Min: roles.RoleSystemAdmin, Scope: ScopePlatform},
	}
}
