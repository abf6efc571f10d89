package roles

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is one of the closed set of platform roles, ordered by rank.
// The zero value means no role.
type Role int

const (
	// RoleNone means the user holds no applicable membership.
	RoleNone Role = iota
	// RoleStudent may use tools assigned to their class.
	RoleStudent
	// RoleTeacher may create tools and assignments and view analytics
	// within their group subtree.
	RoleTeacher
	// RoleGroupAdmin may manage users and settings within their group
	// subtree.
	RoleGroupAdmin
	// RoleSystemAdmin may perform platform-wide actions.
	RoleSystemAdmin
)

var roleNames = map[Role]string{
	RoleNone:        "none",
	RoleStudent:     "student",
	RoleTeacher:     "teacher",
	RoleGroupAdmin:  "group_admin",
	RoleSystemAdmin: "system_admin",
}

// String returns the canonical role name.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Outranks reports whether r is strictly higher than other.
func (r Role) Outranks(other Role) bool {
	return r > other
}

// Valid reports whether r is a member of the closed set (RoleNone
// included).
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Parse maps a stored role name back to its Role. Unrecognized names
// are a startup or data-integrity error, never a silent fall-through.
func Parse(name string) (Role, error) {
	for role, n := range roleNames {
		if n == name {
			return role, nil
		}
	}
	return RoleNone, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// Membership grants a user a role within one group. A user holds at
// most one role per group.
type Membership struct {
	UserID  uuid.UUID
	GroupID uuid.UUID
	Role    Role
}
