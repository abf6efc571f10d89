package roles

import "errors"

var (
	// ErrUnknownRole is returned when parsing a role name that is not
	// part of the closed set.
	ErrUnknownRole = errors.New("roles.unknown_role")
)
