package directory

import "errors"

var (
	// ErrUserNotFound indicates no user matches the lookup.
	ErrUserNotFound = errors.New("directory.user_not_found")

	// ErrEmailTaken indicates a user with this email already exists.
	ErrEmailTaken = errors.New("directory.email_taken")

	// ErrIdentityLinked indicates the external identity is already
	// linked to another user.
	ErrIdentityLinked = errors.New("directory.identity_linked")

	// ErrStoreUnavailable indicates the durable store failed.
	ErrStoreUnavailable = errors.New("directory.store_unavailable")

	// ErrFailedToConnect indicates the database did not become
	// reachable within the configured attempts.
	ErrFailedToConnect = errors.New("directory.failed_to_connect")
)
