package fedauth

import "errors"

var (
	// ErrStateMismatch indicates the callback's state value is
	// unknown, expired, or already consumed. Covers replay and CSRF;
	// terminal, the login flow restarts from scratch.
	ErrStateMismatch = errors.New("fedauth.state_mismatch")

	// ErrExchangeFailed indicates the provider rejected the
	// authorization code or returned an unusable identity.
	ErrExchangeFailed = errors.New("fedauth.exchange_failed")

	// ErrUnknownProvider indicates a provider identifier with no
	// registered adapter.
	ErrUnknownProvider = errors.New("fedauth.unknown_provider")

	// ErrSignupDisabled indicates the verified identity has no local
	// account and policy forbids creating one.
	ErrSignupDisabled = errors.New("fedauth.signup_disabled")

	// ErrUnverifiedEmail indicates the provider did not assert the
	// email as verified and policy requires it.
	ErrUnverifiedEmail = errors.New("fedauth.unverified_email")

	// ErrInvalidConfig indicates a missing or non-positive attempt TTL.
	ErrInvalidConfig = errors.New("fedauth.invalid_config")

	// ErrStoreUnavailable indicates the ephemeral store failed.
	ErrStoreUnavailable = errors.New("fedauth.store_unavailable")
)
