package token

import "errors"

var (
	// ErrGenerationFailed indicates the system random source failed.
	ErrGenerationFailed = errors.New("token.generation_failed")
)
