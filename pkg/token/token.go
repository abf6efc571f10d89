package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// DefaultLength is the number of random bytes in a generated token,
// giving 256 bits of entropy before encoding.
const DefaultLength = 32

// maskVisible is how many leading characters Mask keeps.
const maskVisible = 8

// New generates a cryptographically random opaque token.
func New() (string, error) {
	return NewWithLength(DefaultLength)
}

// NewWithLength generates a token from n random bytes.
func NewWithLength(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrGenerationFailed, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Mask returns a log-safe representation of a bearer token: the first
// few characters followed by an ellipsis. Short values are fully
// redacted since a prefix would reveal most of the secret.
func Mask(tok string) string {
	if len(tok) <= maskVisible {
		return "[redacted]"
	}
	return tok[:maskVisible] + "..."
}
