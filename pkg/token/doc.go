// Package token generates and masks the opaque bearer tokens the
// platform issues for sessions and federated-login flows.
//
// Tokens are raw random bytes encoded with URL-safe base64, carrying no
// structure a client could parse or forge. Mask produces a log-safe
// prefix so a token value never appears in full in log output.
package token
