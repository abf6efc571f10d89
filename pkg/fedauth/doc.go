// Package fedauth drives the federated-login handshake with external
// identity providers.
//
// A login runs initiate -> pending-callback -> exchanged -> linked, or
// ends in failed. Initiation generates a random state value and a PKCE
// verifier, persists them in the ephemeral store for the attempt's
// short lifetime, and returns the provider redirect embedding the S256
// challenge. The callback consumes the stored attempt with a single
// atomic get-and-delete, so a replayed or forged callback fails with
// ErrStateMismatch and two concurrent callbacks cannot both succeed.
// Only after the code exchange verifies the identity and it maps to a
// local account is a session created; no failure path leaves one
// behind.
package fedauth
