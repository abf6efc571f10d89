package fedauth

import "context"

// Provider identifiers with built-in adapters.
const (
	ProviderGoogle = "google"
)

// Identity is the verified external identity a provider adapter
// returns after a successful code exchange.
type Identity struct {
	// ProviderUserID is the provider's stable subject identifier.
	ProviderUserID string

	Email string

	// EmailVerified reports whether the provider asserts the email is
	// verified. Signup policy may require it.
	EmailVerified bool

	Name string
}

// Provider abstracts one external identity provider behind the two
// primitives the flow needs. Implementations own all protocol detail.
type Provider interface {
	// ID returns the stable provider identifier used in storage and logs.
	ID() string

	// AuthCodeURL builds the provider authorization URL carrying the
	// state value and the S256 challenge derived from the verifier.
	AuthCodeURL(state, verifier string) string

	// Exchange redeems the authorization code together with the PKCE
	// verifier and returns the verified identity. Rejected codes fail
	// with ErrExchangeFailed.
	Exchange(ctx context.Context, code, verifier string) (Identity, error)
}
