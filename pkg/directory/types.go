package directory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a platform account. Accounts are created either by an admin
// or on first federated login when policy permits.
type User struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// PasswordHash is set only for accounts with local credentials
	// (admin bootstrap); federated-only accounts leave it empty.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
}

// SetPassword hashes and stores a local credential.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a local credential. Accounts without one
// always fail.
func (u *User) CheckPassword(plain string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// IdentityLink ties an external provider identity to a local user.
// The (provider, provider user ID) pair is unique across the platform.
type IdentityLink struct {
	UserID         uuid.UUID `bson:"user_id" json:"user_id"`
	Provider       string    `bson:"provider" json:"provider"`
	ProviderUserID string    `bson:"provider_user_id" json:"provider_user_id"`
	LinkedAt       time.Time `bson:"linked_at" json:"linked_at"`
}

// NormalizeEmail canonicalizes an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
