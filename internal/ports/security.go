package ports

import (
	"time"

	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AccessClaims is the decoded content of an access token.
type AccessClaims struct {
	IdentityID uuid.UUID
	Email      string
	Roles      []string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// TokenIssuer creates and verifies signed, self-contained access tokens.
// Validity is determined by signature and expiry alone; revocation is layered
// on top by the RevocationList.
type TokenIssuer interface {
	Issue(claims AccessClaims) (string, error)
	Verify(token string) (AccessClaims, error)
	// RemainingTTL decodes the token without re-verifying the signature and
	// returns expiry minus now. Used only for revocation bookkeeping after
	// the token has already been verified once.
	RemainingTTL(token string, now time.Time) (time.Duration, error)
}
