package ports

import (
	"context"
	"time"
)

// SessionStore owns refresh tokens: an opaque token to identity-key mapping
// plus a reverse index keeping exactly one live refresh token per identity.
type SessionStore interface {
	// Rotate mints a fresh refresh token, overwrites both mappings with the
	// given TTL, and deletes the previous token's forward mapping so it can
	// no longer be used.
	Rotate(ctx context.Context, identityKey string, ttl time.Duration) (string, error)
	// Resolve returns the identity key for a refresh token, or "" when the
	// token is unknown or expired.
	Resolve(ctx context.Context, refreshToken string) (string, error)
	// RevokeByIdentity drops both mappings for the identity's current token.
	// Idempotent: a missing entry is not an error.
	RevokeByIdentity(ctx context.Context, identityKey string) error
}

// RevocationList marks access tokens as revoked until their natural expiry.
type RevocationList interface {
	// Revoke denylists the raw token for exactly the remaining token life.
	// A non-positive TTL writes nothing: the token is already unusable.
	Revoke(ctx context.Context, accessToken string, remaining time.Duration) error
	IsRevoked(ctx context.Context, accessToken string) (bool, error)
}
