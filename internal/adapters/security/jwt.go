package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/meridianbank/auth-service/internal/domain"
	"github.com/meridianbank/auth-service/internal/ports"
)

const minSecretLength = 32

// JWTIssuer signs and verifies HS512 access tokens with a shared secret.
// Stateless on purpose: verification needs no store round-trip.
type JWTIssuer struct {
	secret []byte
}

// NewJWTIssuer builds an issuer from the configured shared secret.
func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	}
	return &JWTIssuer{secret: []byte(secret)}, nil
}

type accessTokenClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

func (i *JWTIssuer) Issue(claims ports.AccessClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, accessTokenClaims{
		Email: claims.Email,
		Roles: claims.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.IdentityID.String(),
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	return token.SignedString(i.secret)
}

func (i *JWTIssuer) Verify(raw string) (ports.AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &accessTokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.AccessClaims{}, domain.WrapError(domain.KindInvalidToken, "token expired", err)
		}
		return ports.AccessClaims{}, domain.WrapError(domain.KindInvalidToken, "token signature or structure invalid", err)
	}
	claims, ok := parsed.Claims.(*accessTokenClaims)
	if !ok || !parsed.Valid {
		return ports.AccessClaims{}, domain.ErrInvalidToken("invalid token claims")
	}
	return toAccessClaims(claims)
}

// RemainingTTL decodes without signature verification; callers only use it on
// tokens that already passed Verify.
func (i *JWTIssuer) RemainingTTL(raw string, now time.Time) (time.Duration, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(raw, &accessTokenClaims{})
	if err != nil {
		return 0, domain.WrapError(domain.KindInvalidToken, "token is not decodable", err)
	}
	claims, ok := parsed.Claims.(*accessTokenClaims)
	if !ok || claims.ExpiresAt == nil {
		return 0, domain.ErrInvalidToken("token has no expiry claim")
	}
	return claims.ExpiresAt.Time.Sub(now), nil
}

func toAccessClaims(claims *accessTokenClaims) (ports.AccessClaims, error) {
	if claims.Subject == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return ports.AccessClaims{}, domain.ErrInvalidToken("token is missing required claims")
	}
	identityID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ports.AccessClaims{}, domain.WrapError(domain.KindInvalidToken, "token subject is not an identity key", err)
	}
	return ports.AccessClaims{
		IdentityID: identityID,
		Email:      claims.Email,
		Roles:      claims.Roles,
		IssuedAt:   claims.IssuedAt.Time.UTC(),
		ExpiresAt:  claims.ExpiresAt.Time.UTC(),
	}, nil
}
