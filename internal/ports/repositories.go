package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridianbank/auth-service/internal/domain"
)

// IdentityRepository is the credential-store contract. Save enforces
// optimistic versioning: a stale Version surfaces as a ConcurrentUpdate error
// and the caller retries the whole operation.
type IdentityRepository interface {
	// FindActiveByEmail returns only active identities; inactive and unknown
	// emails are both a NotFound so callers cannot tell them apart.
	FindActiveByEmail(ctx context.Context, email string) (domain.Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Identity, error)
	Create(ctx context.Context, identity domain.Identity) (domain.Identity, error)
	Save(ctx context.Context, identity domain.Identity) (domain.Identity, error)
}

// LoginAttemptRepository records authentication outcomes for audit.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
}
