package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated-user aggregate: credentials, role set and
// lockout state. Lockout fields are persisted with the record under optimistic
// versioning so concurrent login attempts never silently lose a counter update.
type Identity struct {
	ID            uuid.UUID
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Roles         []string
	IsActive      bool
	EmailVerified bool

	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// Locked reports whether the identity is inside an active lockout window.
func (i *Identity) Locked(now time.Time) bool {
	return i.lockoutState().LockedAt(now)
}

// RecordFailedLogin applies one failed attempt to the aggregate.
func (i *Identity) RecordFailedLogin(now time.Time, policy LockoutPolicy) {
	next := ApplyFailure(i.lockoutState(), now, policy)
	i.FailedLoginAttempts = next.FailedAttempts
	i.LockedUntil = next.LockedUntil
}

// RecordSuccessfulLogin clears lockout state and stamps the login time.
func (i *Identity) RecordSuccessfulLogin(now time.Time) {
	next := ApplySuccess()
	i.FailedLoginAttempts = next.FailedAttempts
	i.LockedUntil = next.LockedUntil
	t := now
	i.LastLoginAt = &t
}

func (i *Identity) lockoutState() LockoutState {
	return LockoutState{
		FailedAttempts: i.FailedLoginAttempts,
		LockedUntil:    i.LockedUntil,
	}
}

// IdentitySnapshot is the public view of an identity. It never carries the
// password hash or lockout bookkeeping.
type IdentitySnapshot struct {
	ID            uuid.UUID
	Email         string
	FirstName     string
	LastName      string
	Roles         []string
	EmailVerified bool
	LastLoginAt   *time.Time
}

// Snapshot builds the public view of the aggregate.
func (i *Identity) Snapshot() IdentitySnapshot {
	roles := make([]string, len(i.Roles))
	copy(roles, i.Roles)
	return IdentitySnapshot{
		ID:            i.ID,
		Email:         i.Email,
		FirstName:     i.FirstName,
		LastName:      i.LastName,
		Roles:         roles,
		EmailVerified: i.EmailVerified,
		LastLoginAt:   i.LastLoginAt,
	}
}

// LoginAttempt records an authentication outcome for audit purposes.
type LoginAttempt struct {
	ID            int64
	IdentityID    *uuid.UUID
	AttemptAt     time.Time
	IPAddress     string
	Status        string
	FailureReason string
}

const (
	LoginAttemptSuccess = "SUCCESS"
	LoginAttemptFailed  = "FAILED"
)
