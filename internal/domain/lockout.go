package domain

import "time"

// LockoutPolicy controls brute-force lockout behavior.
type LockoutPolicy struct {
	// Threshold is the failed-attempt count at which a lockout window opens.
	Threshold int
	// Window is how long a triggered lockout lasts.
	Window time.Duration
	// ExtendOnFailure re-arms the window on failures that arrive while a
	// lockout is already active. Off by default: an active window is left
	// untouched and only the counter keeps climbing.
	ExtendOnFailure bool
}

// DefaultLockoutPolicy locks for one hour after five consecutive failures.
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{Threshold: 5, Window: time.Hour}
}

// LockoutState is the pair of fields the lockout state machine operates on.
type LockoutState struct {
	FailedAttempts int
	LockedUntil    *time.Time
}

// LockedAt reports whether the state is locked at the given instant. A lockout
// clears by time passing alone; there is no explicit unlock transition.
func (s LockoutState) LockedAt(now time.Time) bool {
	return s.LockedUntil != nil && now.Before(*s.LockedUntil)
}

// ApplyFailure returns the state after one more failed attempt. The counter
// always increments; a new window opens only when the threshold is reached and
// no window is currently active (unless the policy extends on failure).
func ApplyFailure(s LockoutState, now time.Time, policy LockoutPolicy) LockoutState {
	next := LockoutState{
		FailedAttempts: s.FailedAttempts + 1,
		LockedUntil:    s.LockedUntil,
	}
	if s.LockedAt(now) && !policy.ExtendOnFailure {
		return next
	}
	if next.FailedAttempts >= policy.Threshold {
		until := now.Add(policy.Window)
		next.LockedUntil = &until
	}
	return next
}

// ApplySuccess resets the counter and clears any lockout window.
func ApplySuccess() LockoutState {
	return LockoutState{}
}
