package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meridianbank/auth-service/internal/domain"
	"github.com/meridianbank/auth-service/internal/ports"
)

const eventTypeUserLoggedIn = "user.logged_in"

// Register creates an active identity with the default role set.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return RegisterResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return RegisterResponse{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.nowFn()
	identity, err := s.identities.Create(ctx, domain.Identity{
		Email:         email,
		PasswordHash:  passwordHash,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Roles:         s.cfg.DefaultRoles,
		IsActive:      true,
		EmailVerified: false,
		CreatedAt:     now,
	})
	if err != nil {
		return RegisterResponse{}, err
	}
	return RegisterResponse{UserID: identity.ID}, nil
}

// Login verifies credentials under the lockout policy and starts a session.
// A version conflict on the identity record is retried once: re-running the
// same comparison cannot change its outcome, so the bounded retry is safe.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	res, err := s.loginOnce(ctx, req)
	if err != nil && domain.KindOf(err) == domain.KindConcurrentUpdate {
		res, err = s.loginOnce(ctx, req)
	}
	return res, err
}

func (s *Service) loginOnce(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, err
	}

	identity, err := s.identities.FindActiveByEmail(ctx, email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			s.recordAttempt(ctx, nil, req.IPAddress, domain.LoginAttemptFailed, "USER_NOT_FOUND")
			return LoginResponse{}, domain.ErrInvalidCredentials()
		}
		return LoginResponse{}, err
	}

	now := s.nowFn()
	if identity.Locked(now) {
		slog.Default().WarnContext(ctx, "account lockout active",
			"module", "application",
			"layer", "application",
			"operation", "login",
			"outcome", "blocked",
			"identity_id", identity.ID,
			"locked_until", identity.LockedUntil,
		)
		s.recordAttempt(ctx, &identity.ID, req.IPAddress, domain.LoginAttemptFailed, "ACCOUNT_LOCKED")
		return LoginResponse{}, domain.ErrAccountLocked()
	}

	if err := s.hasher.Compare(identity.PasswordHash, req.Password); err != nil {
		identity.RecordFailedLogin(now, s.cfg.Lockout)
		if _, saveErr := s.identities.Save(ctx, identity); saveErr != nil {
			if domain.KindOf(saveErr) == domain.KindConcurrentUpdate {
				return LoginResponse{}, saveErr
			}
			slog.Default().ErrorContext(ctx, "failed to persist lockout state",
				"module", "application",
				"layer", "application",
				"operation", "login",
				"outcome", "failure",
				"identity_id", identity.ID,
				"error", saveErr,
			)
		}
		s.recordAttempt(ctx, &identity.ID, req.IPAddress, domain.LoginAttemptFailed, "INVALID_PASSWORD")
		return LoginResponse{}, domain.ErrInvalidCredentials()
	}

	identity.RecordSuccessfulLogin(now)
	identity, err = s.identities.Save(ctx, identity)
	if err != nil {
		return LoginResponse{}, err
	}

	accessToken, err := s.tokens.Issue(ports.AccessClaims{
		IdentityID: identity.ID,
		Email:      identity.Email,
		Roles:      identity.Roles,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.cfg.AccessTokenTTL),
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshTTL := s.cfg.RefreshTokenTTL
	if req.RememberMe {
		refreshTTL = s.cfg.RememberMeRefreshTTL
	}
	// An access token with no corresponding session would be unrevokable via
	// logout, so a failed session write fails the whole login.
	refreshToken, err := s.sessions.Rotate(ctx, identity.ID.String(), refreshTTL)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("store refresh token: %w", err)
	}

	s.recordAttempt(ctx, &identity.ID, req.IPAddress, domain.LoginAttemptSuccess, "")
	s.publishLoginEvent(ctx, identity, now)

	return LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
		User:         toUserInfo(identity.Snapshot()),
	}, nil
}

// Refresh mints a new access token for a live refresh token. The refresh
// token itself is not rotated here; rotation happens on login only.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return LoginResponse{}, domain.ErrInvalidToken("refresh token is required")
	}

	identityKey, err := s.sessions.Resolve(ctx, refreshToken)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("resolve refresh token: %w", err)
	}
	if identityKey == "" {
		return LoginResponse{}, domain.ErrInvalidToken("invalid or expired refresh token")
	}

	identityID, err := uuid.Parse(identityKey)
	if err != nil {
		return LoginResponse{}, domain.WrapError(domain.KindInvalidToken, "refresh token maps to a malformed identity key", err)
	}

	// An unknown or deactivated identity reads the same as an unknown token,
	// so refresh cannot be used to probe account state.
	identity, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return LoginResponse{}, domain.ErrInvalidToken("invalid or expired refresh token")
		}
		return LoginResponse{}, err
	}
	if !identity.IsActive {
		return LoginResponse{}, domain.ErrInvalidToken("invalid or expired refresh token")
	}

	now := s.nowFn()
	accessToken, err := s.tokens.Issue(ports.AccessClaims{
		IdentityID: identity.ID,
		Email:      identity.Email,
		Roles:      identity.Roles,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.cfg.AccessTokenTTL),
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	return LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
		User:         toUserInfo(identity.Snapshot()),
	}, nil
}

// Logout drops the caller's refresh token and denylists the access token for
// its remaining life. Logging out with an invalid access token is an error;
// a missing session entry is not.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return err
	}

	if err := s.sessions.RevokeByIdentity(ctx, claims.IdentityID.String()); err != nil {
		slog.Default().WarnContext(ctx, "failed to drop refresh token on logout",
			"module", "application",
			"layer", "application",
			"operation", "logout",
			"outcome", "partial",
			"identity_id", claims.IdentityID,
			"error", err,
		)
	}

	remaining, err := s.tokens.RemainingTTL(accessToken, s.nowFn())
	if err != nil {
		return err
	}
	if err := s.revocations.Revoke(ctx, accessToken, remaining); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token into claims, checking the revocation
// list before trusting signature and expiry. Any failure means the caller is
// treated as anonymous by the HTTP gate, and as rejected by the RPC surface.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (ports.AccessClaims, error) {
	revoked, err := s.revocations.IsRevoked(ctx, accessToken)
	if err != nil {
		return ports.AccessClaims{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return ports.AccessClaims{}, domain.ErrInvalidToken("token has been revoked")
	}
	return s.tokens.Verify(accessToken)
}

// Profile returns the public snapshot for an authenticated identity.
func (s *Service) Profile(ctx context.Context, identityID uuid.UUID) (UserInfo, error) {
	identity, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		return UserInfo{}, err
	}
	return toUserInfo(identity.Snapshot()), nil
}

func (s *Service) recordAttempt(ctx context.Context, identityID *uuid.UUID, ip, status, reason string) {
	if err := s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		IdentityID:    identityID,
		AttemptAt:     s.nowFn(),
		IPAddress:     ip,
		Status:        status,
		FailureReason: reason,
	}); err != nil {
		slog.Default().WarnContext(ctx, "failed to record login attempt",
			"module", "application",
			"layer", "application",
			"operation", "record_login_attempt",
			"outcome", "failure",
			"error", err,
		)
	}
}

func (s *Service) publishLoginEvent(ctx context.Context, identity domain.Identity, at time.Time) {
	payload, err := json.Marshal(map[string]any{
		"identity_id": identity.ID.String(),
		"email":       identity.Email,
		"timestamp":   at,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, eventTypeUserLoggedIn, payload); err != nil {
		slog.Default().WarnContext(ctx, "failed to publish login event",
			"module", "application",
			"layer", "application",
			"operation", "publish_login_event",
			"outcome", "failure",
			"identity_id", identity.ID,
			"error", err,
		)
	}
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", domain.NewError(domain.KindInvalidInput, "email is required")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", domain.NewError(domain.KindInvalidInput, "invalid email")
	}
	return trimmed, nil
}
