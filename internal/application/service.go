package application

import (
	"time"

	"github.com/meridianbank/auth-service/internal/domain"
	"github.com/meridianbank/auth-service/internal/ports"
)

// Config carries the orchestration knobs resolved at bootstrap.
type Config struct {
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	RememberMeRefreshTTL time.Duration
	Lockout              domain.LockoutPolicy
	DefaultRoles         []string
}

// Service orchestrates credential verification, token issuance, refresh
// rotation and revocation. All collaborators arrive as interfaces through
// constructor injection; there is no ambient container.
type Service struct {
	cfg           Config
	identities    ports.IdentityRepository
	loginAttempts ports.LoginAttemptRepository
	sessions      ports.SessionStore
	revocations   ports.RevocationList
	hasher        ports.PasswordHasher
	tokens        ports.TokenIssuer
	publisher     ports.EventPublisher
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Identities    ports.IdentityRepository
	LoginAttempts ports.LoginAttemptRepository
	Sessions      ports.SessionStore
	Revocations   ports.RevocationList
	Hasher        ports.PasswordHasher
	Tokens        ports.TokenIssuer
	Publisher     ports.EventPublisher
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if cfg.RememberMeRefreshTTL <= 0 {
		cfg.RememberMeRefreshTTL = 30 * 24 * time.Hour
	}
	if cfg.Lockout.Threshold <= 0 || cfg.Lockout.Window <= 0 {
		cfg.Lockout = domain.DefaultLockoutPolicy()
	}
	if len(cfg.DefaultRoles) == 0 {
		cfg.DefaultRoles = []string{"CUSTOMER"}
	}
	return &Service{
		cfg:           cfg,
		identities:    deps.Identities,
		loginAttempts: deps.LoginAttempts,
		sessions:      deps.Sessions,
		revocations:   deps.Revocations,
		hasher:        deps.Hasher,
		tokens:        deps.Tokens,
		publisher:     deps.Publisher,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
