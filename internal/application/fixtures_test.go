package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridianbank/auth-service/internal/domain"
	"github.com/meridianbank/auth-service/internal/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memIdentityRepo struct {
	mu                sync.Mutex
	byID              map[uuid.UUID]domain.Identity
	conflictNextSaves int
}

func newMemIdentityRepo() *memIdentityRepo {
	return &memIdentityRepo{byID: make(map[uuid.UUID]domain.Identity)}
}

func (r *memIdentityRepo) FindActiveByEmail(_ context.Context, email string) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, identity := range r.byID {
		if identity.Email == email && identity.IsActive {
			return identity, nil
		}
	}
	return domain.Identity{}, domain.NewError(domain.KindNotFound, "identity not found")
}

func (r *memIdentityRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	identity, ok := r.byID[id]
	if !ok {
		return domain.Identity{}, domain.NewError(domain.KindNotFound, "identity not found")
	}
	return identity, nil
}

func (r *memIdentityRepo) Create(_ context.Context, identity domain.Identity) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == identity.Email {
			return domain.Identity{}, domain.NewError(domain.KindConflict, "email already registered")
		}
	}
	identity.ID = uuid.New()
	identity.Version = 1
	r.byID[identity.ID] = identity
	return identity, nil
}

func (r *memIdentityRepo) Save(_ context.Context, identity domain.Identity) (domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictNextSaves > 0 {
		r.conflictNextSaves--
		return domain.Identity{}, domain.ErrConcurrentUpdate("")
	}
	stored, ok := r.byID[identity.ID]
	if !ok {
		return domain.Identity{}, domain.NewError(domain.KindNotFound, "identity not found")
	}
	if stored.Version != identity.Version {
		return domain.Identity{}, domain.ErrConcurrentUpdate("")
	}
	identity.Version++
	r.byID[identity.ID] = identity
	return identity, nil
}

type memLoginAttemptRepo struct {
	mu       sync.Mutex
	attempts []domain.LoginAttempt
}

func (r *memLoginAttemptRepo) Insert(_ context.Context, attempt domain.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return nil
}

func (r *memLoginAttemptRepo) last() (domain.LoginAttempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.attempts) == 0 {
		return domain.LoginAttempt{}, false
	}
	return r.attempts[len(r.attempts)-1], true
}

type memSessionStore struct {
	mu         sync.Mutex
	seq        int
	forward    map[string]string
	reverse    map[string]string
	lastTTL    time.Duration
	failRotate error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		forward: make(map[string]string),
		reverse: make(map[string]string),
	}
}

func (s *memSessionStore) Rotate(_ context.Context, identityKey string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRotate != nil {
		return "", s.failRotate
	}
	s.lastTTL = ttl
	s.seq++
	token := fmt.Sprintf("refresh-%d", s.seq)
	if previous, ok := s.reverse[identityKey]; ok {
		delete(s.forward, previous)
	}
	s.forward[token] = identityKey
	s.reverse[identityKey] = token
	return token, nil
}

func (s *memSessionStore) Resolve(_ context.Context, refreshToken string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forward[refreshToken], nil
}

func (s *memSessionStore) RevokeByIdentity(_ context.Context, identityKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token, ok := s.reverse[identityKey]; ok {
		delete(s.forward, token)
		delete(s.reverse, identityKey)
	}
	return nil
}

type memRevocationList struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newMemRevocationList() *memRevocationList {
	return &memRevocationList{revoked: make(map[string]bool)}
}

func (l *memRevocationList) Revoke(_ context.Context, accessToken string, remaining time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if remaining <= 0 {
		return nil
	}
	l.revoked[accessToken] = true
	return nil
}

func (l *memRevocationList) IsRevoked(_ context.Context, accessToken string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revoked[accessToken], nil
}

type publishedEvent struct {
	eventType string
	payload   []byte
}

type memPublisher struct {
	mu       sync.Mutex
	events   []publishedEvent
	failWith error
}

func (p *memPublisher) Publish(_ context.Context, eventType string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.events = append(p.events, publishedEvent{eventType: eventType, payload: payload})
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

// stubTokenIssuer hands out sequential opaque tokens and verifies them
// against the fixture clock, so token expiry follows Advance calls.
type stubTokenIssuer struct {
	mu     sync.Mutex
	clock  *fakeClock
	seq    int
	issued map[string]ports.AccessClaims
}

func newStubTokenIssuer(clock *fakeClock) *stubTokenIssuer {
	return &stubTokenIssuer{clock: clock, issued: make(map[string]ports.AccessClaims)}
}

func (i *stubTokenIssuer) Issue(claims ports.AccessClaims) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.seq++
	token := fmt.Sprintf("access-%d", i.seq)
	i.issued[token] = claims
	return token, nil
}

func (i *stubTokenIssuer) Verify(raw string) (ports.AccessClaims, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	claims, ok := i.issued[raw]
	if !ok {
		return ports.AccessClaims{}, domain.ErrInvalidToken("unknown token")
	}
	if !i.clock.Now().Before(claims.ExpiresAt) {
		return ports.AccessClaims{}, domain.ErrInvalidToken("token expired")
	}
	return claims, nil
}

func (i *stubTokenIssuer) RemainingTTL(raw string, now time.Time) (time.Duration, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	claims, ok := i.issued[raw]
	if !ok {
		return 0, domain.ErrInvalidToken("unknown token")
	}
	return claims.ExpiresAt.Sub(now), nil
}

type fixture struct {
	service     *Service
	identities  *memIdentityRepo
	attempts    *memLoginAttemptRepo
	sessions    *memSessionStore
	revocations *memRevocationList
	publisher   *memPublisher
	tokens      *stubTokenIssuer
	clock       *fakeClock
}

func newFixture() *fixture {
	clock := newFakeClock()
	f := &fixture{
		identities:  newMemIdentityRepo(),
		attempts:    &memLoginAttemptRepo{},
		sessions:    newMemSessionStore(),
		revocations: newMemRevocationList(),
		publisher:   &memPublisher{},
		tokens:      newStubTokenIssuer(clock),
		clock:       clock,
	}
	f.service = NewService(Dependencies{
		Identities:    f.identities,
		LoginAttempts: f.attempts,
		Sessions:      f.sessions,
		Revocations:   f.revocations,
		Hasher:        fakeHasher{},
		Tokens:        f.tokens,
		Publisher:     f.publisher,
	})
	f.service.nowFn = clock.Now
	return f
}

func (f *fixture) register(ctx context.Context, email, password string) (RegisterResponse, error) {
	return f.service.Register(ctx, RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
}
