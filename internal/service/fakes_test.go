package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/opsdeck/authd/internal/domain"
	"github.com/opsdeck/authd/internal/store"
	"github.com/opsdeck/authd/pkg/jwtx"
)

// memStore is an in-memory store.Store used to exercise the service layer
// without a database. It mirrors the driver's semantics: unique email,
// username, and token, ErrNotFound / ErrAlreadyExists sentinels.
type memStore struct {
	mu       sync.Mutex
	users    map[string]domain.User    // by id
	sessions map[string]domain.Session // by id

	// failWith, when set, makes every operation fail. Simulates an
	// unavailable backing store.
	failWith error
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]domain.User),
		sessions: make(map[string]domain.Session),
	}
}

func (m *memStore) Users() store.Users { return (*memUsers)(m) }

func (m *memStore) Sessions() store.Sessions { return (*memSessions)(m) }

func (m *memStore) Ping(context.Context) error { return m.failWith }

func (m *memStore) Close() error { return nil }

type memUsers memStore

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return store.ErrAlreadyExists
		}
	}
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) GetByIdentifier(_ context.Context, identifier string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return domain.User{}, m.failWith
	}

	for _, u := range m.users {
		if u.Email == identifier || u.Username == identifier {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (m *memUsers) FindConflict(_ context.Context, email, username string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return domain.User{}, m.failWith
	}

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) || u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

type memSessions memStore

func (m *memSessions) Create(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	for _, existing := range m.sessions {
		if existing.Token == s.Token {
			return store.ErrAlreadyExists
		}
	}
	s.CreatedAt = time.Now().UTC()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memSessions) GetByToken(_ context.Context, token string) (domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return domain.Session{}, m.failWith
	}

	for _, s := range m.sessions {
		if s.Token == token {
			s.User = m.users[s.UserID]
			return s, nil
		}
	}
	return domain.Session{}, store.ErrNotFound
}

func (m *memSessions) UpdateToken(_ context.Context, sessionID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}

	s, ok := m.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	s.Token = token
	s.ExpiresAt = expiresAt
	m.sessions[sessionID] = s
	return nil
}

func (m *memSessions) DeleteByToken(_ context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}

	var n int64
	for id, s := range m.sessions {
		if s.Token == token {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}

	var n int64
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

// sessionCount reports live rows for assertions.
func (m *memStore) sessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// expireSession rewinds a session's expiry so refresh sees it as expired.
func (m *memStore) expireSession(token string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.Token == token {
			s.ExpiresAt = at
			m.sessions[id] = s
		}
	}
}

// plainHasher is a trivial reversible "hash" so service tests don't pay
// bcrypt's cost. The real hasher has its own tests in pkg/cryptox.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }

func (plainHasher) Verify(password, encodedHash string) error {
	if encodedHash != "plain:"+password {
		return domain.E(domain.KindInvalidCredentials, "mismatch")
	}
	return nil
}

func newTestAuthService(st store.Store) *AuthService {
	signer, err := jwtx.NewSignerHS256([]byte("service-test-secret"))
	if err != nil {
		panic(err)
	}
	return &AuthService{
		Store:      st,
		Hasher:     plainHasher{},
		Signer:     signer,
		Issuer:     "authd-test",
		SessionTTL: 7 * 24 * time.Hour,
	}
}
