package store

import (
	"context"
	"errors"
	"time"

	"github.com/opsdeck/authd/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (gorm/sqlite
// today, anything else later) implement this. It exposes sub-repositories to
// keep concerns tidy and testable.
type Store interface {
	Users() Users
	Sessions() Sessions

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// Create inserts a new user (id is provided by the app via ULID).
	// Unique-index collisions on email or username return ErrAlreadyExists,
	// which is how concurrent registrations racing on the same credential
	// resolve their loser.
	Create(ctx context.Context, u *domain.User) error

	// GetByIdentifier matches a single supplied identifier against BOTH the
	// email and username unique columns. This is intentional: login accepts
	// either identifier in one field.
	GetByIdentifier(ctx context.Context, identifier string) (domain.User, error)

	// FindConflict returns an existing user whose email OR username collides
	// with the supplied pair, for duplicate detection during registration.
	FindConflict(ctx context.Context, email, username string) (domain.User, error)
}

type Sessions interface {
	// Create stores a new session row binding a token to its user.
	Create(ctx context.Context, s *domain.Session) error

	// GetByToken returns the session with the exact token, joined with its
	// owning user.
	GetByToken(ctx context.Context, token string) (domain.Session, error)

	// UpdateToken overwrites the token and expiry of the session row in
	// place; the session identity persists across refreshes.
	UpdateToken(ctx context.Context, sessionID, token string, expiresAt time.Time) error

	// DeleteByToken removes all sessions matching the token (normally zero
	// or one) and reports how many rows went away. Zero matches is not an
	// error.
	DeleteByToken(ctx context.Context, token string) (int64, error)

	// DeleteExpired removes sessions whose expiry has passed. Housekeeping
	// only; the auth flows never call this.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
