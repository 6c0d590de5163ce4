package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/opsdeck/authd/internal/domain"
	"github.com/opsdeck/authd/internal/store"
	"github.com/opsdeck/authd/pkg/idx"
	"github.com/opsdeck/authd/pkg/jwtx"
	"github.com/opsdeck/authd/pkg/slogx"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// Hasher is the password hashing capability the service depends on.
// cryptox.Bcrypt satisfies it in production; tests substitute fakes.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) error
}

// AuthService orchestrates registration, login, logout, and refresh over the
// injected store, hasher, and token signer.
type AuthService struct {
	Store      store.Store
	Hasher     Hasher
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

// RegisterInput carries the registration form fields. FirstName and LastName
// are optional.
type RegisterInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// LoginResult is what a successful login returns: the signed bearer token and
// the sanitized user it authenticates.
type LoginResult struct {
	Token string
	User  domain.User
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

// Register validates the input, rejects duplicate credentials, and persists a
// new active user with a bcrypt password hash and the default role.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.User{}, err
	}

	username := strings.TrimSpace(in.Username)
	if len(username) < minUsernameLen {
		return domain.User{}, domain.FieldError(domain.KindValidation, "username",
			"username must be at least 3 characters")
	}
	if len(in.Password) < minPasswordLen {
		return domain.User{}, domain.FieldError(domain.KindValidation, "password",
			"password must be at least 6 characters")
	}

	if err := s.checkDuplicate(ctx, email, username); err != nil {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		l.Error("password hashing failed", "err", err)
		return domain.User{}, domain.WrapError(domain.KindStore, "could not process registration", err)
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         domain.RoleUser,
		Active:       true,
	}

	if err := s.Store.Users().Create(ctx, &u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration: the unique index
			// fired after our duplicate pre-check. Resolve which field.
			if dupErr := s.checkDuplicate(ctx, email, username); dupErr != nil {
				return domain.User{}, dupErr
			}
			return domain.User{}, domain.FieldError(domain.KindDuplicate, "email",
				"email or username already registered")
		}
		l.Error("create user failed", "err", err)
		return domain.User{}, domain.WrapError(domain.KindStore, "could not create user", err)
	}

	l.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login authenticates a single identifier (email or username) and password,
// signs a session token, and persists the backing session row. Unknown
// identifier, wrong password, and inactive account are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return LoginResult{}, invalidCredentials()
	}

	u, err := s.Store.Users().GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, invalidCredentials()
		}
		l.Error("user lookup failed", "err", err)
		return LoginResult{}, domain.WrapError(domain.KindStore, "could not look up user", err)
	}

	if !u.Active {
		return LoginResult{}, invalidCredentials()
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		return LoginResult{}, invalidCredentials()
	}

	token, expiresAt, err := s.signToken(u, now)
	if err != nil {
		l.Error("token signing failed", "err", err)
		return LoginResult{}, err
	}

	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.Store.Sessions().Create(ctx, &sess); err != nil {
		l.Error("create session failed", "err", err)
		return LoginResult{}, domain.WrapError(domain.KindStore, "could not create session", err)
	}

	l.Info("user logged in", "user_id", u.ID)
	return LoginResult{Token: token, User: u}, nil
}

// Logout deletes any sessions bound to the token. It is idempotent: a missing
// token or zero matching rows still succeeds, and no signature check is
// performed before deletion (a forged token simply matches nothing).
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	n, err := s.Store.Sessions().DeleteByToken(ctx, token)
	if err != nil {
		slogx.FromContext(ctx).Error("delete session failed", "err", err)
		return domain.WrapError(domain.KindStore, "could not delete session", err)
	}

	slogx.FromContext(ctx).Info("logout", "sessions_deleted", n)
	return nil
}

// Refresh exchanges a live session's token for a fresh one, overwriting the
// same session row's token and expiry. Expired sessions fail in place and are
// never resurrected.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	if token == "" {
		return "", domain.E(domain.KindUnauthenticated, "missing bearer token")
	}

	sess, err := s.Store.Sessions().GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.E(domain.KindSessionInvalid, "session is invalid or expired")
		}
		l.Error("session lookup failed", "err", err)
		return "", domain.WrapError(domain.KindStore, "could not look up session", err)
	}

	if sess.Expired(now) {
		return "", domain.E(domain.KindSessionInvalid, "session is invalid or expired")
	}

	newToken, expiresAt, err := s.signToken(sess.User, now)
	if err != nil {
		l.Error("token signing failed", "err", err)
		return "", err
	}

	if err := s.Store.Sessions().UpdateToken(ctx, sess.ID, newToken, expiresAt); err != nil {
		l.Error("session update failed", "err", err)
		return "", domain.WrapError(domain.KindStore, "could not refresh session", err)
	}

	l.Info("session refreshed", "user_id", sess.UserID, "session_id", sess.ID)
	return newToken, nil
}

func (s *AuthService) signToken(u domain.User, now time.Time) (string, time.Time, error) {
	if s.Signer == nil {
		return "", time.Time{}, domain.E(domain.KindConfiguration, "token signer is not configured")
	}

	ttl := s.sessionTTL()
	claims := jwtx.NewClaims(u.ID, u.Email, u.Role, ttl, s.Issuer, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, domain.WrapError(domain.KindConfiguration, "could not sign token", err)
	}
	return token, now.Add(ttl), nil
}

// checkDuplicate returns a field-specific duplicate error if a user already
// holds the email or username, and nil when both are free.
func (s *AuthService) checkDuplicate(ctx context.Context, email, username string) error {
	existing, err := s.Store.Users().FindConflict(ctx, email, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return domain.WrapError(domain.KindStore, "could not check existing users", err)
	}

	if strings.EqualFold(existing.Email, email) {
		return domain.FieldError(domain.KindDuplicate, "email", "email is already registered")
	}
	return domain.FieldError(domain.KindDuplicate, "username", "username is already taken")
}

// invalidCredentials is the single error shape for every login failure mode,
// so responses do not reveal whether an account exists.
func invalidCredentials() *domain.Error {
	return domain.E(domain.KindInvalidCredentials, "invalid username or password")
}

// normalizeEmail canonicalizes an email address: trimmed, lowercased, and
// syntactically valid per RFC 5322 address parsing.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", domain.FieldError(domain.KindValidation, "email", "email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domain.FieldError(domain.KindValidation, "email", "email is invalid")
	}
	return email, nil
}
