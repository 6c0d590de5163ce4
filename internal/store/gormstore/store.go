// Package gormstore implements the store interfaces on top of gorm with the
// sqlite driver. Uniqueness of email, username, and session token is enforced
// by the schema's unique indexes, not by application-level locking.
package gormstore

import (
	"context"
	"errors"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/opsdeck/authd/internal/domain"
	"github.com/opsdeck/authd/internal/store"
)

type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the sqlite database at path and migrates the
// schema. Pass Options to tune logging; zero value is production defaults.
func Open(path string, opts Options) (*Store, error) {
	gormLogger := logger.Discard
	if opts.Debug {
		gormLogger = logger.Default
	}

	cfg := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := path + "?cache=shared&_journal_mode=WAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Session{}); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Options tunes store behaviour.
type Options struct {
	// Debug enables gorm statement logging.
	Debug bool
}

func (s *Store) Users() store.Users       { return &usersRepo{db: s.db} }
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{db: s.db} }

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// mapErr translates gorm/sqlite errors into the store sentinels so callers
// never see driver-specific error types.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.ErrAlreadyExists
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		// The sqlite driver reports unique violations as plain errors.
		return store.ErrAlreadyExists
	default:
		return err
	}
}
