// Package gormstore implements domain.Store on top of gorm so the same code
// runs against MySQL, PostgreSQL and SQLite.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/donghyeon639/SYU-Spring-web/internal/domain"
)

// Store implements domain.Store.
type Store struct {
	db      *gorm.DB
	closers []func() error
}

var _ domain.Store = (*Store)(nil)

// New wraps an open gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.JoinRequest{},
	}
}

// Migrate creates or updates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("store: migration failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithTx runs fn inside a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Health checks database connectivity.
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("store: health check failed: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("store: health check failed: %w", err)
	}
	return nil
}

// write starts a statement that never cascades into associations.
func (s *Store) write(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Omit(clause.Associations)
}

// translate maps gorm failures to domain errors.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Conflict("%s already exists", what)
	default:
		return fmt.Errorf("store: %s: %w", what, err)
	}
}
