package gormstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OpenInMemory opens a private in-memory SQLite database with the schema
// applied. A single connection keeps the database alive for the Store's
// lifetime.
func OpenInMemory(ctx context.Context) (*Store, error) {
	s, err := Open(ctx, Options{
		Driver:       DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		Logger:       zerolog.Nop(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
