package gormstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options configures the database connection.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	Logger          zerolog.Logger
}

// Open connects to the configured database and returns a ready Store.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.DSN == "" {
		return nil, fmt.Errorf("store: database DSN is required")
	}

	var (
		dialector gorm.Dialector
		closers   []func() error
	)

	switch opts.Driver {
	case DriverMySQL:
		cfg, err := mysqldrv.ParseDSN(opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("store: invalid mysql DSN: %w", err)
		}
		// DATETIME columns must scan into time.Time.
		cfg.ParseTime = true
		dialector = mysql.Open(cfg.FormatDSN())
	case DriverPostgres:
		poolCfg, err := pgxpool.ParseConfig(opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("store: invalid postgres DSN: %w", err)
		}
		if opts.MaxOpenConns > 0 {
			poolCfg.MaxConns = int32(opts.MaxOpenConns)
		}
		if opts.ConnMaxLifetime > 0 {
			poolCfg.MaxConnLifetime = opts.ConnMaxLifetime
		}
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, fmt.Errorf("store: failed to create postgres pool: %w", err)
		}
		closers = append(closers, func() error { pool.Close(); return nil })
		dialector = postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)})
	case DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(opts.DSN))
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   newGormLogger(opts.Logger, opts.SlowThreshold),
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().Truncate(time.Microsecond) },
	})
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("store: failed to open %s: %w", opts.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("store: failed to access connection pool: %w", err)
	}
	// The pgx pool manages its own limits.
	if opts.Driver != DriverPostgres {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}
	closers = append([]func() error{sqlDB.Close}, closers...)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		closeAll(closers)
		return nil, fmt.Errorf("store: ping failed: %w", err)
	}

	opts.Logger.Info().Str("driver", opts.Driver).Msg("database connected")

	s := New(db)
	s.closers = closers
	return s, nil
}

// sqliteDSN applies the operational pragmas to file databases that do not
// set their own.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") || strings.Contains(dsn, "mode=memory") {
		return dsn
	}
	return dsn + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

func closeAll(closers []func() error) {
	for _, c := range closers {
		_ = c()
	}
}

type gormLogWriter struct {
	logger zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	w.logger.Warn().Str("component", "gorm").Msgf(format, args...)
}

func newGormLogger(logger zerolog.Logger, slow time.Duration) gormlogger.Interface {
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}
	return gormlogger.New(gormLogWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
