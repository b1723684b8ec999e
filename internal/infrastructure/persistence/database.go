package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tms/backend/internal/infrastructure/config"
	"github.com/tms/backend/internal/infrastructure/logger"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database owns the gorm handle and its connection pool
type Database struct {
	DB *gorm.DB
}

// DatabaseOption adjusts the gorm configuration before connecting
type DatabaseOption func(*gorm.Config)

// WithPreparedStatements toggles statement caching
func WithPreparedStatements(enabled bool) DatabaseOption {
	return func(c *gorm.Config) { c.PrepareStmt = enabled }
}

const connectTimeout = 5 * time.Second

// NewDatabase connects to PostgreSQL, sizes the pool from cfg and fails fast
// when the server does not answer
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger, logLevel string, opts ...DatabaseOption) (*Database, error) {
	opts = append([]DatabaseOption{WithPreparedStatements(true)}, opts...)
	db, err := Open(postgres.Open(cfg.DSN()), log, logLevel, opts...)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.sqlDB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Open creates a Database on any dialector. Every handle gets the tenant
// write guard, and driver errors are translated so unique and foreign key
// violations surface as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func Open(dialector gorm.Dialector, log *zap.Logger, logLevel string, opts ...DatabaseOption) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	gcfg := &gorm.Config{
		Logger:                 logger.NewGormLogger(log, logger.GormLevel(logLevel)),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	}
	for _, opt := range opts {
		opt(gcfg)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := tenant.RegisterGuard(db); err != nil {
		return nil, fmt.Errorf("register tenant guard: %w", err)
	}
	return &Database{DB: db}, nil
}

func (d *Database) sqlDB() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	return sqlDB, nil
}

// Ping checks the server answers; the health endpoint relies on it
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.sqlDB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close releases every pooled connection
func (d *Database) Close() error {
	sqlDB, err := d.sqlDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
