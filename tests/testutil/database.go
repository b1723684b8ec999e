package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"github.com/tms/backend/internal/infrastructure/event"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB returns a migrated private in-memory database.
// The pool is capped at one connection so every statement sees the same schema.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := persistence.Open(sqlite.Open(":memory:"), zap.NewNop(), "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db.DB))
	return db.DB
}

// Fixture wires the real repositories, transaction scope and event bus
// over an in-memory database for application service tests.
type Fixture struct {
	T        *testing.T
	Ctx      context.Context
	DB       *gorm.DB
	Repos    *persistence.Repositories
	Bus      *event.InMemoryEventBus
	TxScope  *persistence.GormTransactionScope
	Logger   *zap.Logger
	TenantID uuid.UUID
	ActorID  uuid.UUID
}

// NewFixture creates a fixture for a fresh tenant
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return NewFixtureWithDB(t, NewSQLiteDB(t))
}

// NewFixtureWithDB creates a fixture for a fresh tenant over an existing
// database, e.g. a migrated PostgreSQL container. Databases that enforce
// foreign keys need SeedTenant before anything else.
func NewFixtureWithDB(t *testing.T, db *gorm.DB) *Fixture {
	t.Helper()

	logger := zap.NewNop()
	bus := event.NewInMemoryEventBus(logger)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })
	return &Fixture{
		T:        t,
		Ctx:      context.Background(),
		DB:       db,
		Repos:    persistence.NewRepositories(db),
		Bus:      bus,
		TxScope:  persistence.NewGormTransactionScope(db, bus),
		Logger:   logger,
		TenantID: uuid.New(),
		ActorID:  uuid.New(),
	}
}

var containerSerial atomic.Int64

// NextContainerNumber returns a fresh ISO 6346 number with a valid check digit
func NextContainerNumber() string {
	prefix := fmt.Sprintf("TSTU%06d", containerSerial.Add(1))
	return prefix + strconv.Itoa(valueobject.ContainerCheckDigit(prefix))
}
