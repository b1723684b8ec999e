package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSQLiteDatabase opens a private in-memory database. One connection keeps
// every statement on the same in-memory schema.
func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), zap.NewNop(), "silent")
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// newTestDB returns a migrated in-memory database with every TMS table
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newSQLiteDatabase(t)
	require.NoError(t, models.AutoMigrate(db.DB))
	return db.DB
}

func testCtx() context.Context {
	return context.Background()
}

func newTenantID() uuid.UUID {
	return uuid.New()
}
