package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tms/backend/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDatabase opens a postgres-dialect Database over sqlmock with ping
// monitoring, so Open's own ping is expected up front
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	db, err := Open(postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"}), zap.NewNop(), "silent")
	require.NoError(t, err)
	return db, mock
}

type guardedItem struct {
	ID       uint
	TenantID uuid.UUID
	Name     string
}

func TestDatabase_Ping(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	err := db.Ping(context.Background())
	assert.ErrorContains(t, err, "ping database")

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_PreparedStatementsOption(t *testing.T) {
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	db, err := Open(postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"}), nil, "warn", WithPreparedStatements(true))
	require.NoError(t, err)
	assert.True(t, db.DB.Config.PrepareStmt)
	assert.True(t, db.DB.Config.TranslateError)
	assert.True(t, db.DB.Config.SkipDefaultTransaction)
}

func TestOpen_InstallsGuard(t *testing.T) {
	db := newSQLiteDatabase(t)
	require.NoError(t, db.DB.AutoMigrate(&guardedItem{}))

	tenantID := uuid.New()
	require.NoError(t, db.DB.Create(&guardedItem{ID: 1, TenantID: tenantID, Name: "Bay A"}).Error)

	err := db.DB.Model(&guardedItem{}).Where("id = ?", 1).Update("name", "Bay B").Error
	assert.ErrorIs(t, err, tenant.ErrUnscopedWrite)

	err = db.DB.Scopes(tenant.Scope(tenantID)).Model(&guardedItem{}).Where("id = ?", 1).Update("name", "Bay B").Error
	assert.NoError(t, err)

	err = db.DB.Where("id = ?", 1).Delete(&guardedItem{}).Error
	assert.ErrorIs(t, err, tenant.ErrUnscopedWrite)
}

func TestOpen_TranslatesDuplicateKey(t *testing.T) {
	db := newSQLiteDatabase(t)
	require.NoError(t, db.DB.AutoMigrate(&guardedItem{}))

	require.NoError(t, db.DB.Create(&guardedItem{ID: 7, TenantID: uuid.New()}).Error)
	err := db.DB.Create(&guardedItem{ID: 7, TenantID: uuid.New()}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
