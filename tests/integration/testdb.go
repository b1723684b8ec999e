// Package integration runs the persistence layer and the HTTP stack against
// a real PostgreSQL started with testcontainers and migrated with the
// embedded schema. Tests skip in -short mode and when Docker is unavailable.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tms/backend/internal/infrastructure/migration"
	"github.com/tms/backend/internal/infrastructure/persistence"
	"github.com/tms/backend/migrations"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	sharedContainer    *tcpostgres.PostgresContainer
	sharedContainerMu  sync.Mutex
	sharedContainerDSN string
)

// TestDB is a connection to a migrated PostgreSQL database
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	DSN   string
	t     *testing.T
}

// NewSharedTestDB connects to the package-wide container, starting and
// migrating it on first use. Tests share the schema, so each one works in
// its own tenant or truncates with CleanTables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipUnlessDocker(t)

	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer == nil {
		container, dsn := startPostgres(t, "tms_shared_test")
		sharedContainer = container
		sharedContainerDSN = dsn

		db := connect(t, dsn)
		runMigrations(t, db.SqlDB)
		_ = db.SqlDB.Close()
	}

	db := connect(t, sharedContainerDSN)
	t.Cleanup(func() { _ = db.SqlDB.Close() })
	return db
}

// NewTestDB starts a private container without running migrations, for
// tests that drive the schema themselves
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	skipUnlessDocker(t)

	container, dsn := startPostgres(t, "tms_test")
	db := connect(t, dsn)
	t.Cleanup(func() {
		_ = db.SqlDB.Close()
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})
	return db
}

// CleanupSharedContainer terminates the shared container; TestMain calls it
func CleanupSharedContainer() {
	sharedContainerMu.Lock()
	defer sharedContainerMu.Unlock()

	if sharedContainer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedContainer.Terminate(ctx)
		sharedContainer = nil
		sharedContainerDSN = ""
	}
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public' AND tablename <> 'schema_migrations'
	`).Scan(&tables).Error
	require.NoError(tdb.t, err)

	for _, table := range tables {
		require.NoError(tdb.t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error)
	}
}

func skipUnlessDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

func startPostgres(t *testing.T, dbName string) (*tcpostgres.PostgresContainer, string) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("tms-test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return container, dsn
}

// connect opens the database through persistence.Open so tests see the
// same gorm settings and error translation as the server
func connect(t *testing.T, dsn string) *TestDB {
	t.Helper()

	log, level := zap.NewNop(), "silent"
	if os.Getenv("TEST_DB_DEBUG") != "" {
		log, level = zap.NewExample(), "info"
	}
	db, err := persistence.Open(gormpostgres.Open(dsn), log, level)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return &TestDB{DB: db.DB, SqlDB: sqlDB, DSN: dsn, t: t}
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
}
