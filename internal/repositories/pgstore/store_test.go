package pgstore

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/repositories/storetest"
	"github.com/anonto42/nano-social/backend/internal/testutil/testpg"
)

// openSQLite gives each subtest its own in-memory database. The schema and
// queries are portable, so SQLite covers the suite without a container.
func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func openPostgres(t *testing.T, dsn string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// databaseDSN points dsn at another database on the same server.
func databaseDSN(t *testing.T, dsn, name string) string {
	t.Helper()
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	u.Path = "/" + name
	return u.String()
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repositories.Store {
		return New(openSQLite(t))
	}, storetest.Options{Concurrency: 10})
}

// TestStorePostgres runs the suite on a real server, where row locks and
// READ COMMITTED interleavings apply.
func TestStorePostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container test skipped in -short mode")
	}
	dsn := testpg.StartPostgres(t)
	admin := openPostgres(t, dsn)

	storetest.Run(t, func(t *testing.T) repositories.Store {
		name := "test_" + uuid.NewString()[:8]
		require.NoError(t, admin.Exec("CREATE DATABASE "+name).Error)
		db := openPostgres(t, databaseDSN(t, dsn, name))
		require.NoError(t, Migrate(db))
		return New(db)
	}, storetest.Options{Concurrency: 10})
}
