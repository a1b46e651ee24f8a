// Package testutil starts throwaway infrastructure for integration tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"go-stockbit/migrations"
	"go-stockbit/pkg/database"
	"go-stockbit/pkg/logger"
)

// PostgresDSN starts a PostgreSQL container for the test and returns its
// connection string. The test is skipped when no container runtime is
// available.
func PostgresDSN(t *testing.T) string {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("stockbit"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

// MigratedDB returns a gorm handle on a fresh, fully migrated database.
func MigratedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(PostgresDSN(t), logger.New("test"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Up(sqlDB))
	return db
}
