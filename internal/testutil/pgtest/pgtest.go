//go:build integration

// Package pgtest поднимает PostgreSQL в контейнере для интеграционных тестов
package pgtest

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/m04kA/SMC-StadiumBooking/migrations"
	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
)

const image = "docker.io/postgres:16-alpine"

// Start возвращает БД с примененными миграциями.
// Если задан POSTGRES_URL, используется внешняя БД вместо контейнера.
func Start(t *testing.T) *dbmetrics.DB {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("POSTGRES_URL")
	if dsn == "" {
		container, err := postgres.Run(ctx, image,
			postgres.WithDatabase("booking"),
			postgres.WithUsername("booking"),
			postgres.WithPassword("booking"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = container.Terminate(context.Background())
		})

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db := dbmetrics.Wrap(sqlDB, nil)
	require.NoError(t, db.PingContext(ctx))
	require.NoError(t, migrations.Apply(ctx, db))

	return db
}
