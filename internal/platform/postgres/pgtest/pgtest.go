// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pgtest gives store tests a real PostgreSQL with the YaMDb schema.

Each call starts a throwaway container, applies the embedded migrations and
returns a pool; the container is removed when the test ends. Tests are skipped
under -short and when no Docker daemon is reachable.
*/
package pgtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/yamdb/internal/platform/migration"
	"github.com/taibuivan/yamdb/internal/platform/postgres"
)

const (
	image    = "postgres:16-alpine"
	port     = "5432/tcp"
	user     = "yamdb"
	password = "yamdb"
	database = "yamdb"
)

// Pool returns a migrated pool on a fresh database.
func Pool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("postgres store test skipped with -short")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port},
			Env: map[string]string{
				"POSTGRES_USER":     user,
				"POSTGRES_PASSWORD": password,
				"POSTGRES_DB":       database,
			},
			// The entrypoint restarts the server once after initdb.
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort(port),
			),
		},
		Started: true,
	})
	if container != nil {
		t.Cleanup(func() { _ = container.Terminate(context.Background()) })
	}
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", user, password, endpoint, database)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, "", logger))

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolOptions{MaxConns: 4}, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}
