// Package testdb starts PostgreSQL and Redis in containers for integration
// tests. Tests using it are skipped with -short or when Docker is missing.
package testdb

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
)

func skipUnlessDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}
}

func start(t *testing.T, req testcontainers.ContainerRequest) (host, port string) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err = container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	require.NoError(t, err)
	return host, mapped.Port()
}

// MigrationsDir locates the repository's SQL migrations.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Postgres starts PostgreSQL, applies the SQL migrations and returns a
// connected gorm handle.
func Postgres(t *testing.T) *gorm.DB {
	skipUnlessDocker(t)

	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "foodgram_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		).WithStartupTimeout(60 * time.Second),
	})

	db, err := database.New(config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		Port:     port,
		User:     "test",
		Password: "test",
		Name:     "foodgram_test",
		SSLMode:  "disable",
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(context.Background(), db, MigrationsDir()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Redis starts Redis and returns a connected client.
func Redis(t *testing.T) *redis.Client {
	skipUnlessDocker(t)

	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})

	client, err := database.NewRedisClient(context.Background(), config.RedisConfig{URL: fmt.Sprintf("redis://%s:%s/0", host, port)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}
