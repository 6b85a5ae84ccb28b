package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	applog "github.com/pageza/foodgram/backend/internal/log"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to database.migrations_dir)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	applog.Init(applog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "foodgram-migrate"})
	logger := applog.L()

	if cfg.Database.Driver != "postgres" {
		logger.Fatal().Str("driver", cfg.Database.Driver).Msg("SQL migrations only run against postgres; sqlite is auto-migrated at startup")
	}

	migrationsDir := cfg.Database.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.Database.DSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		logger.Fatal().Err(err).Msg("failed to create migrations table")
	}

	if *rollback {
		name, err := rollbackLast(db, migrationsDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("rollback failed")
		}
		logger.Info().Str("migration", name).Msg("successfully rolled back migration")
		return
	}

	files, err := database.MigrationFiles(migrationsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to list migrations")
	}

	for _, file := range files {
		var applied bool
		if err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)", file).Scan(&applied); err != nil {
			logger.Fatal().Err(err).Msg("failed to check migration status")
		}
		if applied {
			logger.Info().Str("migration", file).Msg("migration already applied")
			continue
		}

		if err := apply(db, filepath.Join(migrationsDir, file), func(tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO schema_migrations (name) VALUES ($1)", file)
			return err
		}); err != nil {
			logger.Fatal().Err(err).Str("migration", file).Msg("failed to apply migration")
		}
		logger.Info().Str("migration", file).Msg("successfully applied migration")
	}

	logger.Info().Msg("all migrations applied successfully")
}

func rollbackLast(db *sql.DB, dir string) (string, error) {
	var name string
	err := db.QueryRow("SELECT name FROM schema_migrations ORDER BY applied_at DESC, id DESC LIMIT 1").Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.New("no migrations to rollback")
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}

	path := filepath.Join(dir, strings.TrimSuffix(name, ".sql")+"_rollback.sql")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("rollback file not found: %s", path)
	}

	return name, apply(db, path, func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM schema_migrations WHERE name = $1", name)
		return err
	})
}

// apply executes one SQL file and the bookkeeping statement in a single transaction.
func apply(db *sql.DB, path string, record func(*sql.Tx) error) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.Exec(string(content)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to execute %s: %w", path, err)
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}
