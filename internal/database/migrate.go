package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/model"
)

// RunMigrations brings the schema up to date. SQLite databases (development
// and tests) are auto-migrated from the models; PostgreSQL applies the SQL
// files in migrationsDir in name order, recording each in schema_migrations.
func RunMigrations(ctx context.Context, db *gorm.DB, migrationsDir string) error {
	l := applog.Ctx(ctx)

	if db.Dialector.Name() == "sqlite" {
		l.Info().Msg("using gorm auto-migration for sqlite")
		return AutoMigrate(db)
	}

	files, err := MigrationFiles(migrationsDir)
	if err != nil {
		return err
	}

	if err := db.WithContext(ctx).Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, name := range files {
		var count int64
		if err := db.WithContext(ctx).Table("schema_migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			l.Debug().Str("migration", name).Msg("skipping migration (already applied)")
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", name, err)
			}
			return tx.Exec("INSERT INTO schema_migrations (name) VALUES (?)", name).Error
		})
		if err != nil {
			return err
		}

		l.Info().Str("migration", name).Msg("applied migration")
	}

	return nil
}

// AutoMigrate creates or updates every table from the gorm models.
func AutoMigrate(db *gorm.DB) error {
	if err := model.SetupJoinTables(db); err != nil {
		return err
	}
	return db.AutoMigrate(model.All()...)
}

// MigrationFiles lists forward migration files (rollback files excluded) sorted by name.
func MigrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
