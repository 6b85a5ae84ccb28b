package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID assigns a new UUID when the primary key is still zero. IDs are
// generated in Go so the same models work on PostgreSQL and SQLite.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All returns every model in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&RecipeMembership{},
		&Follow{},
	}
}

// SetupJoinTables registers custom join models with gorm. It must run before
// AutoMigrate and before any query preloading Recipe.Tags.
func SetupJoinTables(db *gorm.DB) error {
	return db.SetupJoinTable(&Recipe{}, "Tags", &RecipeTag{})
}
