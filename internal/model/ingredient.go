package model

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a catalog entry; the same name may exist with different units.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string    `gorm:"size:250;not null;uniqueIndex:idx_ingredient_name_unit,priority:1" json:"name"`
	MeasurementUnit string    `gorm:"size:100;not null;uniqueIndex:idx_ingredient_name_unit,priority:2" json:"measurement_unit"`
	// NameLower is Name folded in Go; SQLite's LOWER only folds ASCII.
	NameLower string `gorm:"size:250;not null;default:'';index:idx_ingredients_name_lower" json:"-"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}
