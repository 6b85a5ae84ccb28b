package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt   time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	Image       string             `gorm:"size:512" json:"image"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1" json:"cooking_time"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// RecipeTag is the join row between a recipe and one of its tags.
type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:varchar(36);primaryKey"`
	TagID    uuid.UUID `gorm:"type:varchar(36);primaryKey;index"`
}

// RecipeIngredient carries the amount of one ingredient within one recipe.
// The set is replaced wholesale whenever the recipe is updated.
type RecipeIngredient struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient,priority:1" json:"recipe_id"`
	IngredientID uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient,priority:2;index" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
	Amount       int        `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1" json:"amount"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	ensureID(&ri.ID)
	return nil
}
