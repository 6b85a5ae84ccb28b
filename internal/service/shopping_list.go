package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/model"
)

// ShoppingListItem is the total amount of one (ingredient, unit) pair across
// every recipe in a cart.
type ShoppingListItem struct {
	Name  string `json:"name"`
	Unit  string `json:"measurement_unit"`
	Total int64  `json:"total"`
}

type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums amounts per ingredient name and unit over the user's cart.
// The same name with different units stays separate. Items are ordered by
// name, then unit.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN recipe_memberships ON recipe_memberships.recipe_id = recipe_ingredients.recipe_id").
		Where("recipe_memberships.user_id = ? AND recipe_memberships.kind = ?", userID, model.KindShoppingCart).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC, ingredients.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping list: %w", err)
	}
	return items, nil
}

// Render formats items as the downloadable plain-text list.
func Render(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s - %d, %s\n", item.Name, item.Total, item.Unit)
	}
	return b.String()
}
