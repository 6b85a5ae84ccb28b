package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/model"
)

// RecipeFilter narrows a recipe listing. Non-empty criteria compose with AND;
// values within Authors or Tags compose with OR.
type RecipeFilter struct {
	Authors          []uuid.UUID
	Tags             []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// ParseRecipeFilter reads author, tags, is_favorited and is_in_shopping_cart
// from query parameters. author and tags may repeat.
func ParseRecipeFilter(q url.Values) (RecipeFilter, error) {
	var f RecipeFilter

	for _, raw := range q["author"] {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return RecipeFilter{}, apperror.ValidationFailed("author", fmt.Sprintf("invalid author id %q", raw))
		}
		f.Authors = append(f.Authors, id)
	}

	for _, slug := range q["tags"] {
		if slug = strings.TrimSpace(slug); slug != "" {
			f.Tags = append(f.Tags, slug)
		}
	}

	var err error
	if f.IsFavorited, err = parseFlag(q, "is_favorited"); err != nil {
		return RecipeFilter{}, err
	}
	if f.IsInShoppingCart, err = parseFlag(q, "is_in_shopping_cart"); err != nil {
		return RecipeFilter{}, err
	}
	return f, nil
}

func parseFlag(q url.Values, name string) (bool, error) {
	raw := q.Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.ValidationFailed(name, fmt.Sprintf("%s must be a boolean", name))
	}
	return v, nil
}

// Scope applies the filter to a query over recipes. The membership flags
// only apply to an authenticated viewer; for anonymous callers they are
// ignored.
func (f RecipeFilter) Scope(viewer *uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if len(f.Authors) > 0 {
			q = q.Where("recipes.author_id IN ?", f.Authors)
		}

		if len(f.Tags) > 0 {
			sub := q.Session(&gorm.Session{NewDB: true}).
				Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", f.Tags)
			q = q.Where("recipes.id IN (?)", sub)
		}

		if viewer == nil {
			return q
		}
		if f.IsFavorited {
			q = q.Where("recipes.id IN (?)", membershipSubquery(q, model.KindFavorite, *viewer))
		}
		if f.IsInShoppingCart {
			q = q.Where("recipes.id IN (?)", membershipSubquery(q, model.KindShoppingCart, *viewer))
		}
		return q
	}
}

func membershipSubquery(q *gorm.DB, kind model.MembershipKind, userID uuid.UUID) *gorm.DB {
	return q.Session(&gorm.Session{NewDB: true}).
		Model(&model.RecipeMembership{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind)
}
