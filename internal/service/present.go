package service

import (
	"sort"

	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

func toUserResponse(u *model.User, subscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func ToTagResponse(t *model.Tag) types.TagResponse {
	return types.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func ToIngredientResponse(i *model.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// toRecipeResponse expects Author, Tags and Ingredients.Ingredient preloaded.
func toRecipeResponse(r *model.Recipe, favorited, inCart, subscribed bool) types.RecipeResponse {
	tags := make([]types.TagResponse, 0, len(r.Tags))
	for i := range r.Tags {
		tags = append(tags, ToTagResponse(&r.Tags[i]))
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Name != tags[j].Name {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].Slug < tags[j].Slug
	})

	ingredients := make([]types.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, types.RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	sort.Slice(ingredients, func(i, j int) bool {
		a, b := ingredients[i], ingredients[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.MeasurementUnit != b.MeasurementUnit {
			return a.MeasurementUnit < b.MeasurementUnit
		}
		return a.ID.String() < b.ID.String()
	})

	return types.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           toUserResponse(&r.Author, subscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}
