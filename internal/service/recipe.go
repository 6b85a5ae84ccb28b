package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService handles recipe reads and transactional writes.
type RecipeService struct {
	db          *gorm.DB
	memberships *MembershipService
	follows     *FollowService
	images      *ImageService
}

func NewRecipeService(db *gorm.DB, memberships *MembershipService, follows *FollowService, images *ImageService) *RecipeService {
	return &RecipeService{
		db:          db,
		memberships: memberships,
		follows:     follows,
		images:      images,
	}
}

// Create validates the payload and writes the recipe, its tag links and its
// ingredient amounts in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperror.ValidationFailed("text", "text is required")
	}
	if err := validateCookingTime(req.CookingTime); err != nil {
		return nil, err
	}
	ingredients, err := validateIngredients(req.Ingredients)
	if err != nil {
		return nil, err
	}
	tagIDs, err := validateTags(req.Tags)
	if err != nil {
		return nil, err
	}

	image, err := s.images.Resolve(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	uploaded := image != strings.TrimSpace(req.Image)

	recipe := model.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return replaceComposition(tx, recipe.ID, ingredients, tagIDs)
	})
	if err != nil {
		if uploaded {
			s.images.Discard(ctx, image)
		}
		return nil, err
	}

	l := applog.Ctx(ctx)
	l.Info().
		Str(applog.FieldRecipeID, recipe.ID.String()).
		Str(applog.FieldAuthorID, authorID.String()).
		Msg("recipe created")

	return s.Get(ctx, &authorID, recipe.ID)
}

// Update applies a partial update by the recipe's author. Tags and
// ingredients are replaced wholesale; on any failure nothing changes.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID uuid.UUID, req *types.UpdateRecipeRequest) (*types.RecipeResponse, error) {
	recipe, err := s.loadOwned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name may not be blank")
		}
		updates["name"] = name
	}
	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return nil, apperror.ValidationFailed("text", "text may not be blank")
		}
		updates["text"] = *req.Text
	}
	if req.CookingTime != nil {
		if err := validateCookingTime(*req.CookingTime); err != nil {
			return nil, err
		}
		updates["cooking_time"] = *req.CookingTime
	}
	ingredients, err := validateIngredients(req.Ingredients)
	if err != nil {
		return nil, err
	}
	tagIDs, err := validateTags(req.Tags)
	if err != nil {
		return nil, err
	}

	var newImage string
	uploaded := false
	if req.Image != nil {
		if newImage, err = s.images.Resolve(ctx, *req.Image); err != nil {
			return nil, err
		}
		uploaded = newImage != strings.TrimSpace(*req.Image)
		updates["image"] = newImage
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		return replaceComposition(tx, recipeID, ingredients, tagIDs)
	})
	if err != nil {
		if uploaded {
			s.images.Discard(ctx, newImage)
		}
		return nil, err
	}

	if req.Image != nil && recipe.Image != newImage {
		s.images.Discard(ctx, recipe.Image)
	}

	l := applog.Ctx(ctx)
	l.Info().Str(applog.FieldRecipeID, recipeID.String()).Msg("recipe updated")

	return s.Get(ctx, &userID, recipeID)
}

// Delete removes a recipe owned by userID together with its amounts, tag
// links and memberships.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	recipe, err := s.loadOwned(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{&model.RecipeIngredient{}, &model.RecipeTag{}, &model.RecipeMembership{}} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete recipe dependents: %w", err)
			}
		}
		if err := tx.Delete(&model.Recipe{}, "id = ?", recipeID).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.images.Discard(ctx, recipe.Image)

	l := applog.Ctx(ctx)
	l.Info().Str(applog.FieldRecipeID, recipeID.String()).Msg("recipe deleted")
	return nil
}

// Get returns one recipe as seen by viewer (nil for anonymous).
func (s *RecipeService) Get(ctx context.Context, viewer *uuid.UUID, recipeID uuid.UUID) (*types.RecipeResponse, error) {
	var recipe model.Recipe
	if err := withComposition(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", recipeID).Error; err != nil {
		return nil, notFoundOr(err, "recipe", recipeID.String(), "failed to load recipe")
	}

	out, err := s.present(ctx, viewer, []model.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// List returns one page of recipes matching filter, newest first, and the
// total number of matches.
func (s *RecipeService) List(ctx context.Context, viewer *uuid.UUID, filter RecipeFilter, page types.Pagination) ([]types.RecipeResponse, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Recipe{}).Scopes(filter.Scope(viewer)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []model.Recipe
	err := withComposition(db.Model(&model.Recipe{}).Scopes(filter.Scope(viewer))).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	out, err := s.present(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *RecipeService) loadOwned(ctx context.Context, userID, recipeID uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, notFoundOr(err, "recipe", recipeID.String(), "failed to load recipe")
	}
	if recipe.AuthorID != userID {
		return nil, apperror.Forbidden("only the author can modify this recipe")
	}
	return &recipe, nil
}

// present computes the per-viewer flags for the whole batch with one query
// per flag.
func (s *RecipeService) present(ctx context.Context, viewer *uuid.UUID, recipes []model.Recipe) ([]types.RecipeResponse, error) {
	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}

	if viewer != nil && len(recipes) > 0 {
		ids := make([]uuid.UUID, 0, len(recipes))
		authors := make([]uuid.UUID, 0, len(recipes))
		for i := range recipes {
			ids = append(ids, recipes[i].ID)
			authors = append(authors, recipes[i].AuthorID)
		}

		var err error
		if favorited, err = s.memberships.Marked(ctx, model.KindFavorite, *viewer, ids); err != nil {
			return nil, err
		}
		if inCart, err = s.memberships.Marked(ctx, model.KindShoppingCart, *viewer, ids); err != nil {
			return nil, err
		}
		if subscribed, err = s.follows.SubscribedTo(ctx, *viewer, authors); err != nil {
			return nil, err
		}
	}

	out := make([]types.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		out = append(out, toRecipeResponse(r, favorited[r.ID], inCart[r.ID], subscribed[r.AuthorID]))
	}
	return out, nil
}

func withComposition(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient")
}

func validateCookingTime(minutes int) error {
	if minutes < 1 {
		return apperror.ValidationFailed("cooking_time", "cooking time must be at least 1 minute")
	}
	return nil
}

// validateIngredients rejects an empty list and non-positive amounts, and
// reports an ingredient listed twice as a Conflict.
func validateIngredients(items []types.IngredientAmount) ([]types.IngredientAmount, error) {
	if len(items) == 0 {
		return nil, apperror.ValidationFailed("ingredients", "at least one ingredient is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.ID == uuid.Nil {
			return nil, apperror.ValidationFailed("ingredients", "ingredient id is required")
		}
		if item.Amount < 1 {
			return nil, apperror.ValidationFailed("ingredients", fmt.Sprintf("amount of ingredient %s must be at least 1", item.ID))
		}
		if _, dup := seen[item.ID]; dup {
			return nil, apperror.Conflict("ingredients", fmt.Sprintf("ingredient %s is listed more than once", item.ID))
		}
		seen[item.ID] = struct{}{}
	}
	return items, nil
}

// validateTags requires at least one tag and collapses duplicates.
func validateTags(ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, apperror.ValidationFailed("tags", "at least one tag is required")
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return nil, apperror.ValidationFailed("tags", "tag id is required")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}

// replaceComposition swaps the recipe's ingredient amounts and tag links.
// It must run inside a transaction.
func replaceComposition(tx *gorm.DB, recipeID uuid.UUID, ingredients []types.IngredientAmount, tagIDs []uuid.UUID) error {
	ingredientIDs := make([]uuid.UUID, 0, len(ingredients))
	for _, item := range ingredients {
		ingredientIDs = append(ingredientIDs, item.ID)
	}
	if err := requireExisting(tx, &model.Ingredient{}, "ingredient", ingredientIDs); err != nil {
		return err
	}
	if err := requireExisting(tx, &model.Tag{}, "tag", tagIDs); err != nil {
		return err
	}

	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&model.RecipeTag{}).Error; err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	amounts := make([]model.RecipeIngredient, 0, len(ingredients))
	for _, item := range ingredients {
		amounts = append(amounts, model.RecipeIngredient{RecipeID: recipeID, IngredientID: item.ID, Amount: item.Amount})
	}
	if err := tx.Create(&amounts).Error; err != nil {
		if isDuplicate(err) {
			return apperror.Conflict("ingredients", "ingredient is listed more than once")
		}
		return fmt.Errorf("failed to add ingredients: %w", err)
	}

	links := make([]model.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, model.RecipeTag{RecipeID: recipeID, TagID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to add tags: %w", err)
	}
	return nil
}

// requireExisting returns NotFound for the first id with no row in the model's table.
func requireExisting(tx *gorm.DB, m interface{}, resource string, ids []uuid.UUID) error {
	var found []uuid.UUID
	if err := tx.Model(m).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return fmt.Errorf("failed to look up %ss: %w", resource, err)
	}

	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return apperror.NotFound(resource, id.String())
		}
	}
	return nil
}
