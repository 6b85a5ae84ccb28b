package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperror"
	applog "github.com/pageza/foodgram/backend/internal/log"
	"github.com/pageza/foodgram/backend/internal/model"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MembershipService manages the per-user recipe sets (favorites and the
// shopping cart). Every set shares one table keyed by kind, so all
// operations take the kind explicitly.
type MembershipService struct {
	db *gorm.DB
}

func NewMembershipService(db *gorm.DB) *MembershipService {
	return &MembershipService{db: db}
}

func kindLabel(kind model.MembershipKind) string {
	if kind == model.KindShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

// Add puts the recipe into the user's set and returns its brief projection.
// Adding a recipe twice is a Conflict; a racing duplicate that slips past
// the existence check is caught by the unique index.
func (s *MembershipService) Add(ctx context.Context, kind model.MembershipKind, userID, recipeID uuid.UUID) (*types.RecipeBrief, error) {
	if !kind.Valid() {
		return nil, apperror.ValidationFailed("kind", fmt.Sprintf("unknown membership kind %q", kind))
	}

	db := s.db.WithContext(ctx)

	var recipe model.Recipe
	if err := db.First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, notFoundOr(err, "recipe", recipeID.String(), "failed to load recipe")
	}

	var count int64
	if err := db.Model(&model.RecipeMembership{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if count > 0 {
		return nil, apperror.Conflict("recipe", fmt.Sprintf("recipe is already in %s", kindLabel(kind)))
	}

	row := model.RecipeMembership{Kind: kind, UserID: userID, RecipeID: recipeID}
	if err := db.Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("recipe", fmt.Sprintf("recipe is already in %s", kindLabel(kind)))
		}
		return nil, fmt.Errorf("failed to add membership: %w", err)
	}

	l := applog.Ctx(ctx)
	l.Info().
		Str(applog.FieldKind, string(kind)).
		Str(applog.FieldUserID, userID.String()).
		Str(applog.FieldRecipeID, recipeID.String()).
		Msg("recipe added to set")

	brief := briefOf(&recipe)
	return &brief, nil
}

// Remove deletes the recipe from the user's set. Removing an absent member
// is NotFound.
func (s *MembershipService) Remove(ctx context.Context, kind model.MembershipKind, userID, recipeID uuid.UUID) error {
	if !kind.Valid() {
		return apperror.ValidationFailed("kind", fmt.Sprintf("unknown membership kind %q", kind))
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	if count == 0 {
		return apperror.NotFound("recipe", recipeID.String())
	}

	result := db.Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&model.RecipeMembership{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove membership: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return &apperror.AppError{
			Err:     apperror.ErrNotFound,
			Message: fmt.Sprintf("recipe is not in %s", kindLabel(kind)),
			Field:   "recipe",
		}
	}
	return nil
}

func (s *MembershipService) Contains(ctx context.Context, kind model.MembershipKind, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.RecipeMembership{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// Marked reports which of recipeIDs are in the user's set, in one query.
func (s *MembershipService) Marked(ctx context.Context, kind model.MembershipKind, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	marked := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&model.RecipeMembership{}).
		Where("user_id = ? AND kind = ? AND recipe_id IN ?", userID, kind, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load memberships: %w", err)
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}

func briefOf(r *model.Recipe) types.RecipeBrief {
	return types.RecipeBrief{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
