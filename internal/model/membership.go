package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipKind names one of the per-user recipe sets.
type MembershipKind string

const (
	KindFavorite     MembershipKind = "favorite"
	KindShoppingCart MembershipKind = "shopping_cart"
)

func (k MembershipKind) Valid() bool {
	return k == KindFavorite || k == KindShoppingCart
}

// RecipeMembership marks a recipe as a member of one user's set of the given
// kind. A user may mark a recipe at most once per kind.
type RecipeMembership struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Kind      MembershipKind `gorm:"size:20;not null;uniqueIndex:idx_membership_user_recipe_kind,priority:3" json:"kind"`
	UserID    uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_user_recipe_kind,priority:1" json:"user_id"`
	RecipeID  uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex:idx_membership_user_recipe_kind,priority:2;index" json:"recipe_id"`
	User      User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    Recipe         `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecipeMembership) TableName() string {
	return "recipe_memberships"
}

func (m *RecipeMembership) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
