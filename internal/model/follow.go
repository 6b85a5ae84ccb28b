package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow is a subscription of UserID to the recipes of AuthorID.
type Follow struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author,priority:1;check:chk_follows_not_self,user_id <> author_id" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_user_author,priority:2;index" json:"author_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
