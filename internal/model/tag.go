package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string    `gorm:"size:7;not null;uniqueIndex" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
