package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a user-owned label attached to recipes. The composite unique index on
// (user_id, name) is what makes concurrent find-or-create converge on a single
// row per owner and name.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uidx_tags_owner_name" json:"name"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:uidx_tags_owner_name" json:"user_id"`
	Recipes   []Recipe  `gorm:"many2many:recipe_tags" json:"-"`
}
