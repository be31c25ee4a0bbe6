package models

import (
	"time"

	"github.com/google/uuid"
)

// Ingredient gets the same ownership and dedup treatment as Tag.
type Ingredient struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:uidx_ingredients_owner_name" json:"name"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:uidx_ingredients_owner_name" json:"user_id"`
	Recipes   []Recipe  `gorm:"many2many:recipe_ingredients" json:"-"`
}
