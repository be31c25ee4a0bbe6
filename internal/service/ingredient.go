package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// IngredientService mirrors TagService for the ingredient relation.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

func (s *IngredientService) List(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name DESC")

	if assignedOnly {
		sub := s.db.Table("recipe_ingredients").Select("ingredient_id")
		q = q.Where("id IN (?)", sub)
	}

	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) Update(ctx context.Context, userID uuid.UUID, id uint, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&ingredient, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Ingredient{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, name, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ValidationError{Field: "name", Message: "ingredient with this name already exists"}
		}

		return tx.Model(&ingredient).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (s *IngredientService) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.First(&ingredient, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&ingredient).Association("Recipes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
}
