package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// TagService handles owner-scoped tag listings and mutations.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// List returns the requester's tags ordered by name descending. With
// assignedOnly set, only tags linked to at least one recipe are returned;
// the membership subquery keeps results deduplicated.
func (s *TagService) List(ctx context.Context, userID uuid.UUID, assignedOnly bool) ([]models.Tag, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name DESC")

	if assignedOnly {
		sub := s.db.Table("recipe_tags").Select("tag_id")
		q = q.Where("id IN (?)", sub)
	}

	var tags []models.Tag
	if err := q.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Update renames an owned tag.
func (s *TagService) Update(ctx context.Context, userID uuid.UUID, id uint, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Tag{}).
			Where("user_id = ? AND name = ? AND id <> ?", userID, name, id).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &ValidationError{Field: "name", Message: "tag with this name already exists"}
		}

		return tx.Model(&tag).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete removes an owned tag and unlinks it from any recipes.
func (s *TagService) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		if err := tx.First(&tag, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&tag).Association("Recipes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
