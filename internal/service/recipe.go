package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recipebox/backend/internal/models"
)

// RecipeService implements the ownership-scoped recipe operations. Every
// method takes the requesting user explicitly; there is no ambient identity.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeFilters narrows a listing to recipes linked to any of the given tag
// IDs and, independently, any of the given ingredient IDs.
type RecipeFilters struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeUpdate is a partial update: nil fields are left untouched. A non-nil
// empty Tags or Ingredients list clears that relation.
type RecipeUpdate struct {
	Title       *string
	TimeMinutes *int
	Price       *float64
	Description *string
	Link        *string
	Tags        *[]string
	Ingredients *[]string
}

// ParseIDList parses a comma-separated list of integer IDs. A non-integer or
// empty token is a validation error, not a silently dropped filter.
func ParseIDList(field, raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, &ValidationError{Field: field, Message: "invalid id " + strconv.Quote(part)}
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

// List returns the requester's recipes, most recently created first. Relation
// filters are applied as membership subqueries, so a recipe matching several
// filter IDs still appears once.
func (s *RecipeService) List(ctx context.Context, userID uuid.UUID, f RecipeFilters) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Preload("Tags").
		Preload("Ingredients")

	if len(f.TagIDs) > 0 {
		sub := s.db.Table("recipe_tags").Select("recipe_id").Where("tag_id IN ?", f.TagIDs)
		q = q.Where("id IN (?)", sub)
	}
	if len(f.IngredientIDs) > 0 {
		sub := s.db.Table("recipe_ingredients").Select("recipe_id").Where("ingredient_id IN ?", f.IngredientIDs)
		q = q.Where("id IN (?)", sub)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get resolves a recipe by id and owner in a single lookup. A recipe owned by
// someone else reads as ErrNotFound.
func (s *RecipeService) Get(ctx context.Context, userID uuid.UUID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		First(&recipe, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Create persists a recipe for the requester together with its reconciled
// tag and ingredient sets in one transaction.
func (s *RecipeService) Create(ctx context.Context, userID uuid.UUID, recipe *models.Recipe, tagNames, ingredientNames []string) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe.UserID = userID
		recipe.Tags = nil
		recipe.Ingredients = nil
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}

		if len(tagNames) > 0 {
			tags, err := resolveTags(tx, userID, tagNames)
			if err != nil {
				return err
			}
			if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}
		if len(ingredientNames) > 0 {
			ingredients, err := resolveIngredients(tx, userID, ingredientNames)
			if err != nil {
				return err
			}
			if err := tx.Model(recipe).Association("Ingredients").Replace(&ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, recipe.ID)
}

// Update applies a partial update. The scalar writes and any relation
// replaces commit atomically; ownership is checked inside the same
// transaction and can never change.
func (s *RecipeService) Update(ctx context.Context, userID uuid.UUID, id uint, upd RecipeUpdate) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		fields := map[string]interface{}{}
		if upd.Title != nil {
			fields["title"] = *upd.Title
		}
		if upd.TimeMinutes != nil {
			fields["time_minutes"] = *upd.TimeMinutes
		}
		if upd.Price != nil {
			fields["price"] = *upd.Price
		}
		if upd.Description != nil {
			fields["description"] = *upd.Description
		}
		if upd.Link != nil {
			fields["link"] = *upd.Link
		}
		if len(fields) > 0 {
			if err := tx.Model(&recipe).Updates(fields).Error; err != nil {
				return err
			}
		}

		if upd.Tags != nil {
			tags, err := resolveTags(tx, userID, *upd.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}
		if upd.Ingredients != nil {
			ingredients, err := resolveIngredients(tx, userID, *upd.Ingredients)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Ingredients").Replace(&ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Delete removes an owned recipe and its association rows. Linked tags and
// ingredients survive.
func (s *RecipeService) Delete(ctx context.Context, userID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// SetImageURL stores the uploaded image reference on an owned recipe.
func (s *RecipeService) SetImageURL(ctx context.Context, userID uuid.UUID, id uint, url string) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Model(&recipe).Update("image_url", url).Error
}

// resolveTags maps each name to an owned tag, creating missing ones. Blank
// names are rejected; duplicate names collapse to one reference.
func resolveTags(tx *gorm.DB, userID uuid.UUID, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, &ValidationError{Field: "tags", Message: "name must not be blank"}
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		tag, err := findOrCreateTag(tx, userID, name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

func resolveIngredients(tx *gorm.DB, userID uuid.UUID, names []string) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, &ValidationError{Field: "ingredients", Message: "name must not be blank"}
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		ingredient, err := findOrCreateIngredient(tx, userID, name)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, *ingredient)
	}
	return ingredients, nil
}

// findOrCreateTag reuses the owner's tag with this exact name or inserts one.
// The insert uses ON CONFLICT DO NOTHING against the (user_id, name) unique
// index: if a concurrent request wins the race, the insert affects no rows
// and the winner's row is fetched instead.
func findOrCreateTag(tx *gorm.DB, userID uuid.UUID, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{UserID: userID, Name: name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
		return nil, err
	}
	if tag.ID == 0 {
		if err := tx.Where("user_id = ? AND name = ?", userID, name).First(&tag).Error; err != nil {
			return nil, err
		}
	}
	return &tag, nil
}

func findOrCreateIngredient(tx *gorm.DB, userID uuid.UUID, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := tx.Where("user_id = ? AND name = ?", userID, name).First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ingredient = models.Ingredient{UserID: userID, Name: name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredient).Error; err != nil {
		return nil, err
	}
	if ingredient.ID == 0 {
		if err := tx.Where("user_id = ? AND name = ?", userID, name).First(&ingredient).Error; err != nil {
			return nil, err
		}
	}
	return &ingredient, nil
}
