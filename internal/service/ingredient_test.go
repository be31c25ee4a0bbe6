package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/backend/internal/models"
)

func TestListIngredientsLimitedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIngredientService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	for _, name := range []string{"Salt", "Turmeric"} {
		require.NoError(t, db.Create(&models.Ingredient{UserID: alice.ID, Name: name}).Error)
	}
	require.NoError(t, db.Create(&models.Ingredient{UserID: bob.ID, Name: "Sugar"}).Error)

	ingredients, err := svc.List(ctx, alice.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Turmeric", "Salt"}, ingredientNames(ingredients))
}

func TestListIngredientsAssignedOnly(t *testing.T) {
	db := setupTestDB(t)
	ingredients := NewIngredientService(db)
	recipes := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	_, err := recipes.Create(ctx, user.ID, &models.Recipe{Title: "Fries"}, nil, []string{"Potato"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Ingredient{UserID: user.ID, Name: "Saffron"}).Error)

	assigned, err := ingredients.List(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Potato", assigned[0].Name)
}

func TestUpdateAndDeleteIngredientScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewIngredientService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	ingredient := models.Ingredient{UserID: alice.ID, Name: "Corriander"}
	require.NoError(t, db.Create(&ingredient).Error)

	renamed, err := svc.Update(ctx, alice.ID, ingredient.ID, "Coriander")
	require.NoError(t, err)
	assert.Equal(t, "Coriander", renamed.Name)

	_, err = svc.Update(ctx, bob.ID, ingredient.ID, "Cilantro")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, bob.ID, ingredient.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, alice.ID, ingredient.ID))

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
