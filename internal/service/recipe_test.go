package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/backend/internal/models"
)

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("tags", "1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2, 3}, ids)

	ids, err = ParseIDList("tags", " 4 , 5 ")
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 5}, ids)

	ids, err = ParseIDList("tags", "")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = ParseIDList("tags", "1,abc")
	require.Error(t, err)
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "tags", ve.Field)

	_, err = ParseIDList("ingredients", "1,,2")
	require.Error(t, err)
	_, ok = AsValidation(err)
	assert.True(t, ok)
}

func TestListRecipesLimitedToOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	mine, err := svc.Create(ctx, alice.ID, &models.Recipe{Title: "Mine", TimeMinutes: 5, Price: 1}, nil, nil)
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, bob.ID, &models.Recipe{Title: "Theirs", TimeMinutes: 5, Price: 1}, nil, nil)
	require.NoError(t, err)

	recipes, err := svc.List(ctx, alice.ID, RecipeFilters{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, mine.ID, recipes[0].ID)

	// A guessed foreign id reads as not found, never forbidden.
	_, err = svc.Get(ctx, alice.ID, theirs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecipesOrderedByIDDescending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")
	for _, title := range []string{"First", "Second", "Third"} {
		_, err := svc.Create(ctx, user.ID, &models.Recipe{Title: title, TimeMinutes: 5, Price: 1}, nil, nil)
		require.NoError(t, err)
	}

	recipes, err := svc.List(ctx, user.ID, RecipeFilters{})
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, "Third", recipes[0].Title)
	assert.Equal(t, "Second", recipes[1].Title)
	assert.Equal(t, "First", recipes[2].Title)
}

func TestListRecipesFilteredByTagIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	curry, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Curry", TimeMinutes: 30, Price: 5}, []string{"Indian", "Spicy"}, nil)
	require.NoError(t, err)
	cake, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Cake", TimeMinutes: 60, Price: 8}, []string{"Dessert"}, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, &models.Recipe{Title: "Plain"}, nil, nil)
	require.NoError(t, err)

	tagsByName := map[string]uint{}
	for _, tag := range curry.Tags {
		tagsByName[tag.Name] = tag.ID
	}
	indianID := tagsByName["Indian"]
	spicyID := tagsByName["Spicy"]
	dessertID := cake.Tags[0].ID

	// A recipe linked to both filter ids appears exactly once.
	recipes, err := svc.List(ctx, user.ID, RecipeFilters{TagIDs: []uint{indianID, spicyID}})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, curry.ID, recipes[0].ID)

	recipes, err = svc.List(ctx, user.ID, RecipeFilters{TagIDs: []uint{indianID, dessertID}})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestListRecipesFiltersAreConjunctive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	curry, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Curry"}, []string{"Spicy"}, []string{"Chickpeas"})
	require.NoError(t, err)
	salsa, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Salsa"}, []string{"Spicy"}, []string{"Tomato"})
	require.NoError(t, err)

	spicyID := curry.Tags[0].ID
	tomatoID := salsa.Ingredients[0].ID

	recipes, err := svc.List(ctx, user.ID, RecipeFilters{
		TagIDs:        []uint{spicyID},
		IngredientIDs: []uint{tomatoID},
	})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, salsa.ID, recipes[0].ID)
}

func TestCreateRecipeWithNewTags(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Cake", TimeMinutes: 60, Price: 8}, []string{"Sweet", "Dessert"}, nil)
	require.NoError(t, err)

	require.Len(t, recipe.Tags, 2)
	assert.ElementsMatch(t, []string{"Sweet", "Dessert"}, tagNames(recipe.Tags))
	for _, tag := range recipe.Tags {
		assert.Equal(t, user.ID, tag.UserID)
	}
}

func TestCreateRecipeReusesExistingTag(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	existing := models.Tag{UserID: user.ID, Name: "Indian"}
	require.NoError(t, db.Create(&existing).Error)

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Curry"}, []string{"Indian", "Spicy"}, nil)
	require.NoError(t, err)
	require.Len(t, recipe.Tags, 2)

	byName := map[string]uint{}
	for _, tag := range recipe.Tags {
		byName[tag.Name] = tag.ID
	}
	assert.Equal(t, existing.ID, byName["Indian"])
	assert.NotZero(t, byName["Spicy"])

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ? AND name = ?", user.ID, "Indian").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateRecipeCollapsesDuplicateNames(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Stew"}, []string{"Hearty", "Hearty"}, []string{"Beef", "Beef"})
	require.NoError(t, err)
	assert.Len(t, recipe.Tags, 1)
	assert.Len(t, recipe.Ingredients, 1)
}

func TestReconcileIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Toast"}, []string{"Breakfast", "Quick"}, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		recipe, err = svc.Update(ctx, user.ID, recipe.ID, RecipeUpdate{Tags: ptr([]string{"Breakfast", "Quick"})})
		require.NoError(t, err)
	}

	assert.ElementsMatch(t, []string{"Breakfast", "Quick"}, tagNames(recipe.Tags))

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestReconcileSetReplace(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Bowl"}, []string{"A", "B"}, nil)
	require.NoError(t, err)

	var before models.Tag
	require.NoError(t, db.First(&before, "user_id = ? AND name = ?", user.ID, "B").Error)

	recipe, err = svc.Update(ctx, user.ID, recipe.ID, RecipeUpdate{Tags: ptr([]string{"B", "C"})})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B", "C"}, tagNames(recipe.Tags))

	// A is unlinked but survives in the store; B keeps its row.
	var a models.Tag
	require.NoError(t, db.First(&a, "user_id = ? AND name = ?", user.ID, "A").Error)
	var after models.Tag
	require.NoError(t, db.First(&after, "user_id = ? AND name = ?", user.ID, "B").Error)
	assert.Equal(t, before.ID, after.ID)
}

func TestReconcileClear(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Soup"}, []string{"Winter"}, []string{"Leek", "Potato"})
	require.NoError(t, err)

	recipe, err = svc.Update(ctx, user.ID, recipe.ID, RecipeUpdate{
		Tags:        ptr([]string{}),
		Ingredients: ptr([]string{}),
	})
	require.NoError(t, err)
	assert.Empty(t, recipe.Tags)
	assert.Empty(t, recipe.Ingredients)

	var tagCount, ingredientCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.Ingredient{}).Where("user_id = ?", user.ID).Count(&ingredientCount).Error)
	assert.EqualValues(t, 1, tagCount)
	assert.EqualValues(t, 2, ingredientCount)
}

func TestFindOrCreateConvergence(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	_, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Salad"}, []string{"Vegan"}, nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, user.ID, &models.Recipe{Title: "Wrap"}, []string{"Vegan"}, nil)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ? AND name = ?", user.ID, "Vegan").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBlankNameRejectedAndRolledBack(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Original"}, nil, nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, user.ID, recipe.ID, RecipeUpdate{
		Title: ptr("Renamed"),
		Tags:  ptr([]string{"  "}),
	})
	require.Error(t, err)
	_, ok := AsValidation(err)
	assert.True(t, ok)

	// The scalar write in the same call must not survive the failed reconcile.
	reloaded, err := svc.Get(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", reloaded.Title)

	_, err = svc.Create(ctx, user.ID, &models.Recipe{Title: "Bad"}, nil, []string{""})
	require.Error(t, err)
	_, ok = AsValidation(err)
	assert.True(t, ok)
}

func TestPartialUpdateLeavesOtherFieldsUntouched(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{
		Title:       "Pancakes",
		TimeMinutes: 15,
		Price:       2.50,
		Description: "Weekend staple",
	}, []string{"Breakfast"}, []string{"Flour", "Milk"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, recipe.ID, RecipeUpdate{Title: ptr("Crepes")})
	require.NoError(t, err)

	assert.Equal(t, "Crepes", updated.Title)
	assert.Equal(t, 15, updated.TimeMinutes)
	assert.Equal(t, 2.50, updated.Price)
	assert.Equal(t, "Weekend staple", updated.Description)
	assert.Equal(t, user.ID, updated.UserID)
	assert.ElementsMatch(t, []string{"Breakfast"}, tagNames(updated.Tags))
	assert.ElementsMatch(t, []string{"Flour", "Milk"}, ingredientNames(updated.Ingredients))
}

func TestUpdateForeignRecipeNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	recipe, err := svc.Create(ctx, alice.ID, &models.Recipe{Title: "Secret Sauce"}, nil, nil)
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob.ID, recipe.ID, RecipeUpdate{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, bob.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	reloaded, err := svc.Get(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret Sauce", reloaded.Title)
}

func TestDeleteRecipeKeepsTagsAndIngredients(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com")

	recipe, err := svc.Create(ctx, user.ID, &models.Recipe{Title: "Gone"}, []string{"Keeper"}, []string{"Salt"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, recipe.ID))

	_, err = svc.Get(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var tagCount, ingredientCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("user_id = ?", user.ID).Count(&tagCount).Error)
	require.NoError(t, db.Model(&models.Ingredient{}).Where("user_id = ?", user.ID).Count(&ingredientCount).Error)
	assert.EqualValues(t, 1, tagCount)
	assert.EqualValues(t, 1, ingredientCount)
}

func TestSetImageURL(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRecipeService(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	recipe, err := svc.Create(ctx, alice.ID, &models.Recipe{Title: "Pretty"}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.SetImageURL(ctx, alice.ID, recipe.ID, "https://bucket.s3.amazonaws.com/recipe-images/x.png"))

	reloaded, err := svc.Get(ctx, alice.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/recipe-images/x.png", reloaded.ImageURL)

	err = svc.SetImageURL(ctx, bob.ID, recipe.ID, "https://elsewhere")
	assert.ErrorIs(t, err, ErrNotFound)
}
